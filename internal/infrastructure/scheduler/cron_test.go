package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"fitreminder/internal/pkg/logger"
)

func TestSchedulerRunsAndStops(t *testing.T) {
	t.Parallel()
	s := NewScheduler(logger.Nop())

	var runs int32
	id, err := s.AddJob("@every 1s", func() { atomic.AddInt32(&runs, 1) })
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if entries := s.GetEntries(); len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	s.Start()
	s.Start()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&runs) == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if atomic.LoadInt32(&runs) == 0 {
		t.Fatalf("job never ran")
	}

	s.RemoveJob(id)
	if entries := s.GetEntries(); len(entries) != 0 {
		t.Fatalf("job not removed: %+v", entries)
	}

	after := atomic.LoadInt32(&runs)
	time.Sleep(1500 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != after {
		t.Fatalf("job ran after stop: %d -> %d", after, got)
	}
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	t.Parallel()
	s := NewScheduler(logger.Nop())
	if _, err := s.AddJob("not a spec", func() {}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestFormatKV(t *testing.T) {
	t.Parallel()
	got := formatKV("cron: run", []interface{}{"entry", 1, "next", "soon"})
	if want := "cron: run entry=1 next=soon"; got != want {
		t.Fatalf("formatKV = %q, want %q", got, want)
	}
}
