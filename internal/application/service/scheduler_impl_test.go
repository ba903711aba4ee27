package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"fitreminder/internal/application/dto"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	"fitreminder/internal/infrastructure/database"
	"fitreminder/internal/infrastructure/scheduler"
	"fitreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeDispatcher struct {
	mu        sync.Mutex
	fail      bool
	delivered []uint
	entered   chan struct{}
	block     chan struct{}
}

func (d *fakeDispatcher) Deliver(_ context.Context, r *entity.Reminder) error {
	if d.block != nil {
		d.entered <- struct{}{}
		<-d.block
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errors.New("push provider unreachable")
	}
	d.delivered = append(d.delivered, r.ID)
	return nil
}

func (d *fakeDispatcher) setFail(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = fail
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

type fakeLocker struct {
	held     bool
	released int
}

func (l *fakeLocker) TryLock(context.Context) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	return func() { l.released++ }, true, nil
}

type failingRepo struct {
	repository.ReminderRepository
}

func (failingRepo) FindDue(context.Context, time.Time, int) ([]*entity.Reminder, error) {
	return nil, errors.New("database is locked")
}

type harness struct {
	repo       repository.ReminderRepository
	reminders  ReminderService
	clock      *fakeClock
	dispatcher *fakeDispatcher
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := database.Open(database.Options{SQLitePath: dsn}, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := newTestDB(t)
	clock := &fakeClock{now: time.Date(2030, 3, 10, 6, 0, 0, 0, time.UTC)}
	repo := database.NewReminderRepository(db)
	return &harness{
		repo:       repo,
		reminders:  NewReminderService(repo, "Time to workout", clock.Now, logger.Nop()),
		clock:      clock,
		dispatcher: &fakeDispatcher{},
	}
}

func (h *harness) scheduler(cfg SchedulerConfig) SchedulerService {
	if cfg.Now == nil {
		cfg.Now = h.clock.Now
	}
	return NewSchedulerService(scheduler.NewScheduler(logger.Nop()), h.repo, h.dispatcher, cfg, logger.Nop())
}

func (h *harness) create(t *testing.T, userID string, in time.Duration) *dto.ReminderResponse {
	t.Helper()
	at := h.clock.Now().Add(in)
	r, err := h.reminders.CreateReminder(context.Background(), userID, dto.CreateReminderRequest{ScheduledAt: &at})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	return r
}

func (h *harness) isSent(t *testing.T, id uint) bool {
	t.Helper()
	r, err := h.repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find reminder %d: %v", id, err)
	}
	return r.IsSent
}

func TestDueReminderIsDispatchedOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	s := h.scheduler(SchedulerConfig{})

	r := h.create(t, "u1", time.Second)
	h.clock.Advance(2 * time.Second)

	due, err := h.repo.FindDue(ctx, h.clock.Now(), 0)
	if err != nil || len(due) != 1 || due[0].ID != r.ID {
		t.Fatalf("expected reminder %d to be due, got %v (err %v)", r.ID, due, err)
	}

	res := s.Tick(ctx)
	if res.Due != 1 || res.Sent != 1 || res.Failed != 0 {
		t.Fatalf("unexpected tick result: %+v", res)
	}
	if !h.isSent(t, r.ID) {
		t.Fatalf("reminder not marked sent")
	}

	if due, _ := h.repo.FindDue(ctx, h.clock.Now(), 0); len(due) != 0 {
		t.Fatalf("sent reminder still due: %v", due)
	}
	if res := s.Tick(ctx); res.Due != 0 || h.dispatcher.count() != 1 {
		t.Fatalf("reminder dispatched again: %+v, deliveries %d", res, h.dispatcher.count())
	}
}

func TestFutureReminderIsNotDue(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.create(t, "u1", time.Hour)

	res := h.scheduler(SchedulerConfig{}).Tick(context.Background())
	if res.Due != 0 || h.dispatcher.count() != 0 {
		t.Fatalf("future reminder dispatched: %+v", res)
	}
}

func TestFailedDispatchIsRetriedNextTick(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	s := h.scheduler(SchedulerConfig{})

	r := h.create(t, "u1", time.Minute)
	h.clock.Advance(time.Minute)

	h.dispatcher.setFail(true)
	res := s.Tick(ctx)
	if res.Failed != 1 || res.Sent != 0 {
		t.Fatalf("unexpected tick result: %+v", res)
	}
	if h.isSent(t, r.ID) {
		t.Fatalf("failed reminder must stay unsent")
	}
	stored, _ := h.repo.FindByID(ctx, r.ID)
	if stored.Attempts != 1 || stored.LastError == "" {
		t.Fatalf("failure not recorded: %+v", stored)
	}

	h.dispatcher.setFail(false)
	h.clock.Advance(time.Minute)
	res = s.Tick(ctx)
	if res.Sent != 1 {
		t.Fatalf("reminder not retried: %+v", res)
	}
	if !h.isSent(t, r.ID) {
		t.Fatalf("retried reminder not marked sent")
	}
}

func TestMaxAttemptsStopsRetrying(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	s := h.scheduler(SchedulerConfig{MaxAttempts: 2})

	h.create(t, "u1", time.Minute)
	h.clock.Advance(time.Minute)
	h.dispatcher.setFail(true)

	for i := 0; i < 2; i++ {
		if res := s.Tick(ctx); res.Failed != 1 {
			t.Fatalf("tick %d: unexpected result %+v", i, res)
		}
	}
	if res := s.Tick(ctx); res.Due != 0 {
		t.Fatalf("reminder past the attempt limit was polled again: %+v", res)
	}
}

func TestAllDueRemindersAreSent(t *testing.T) {
	t.Parallel()
	for _, concurrency := range []int{1, 4} {
		h := newHarness(t)
		ctx := context.Background()
		s := h.scheduler(SchedulerConfig{Concurrency: concurrency})

		late := h.create(t, "u1", 2*time.Minute)
		early := h.create(t, "u2", time.Minute)
		h.clock.Advance(3 * time.Minute)

		res := s.Tick(ctx)
		if res.Due != 2 || res.Sent != 2 {
			t.Fatalf("concurrency %d: unexpected tick result %+v", concurrency, res)
		}
		if !h.isSent(t, early.ID) || !h.isSent(t, late.ID) {
			t.Fatalf("concurrency %d: a due reminder was skipped", concurrency)
		}
		if concurrency == 1 && (h.dispatcher.delivered[0] != early.ID || h.dispatcher.delivered[1] != late.ID) {
			t.Fatalf("sequential dispatch out of order: %v", h.dispatcher.delivered)
		}
	}
}

func TestListRemindersForUnknownUserIsEmpty(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	got, err := h.reminders.ListReminders(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestStoreFailureSkipsTick(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	s := NewSchedulerService(scheduler.NewScheduler(logger.Nop()), failingRepo{h.repo}, h.dispatcher, SchedulerConfig{Now: h.clock.Now}, logger.Nop())

	res := s.Tick(context.Background())
	if res.Err == nil || res.Due != 0 || h.dispatcher.count() != 0 {
		t.Fatalf("expected skipped tick with error, got %+v", res)
	}
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.dispatcher.entered = make(chan struct{}, 1)
	h.dispatcher.block = make(chan struct{})
	s := h.scheduler(SchedulerConfig{})

	r := h.create(t, "u1", time.Minute)
	h.clock.Advance(time.Minute)

	done := make(chan TickResult)
	go func() { done <- s.Tick(context.Background()) }()

	select {
	case <-h.dispatcher.entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("first tick never reached the dispatcher")
	}

	if res := s.Tick(context.Background()); !res.Skipped {
		t.Fatalf("overlapping tick was not skipped: %+v", res)
	}

	close(h.dispatcher.block)
	if res := <-done; res.Sent != 1 {
		t.Fatalf("first tick result: %+v", res)
	}
	if !h.isSent(t, r.ID) || h.dispatcher.count() != 1 {
		t.Fatalf("reminder delivered %d times", h.dispatcher.count())
	}
}

func TestTickLockHeldElsewhere(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	locker := &fakeLocker{held: true}
	s := h.scheduler(SchedulerConfig{Locker: locker})

	h.create(t, "u1", time.Minute)
	h.clock.Advance(time.Minute)

	if res := s.Tick(context.Background()); !res.Skipped || h.dispatcher.count() != 0 {
		t.Fatalf("tick ran without the lock: %+v", res)
	}

	locker.held = false
	if res := s.Tick(context.Background()); res.Sent != 1 {
		t.Fatalf("tick with lock: %+v", res)
	}
	if locker.released != 1 {
		t.Fatalf("lock released %d times, want 1", locker.released)
	}
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	s := h.scheduler(SchedulerConfig{Interval: time.Second, TickTimeout: 5 * time.Second})

	r := h.create(t, "u1", time.Minute)
	h.clock.Advance(time.Minute)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.dispatcher.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	s.Stop()

	if !h.isSent(t, r.ID) {
		t.Fatalf("background loop never sent the reminder")
	}
}
