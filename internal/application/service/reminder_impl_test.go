package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitreminder/internal/application/dto"
	appErrors "fitreminder/internal/pkg/errors"
)

func TestCreateReminderStoresUnsentReminder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	local := time.FixedZone("JST", 9*60*60)
	at := h.clock.Now().Add(time.Hour).In(local)
	got, err := h.reminders.CreateReminder(context.Background(), "u1", dto.CreateReminderRequest{ScheduledAt: &at})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if got.ID == 0 || got.UserID != "u1" || got.IsSent || got.SentAt != nil {
		t.Fatalf("unexpected reminder: %+v", got)
	}
	if got.Message != "Time to workout" {
		t.Fatalf("message = %q", got.Message)
	}
	if !got.ScheduledAt.Equal(at) || got.ScheduledAt.Location() != time.UTC {
		t.Fatalf("scheduledAt = %v, want %v in UTC", got.ScheduledAt, at)
	}
}

func TestCreateReminderValidation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	past := h.clock.Now().Add(-time.Minute)
	now := h.clock.Now()
	cases := []struct {
		name    string
		userID  string
		at      *time.Time
		invalid bool
	}{
		{name: "missing time", userID: "u1"},
		{name: "missing user", at: &now},
		{name: "past time", userID: "u1", at: &past, invalid: true},
		{name: "current time", userID: "u1", at: &now, invalid: true},
	}

	for _, tc := range cases {
		_, err := h.reminders.CreateReminder(ctx, tc.userID, dto.CreateReminderRequest{ScheduledAt: tc.at})
		if !errors.Is(err, appErrors.ErrValidation) {
			t.Fatalf("%s: got %v, want ErrValidation", tc.name, err)
		}
		if tc.invalid != errors.Is(err, appErrors.ErrInvalidDateTime) {
			t.Fatalf("%s: ErrInvalidDateTime mismatch: %v", tc.name, err)
		}
	}

	if got, _ := h.reminders.ListReminders(ctx, "u1"); len(got) != 0 {
		t.Fatalf("rejected reminders were stored: %+v", got)
	}
}

func TestListRemindersIsScopedAndOrdered(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.create(t, "u1", 3*time.Hour)
	h.create(t, "u2", 2*time.Hour)
	h.create(t, "u1", time.Hour)

	got, err := h.reminders.ListReminders(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reminders, want 2", len(got))
	}
	if !got[0].ScheduledAt.Before(got[1].ScheduledAt) {
		t.Fatalf("reminders not ordered by scheduledAt: %v, %v", got[0].ScheduledAt, got[1].ScheduledAt)
	}
	for _, r := range got {
		if r.UserID != "u1" {
			t.Fatalf("leaked reminder of user %s", r.UserID)
		}
	}
}
