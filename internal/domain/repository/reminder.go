package repository

import (
	"context"
	"fitreminder/internal/domain/entity"
	"time"
)

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Reminder, error)
	// FindByUserID retrieves all reminders for a user ordered by scheduled time.
	// A user without reminders yields an empty slice, not an error.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error)
	// FindDue retrieves unsent reminders scheduled at or before now, oldest first.
	// When maxAttempts > 0, reminders that already failed maxAttempts times are left out.
	FindDue(ctx context.Context, now time.Time, maxAttempts int) ([]*entity.Reminder, error)
	// Create inserts a new unsent reminder. Returns the ID of the created reminder.
	Create(ctx context.Context, reminder *entity.Reminder) (uint, error)
	// MarkSent flips the sent flag if it is still unset. claimed is false when
	// the reminder had already been marked, which is not an error.
	MarkSent(ctx context.Context, id uint, at time.Time) (claimed bool, err error)
	// RecordFailure bumps the attempt counter and stores the failure reason.
	RecordFailure(ctx context.Context, id uint, reason string, at time.Time) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
