package database

import (
	"context"
	"errors"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	appErrors "fitreminder/internal/pkg/errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", appErrors.ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("%w: find reminder %d: %v", appErrors.ErrDatabaseOperation, id, err)
	}
	return &reminder, nil
}

// FindByUserID retrieves all reminders for a specific user, earliest first.
func (r *reminderRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	reminders := make([]*entity.Reminder, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at asc").Order("id asc").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("%w: find reminders by user_id %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return reminders, nil
}

// FindDue retrieves unsent reminders whose scheduled time has passed.
func (r *reminderRepository) FindDue(ctx context.Context, now time.Time, maxAttempts int) ([]*entity.Reminder, error) {
	reminders := make([]*entity.Reminder, 0)
	q := r.db.WithContext(ctx).
		Where("is_sent = ? AND scheduled_at <= ?", false, now.UTC())
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}
	if err := q.Order("scheduled_at asc").Order("id asc").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("%w: find due reminders: %v", appErrors.ErrDatabaseOperation, err)
	}
	return reminders, nil
}

// Create creates a new reminder. Returns the ID of the created reminder.
func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) (uint, error) {
	if reminder.UserID == "" {
		return 0, fmt.Errorf("%w: userId is required", appErrors.ErrValidation)
	}
	if reminder.ScheduledAt.IsZero() {
		return 0, fmt.Errorf("%w: scheduledAt is required", appErrors.ErrValidation)
	}
	reminder.ScheduledAt = reminder.ScheduledAt.UTC()
	reminder.IsSent = false
	reminder.SentAt = nil

	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return 0, fmt.Errorf("%w: create reminder for user %s: %v", appErrors.ErrDatabaseOperation, reminder.UserID, err)
	}
	return reminder.ID, nil
}

// MarkSent sets is_sent only on rows that are still unsent, so the update
// itself decides which caller claimed the reminder.
func (r *reminderRepository) MarkSent(ctx context.Context, id uint, at time.Time) (bool, error) {
	sentAt := at.UTC()
	res := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ? AND is_sent = ?", id, false).
		Updates(map[string]interface{}{
			"is_sent":         true,
			"sent_at":         sentAt,
			"last_error":      "",
			"last_attempt_at": sentAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("%w: mark reminder %d sent: %v", appErrors.ErrDatabaseOperation, id, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	// Nothing changed: either already sent (idempotent no-op) or unknown.
	if _, err := r.FindByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// RecordFailure bumps the attempt counter of an unsent reminder.
func (r *reminderRepository) RecordFailure(ctx context.Context, id uint, reason string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ? AND is_sent = ?", id, false).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + ?", 1),
			"last_error":      reason,
			"last_attempt_at": at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: record failure for reminder %d: %v", appErrors.ErrDatabaseOperation, id, res.Error)
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *reminderRepository) Ping(ctx context.Context) error {
	if err := Ping(ctx, r.db); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}
