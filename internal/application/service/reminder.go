package service

import (
	"context"
	"fitreminder/internal/application/dto"
)

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// CreateReminder stores a new reminder for userID at req.ScheduledAt.
	CreateReminder(ctx context.Context, userID string, req dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	// ListReminders retrieves all reminders of a user ordered by scheduled time.
	ListReminders(ctx context.Context, userID string) ([]dto.ReminderResponse, error)
}
