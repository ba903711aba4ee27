package service

import (
	"context"
	"fitreminder/internal/application/dto"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"
	"fmt"
	"strings"
	"time"
)

type reminderService struct {
	reminderRepo repository.ReminderRepository
	message      string
	now          func() time.Time
	log          logger.Logger
}

// NewReminderService creates a new instance of ReminderService implementation.
// message is the text every new reminder carries; now defaults to time.Now.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	message string,
	now func() time.Time,
	log logger.Logger,
) ReminderService {
	if now == nil {
		now = time.Now
	}
	return &reminderService{
		reminderRepo: reminderRepo,
		message:      message,
		now:          now,
		log:          log,
	}
}

// CreateReminder validates the requested time and stores an unsent reminder.
func (s *reminderService) CreateReminder(ctx context.Context, userID string, req dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	if strings.TrimSpace(userID) == "" || req.ScheduledAt == nil || req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: userId and scheduledAt are required", appErrors.ErrValidation)
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, fmt.Errorf("%w: %w", appErrors.ErrValidation, appErrors.ErrInvalidDateTime)
	}

	reminder := &entity.Reminder{
		UserID:      userID,
		Message:     s.message,
		ScheduledAt: req.ScheduledAt.UTC(),
	}
	reminderID, err := s.reminderRepo.Create(ctx, reminder)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create reminder for user %s", userID), err)
		return nil, err
	}

	s.log.Info(fmt.Sprintf("Created reminder %d for user %s at %s", reminderID, userID, reminder.ScheduledAt.Format(time.RFC3339)))
	resp := dto.ToReminderResponse(reminder)
	return &resp, nil
}

// ListReminders retrieves the reminders of a user, earliest first.
func (s *reminderService) ListReminders(ctx context.Context, userID string) ([]dto.ReminderResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", appErrors.ErrValidation)
	}
	reminders, err := s.reminderRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list reminders for user %s", userID), err)
		return nil, err
	}
	return dto.ToReminderResponseList(reminders), nil
}
