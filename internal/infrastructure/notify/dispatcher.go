// Package notify delivers due reminders to the channels users registered.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/entity"
	appErrors "fitreminder/internal/pkg/errors"
)

// Channel delivers a reminder through one transport.
type Channel interface {
	Name() constant.Channel
	Deliver(ctx context.Context, reminder *entity.Reminder) error
}

// ContactLookup resolves the delivery addresses of a user.
type ContactLookup interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Contact, error)
}

// observer is implemented by channels that only record a reminder and never
// reach the user. Their success does not count as a delivery.
type observer interface {
	observesOnly()
}

func isObserver(ch Channel) bool {
	_, ok := ch.(observer)
	return ok
}

// contactAddress looks up the address pick returns for the reminder owner.
// A missing contact or empty address is reported as ErrNoRecipient.
func contactAddress(ctx context.Context, contacts ContactLookup, reminder *entity.Reminder, channel constant.Channel, pick func(*entity.Contact) string) (string, error) {
	contact, err := contacts.FindByUserID(ctx, reminder.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrContactNotFound) {
			return "", fmt.Errorf("%w: %s has no contact for user %s", appErrors.ErrNoRecipient, channel, reminder.UserID)
		}
		return "", err
	}
	address := pick(contact)
	if address == "" {
		return "", fmt.Errorf("%w: %s address missing for user %s", appErrors.ErrNoRecipient, channel, reminder.UserID)
	}
	return address, nil
}

func reminderData(reminder *entity.Reminder) map[string]string {
	return map[string]string{
		"type":        "workout_reminder",
		"reminderId":  strconv.FormatUint(uint64(reminder.ID), 10),
		"scheduledAt": reminder.ScheduledAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
