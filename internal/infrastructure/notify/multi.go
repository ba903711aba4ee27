package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitreminder/internal/domain/entity"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"
)

// Multi delivers a reminder through every configured channel. Delivery
// succeeds when at least one user-facing channel accepted the reminder.
// Channels that have no address for the user are skipped silently. Observer
// channels (log) run but only decide the outcome when nothing else is configured.
type Multi struct {
	channels []Channel
	log      logger.Logger
}

// NewMulti creates a fan-out dispatcher over channels, tried in order.
func NewMulti(log logger.Logger, channels ...Channel) *Multi {
	return &Multi{channels: channels, log: log}
}

// Deliver implements the scheduler's dispatcher contract.
func (m *Multi) Deliver(ctx context.Context, reminder *entity.Reminder) error {
	if len(m.channels) == 0 {
		return fmt.Errorf("%w: no delivery channels configured", appErrors.ErrDispatch)
	}

	delivered, targets := 0, 0
	var failures []string
	for _, ch := range m.channels {
		err := ch.Deliver(ctx, reminder)
		if isObserver(ch) {
			if err != nil {
				m.log.Warn(fmt.Sprintf("Reminder %d not recorded on %s: %v", reminder.ID, ch.Name(), err))
			}
			continue
		}
		targets++
		switch {
		case err == nil:
			delivered++
			m.log.Debug(fmt.Sprintf("Reminder %d delivered via %s", reminder.ID, ch.Name()))
		case errors.Is(err, appErrors.ErrNoRecipient):
			m.log.Debug(fmt.Sprintf("Reminder %d skipped on %s: %v", reminder.ID, ch.Name(), err))
		default:
			failures = append(failures, fmt.Sprintf("%s: %v", ch.Name(), err))
			m.log.Warn(fmt.Sprintf("Reminder %d failed on %s: %v", reminder.ID, ch.Name(), err))
		}
	}

	if delivered > 0 || targets == 0 {
		return nil
	}
	if len(failures) == 0 {
		return fmt.Errorf("%w: %w: user %s has no address on any channel", appErrors.ErrDispatch, appErrors.ErrNoRecipient, reminder.UserID)
	}
	return fmt.Errorf("%w: %s", appErrors.ErrDispatch, strings.Join(failures, "; "))
}

// Names lists the configured channel names.
func (m *Multi) Names() []string {
	names := make([]string, len(m.channels))
	for i, ch := range m.channels {
		names[i] = ch.Name().String()
	}
	return names
}
