package notify

import (
	"context"
	"fmt"

	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/pkg/logger"
)

// LogChannel writes reminders to the service log. It never fails and is
// the default channel for local development. Next to real channels it is an
// observer: logging a reminder alone does not mark it delivered.
type LogChannel struct {
	log logger.Logger
}

// NewLogChannel creates a LogChannel.
func NewLogChannel(log logger.Logger) *LogChannel {
	return &LogChannel{log: log}
}

func (c *LogChannel) Name() constant.Channel { return constant.ChannelLog }

func (c *LogChannel) Deliver(_ context.Context, reminder *entity.Reminder) error {
	c.log.Info(fmt.Sprintf("🔔 Reminder %d for user %s: %s (scheduled %s)",
		reminder.ID, reminder.UserID, reminder.Message, reminder.ScheduledAt.UTC().Format("2006-01-02 15:04:05")))
	return nil
}

func (c *LogChannel) observesOnly() {}
