package notify

import (
	"context"
	"fmt"

	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/entity"
	appErrors "fitreminder/internal/pkg/errors"
)

// PushSender is the part of the FCM client the channel needs.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}

// FCMChannel sends reminders as mobile push notifications.
type FCMChannel struct {
	client   PushSender
	contacts ContactLookup
}

// NewFCMChannel creates an FCMChannel.
func NewFCMChannel(client PushSender, contacts ContactLookup) *FCMChannel {
	return &FCMChannel{client: client, contacts: contacts}
}

func (c *FCMChannel) Name() constant.Channel { return constant.ChannelFCM }

func (c *FCMChannel) Deliver(ctx context.Context, reminder *entity.Reminder) error {
	token, err := contactAddress(ctx, c.contacts, reminder, constant.ChannelFCM, func(ct *entity.Contact) string { return ct.FCMToken })
	if err != nil {
		return err
	}
	if _, err := c.client.Send(ctx, token, constant.ReminderTitle, reminder.Message, reminderData(reminder)); err != nil {
		return fmt.Errorf("%w: fcm push for reminder %d: %v", appErrors.ErrDispatch, reminder.ID, err)
	}
	return nil
}
