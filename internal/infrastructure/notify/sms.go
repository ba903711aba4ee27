package notify

import (
	"context"
	"fmt"

	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/entity"
	appErrors "fitreminder/internal/pkg/errors"
)

// SMSSender is the part of the Twilio client the channel needs.
type SMSSender interface {
	SendSMS(to, body string) (string, error)
}

// SMSChannel texts reminders to a user's phone.
type SMSChannel struct {
	client   SMSSender
	contacts ContactLookup
}

// NewSMSChannel creates an SMSChannel.
func NewSMSChannel(client SMSSender, contacts ContactLookup) *SMSChannel {
	return &SMSChannel{client: client, contacts: contacts}
}

func (c *SMSChannel) Name() constant.Channel { return constant.ChannelTwilio }

func (c *SMSChannel) Deliver(ctx context.Context, reminder *entity.Reminder) error {
	phone, err := contactAddress(ctx, c.contacts, reminder, constant.ChannelTwilio, func(ct *entity.Contact) string { return ct.Phone })
	if err != nil {
		return err
	}
	if _, err := c.client.SendSMS(phone, reminder.Message); err != nil {
		return fmt.Errorf("%w: sms for reminder %d: %v", appErrors.ErrDispatch, reminder.ID, err)
	}
	return nil
}
