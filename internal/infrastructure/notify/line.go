package notify

import (
	"context"
	"fmt"

	"fitreminder/internal/domain/constant"
	"fitreminder/internal/domain/entity"
	appErrors "fitreminder/internal/pkg/errors"
)

// LinePusher is the part of the LINE client the channel needs.
type LinePusher interface {
	PushText(ctx context.Context, to, text string) error
}

// LineChannel pushes reminders to a user's LINE account.
type LineChannel struct {
	client   LinePusher
	contacts ContactLookup
}

// NewLineChannel creates a LineChannel.
func NewLineChannel(client LinePusher, contacts ContactLookup) *LineChannel {
	return &LineChannel{client: client, contacts: contacts}
}

func (c *LineChannel) Name() constant.Channel { return constant.ChannelLine }

func (c *LineChannel) Deliver(ctx context.Context, reminder *entity.Reminder) error {
	to, err := contactAddress(ctx, c.contacts, reminder, constant.ChannelLine, func(ct *entity.Contact) string { return ct.LineUserID })
	if err != nil {
		return err
	}
	if err := c.client.PushText(ctx, to, reminder.Message); err != nil {
		return fmt.Errorf("%w: line push for reminder %d: %v", appErrors.ErrDispatch, reminder.ID, err)
	}
	return nil
}
