package line

import (
	"context"
	"fitreminder/internal/pkg/logger"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client.
type Client struct {
	bot *linebot.Client
	log logger.Logger
}

// NewClient creates a LINE Messaging API client from channel credentials.
func NewClient(channelSecret, channelToken string, log logger.Logger) (*Client, error) {
	if channelSecret == "" || channelToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN must be set")
	}

	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE Bot client: %w", err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{bot: bot, log: log}, nil
}

// PushText sends a text message to a LINE user using the PushMessage API.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	_, err := c.bot.PushMessage(to, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return err // Return the error for the caller to handle
	}
	c.log.Debug(fmt.Sprintf("Successfully sent push message to %s.", to))
	return nil
}

// ParseRequest verifies the signature of a webhook request and parses its events.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.bot.ParseRequest(r)
}

// ReplyText answers a webhook event with a text message.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	_, err := c.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	return err
}
