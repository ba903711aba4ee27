package twilio

import (
	"fmt"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client wraps Twilio messaging operations.
type Client struct {
	client *twilio.RestClient
	from   string
}

// New creates a Twilio client bound to the configured sender number.
func New(accountSID, authToken, from string) (*Client, error) {
	if accountSID == "" || authToken == "" || strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set")
	}
	return &Client{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		from:   normalizeNumber(from),
	}, nil
}

// SendSMS sends a text message and returns the Twilio message SID.
func (c *Client) SendSMS(to, body string) (string, error) {
	recipient := normalizeNumber(to)
	if recipient == "" {
		return "", fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send message error: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// normalizeNumber keeps "whatsapp:" addresses as they are and prefixes bare
// digits with "+" so they are E.164.
func normalizeNumber(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") || strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	return "+" + trimmed
}
