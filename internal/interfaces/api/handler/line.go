package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fitreminder/internal/application/service"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineWebhook is the subset of the LINE client used by the webhook.
type LineWebhook interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
	ReplyText(ctx context.Context, replyToken, text string) error
}

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient     LineWebhook
	contactService service.ContactService
	log            logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(lineClient LineWebhook, contactService service.ContactService, log logger.Logger) *LineHandler {
	return &LineHandler{
		lineClient:     lineClient,
		contactService: contactService,
		log:            log,
	}
}

// HandleWebhook is the entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.log.Debug(fmt.Sprintf("Processing event type: %s", event.Type))
		switch event.Type {
		case linebot.EventTypeFollow:
			h.reply(ctx, event, linkInstructions)
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeUnfollow:
			h.handleUnfollowEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

const (
	linkInstructions = "Open the app, create a LINE link code in your reminder settings and send it here to get workout reminders on LINE."
	linkSucceeded    = "Your LINE account is linked. Workout reminders will arrive here."
	linkRejected     = "That code is unknown or expired. Create a new one in the app and send it here."
	linkFailed       = "Linking failed. Please try again later."
)

// handleMessageEvent treats a text message as a link code.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		h.reply(ctx, event, linkInstructions)
		return
	}

	lineUserID := event.Source.UserID
	userID, err := h.contactService.LinkLineUser(ctx, message.Text, lineUserID)
	switch {
	case err == nil:
		h.log.Info(fmt.Sprintf("LINE user %s linked to user %s", lineUserID, userID))
		h.reply(ctx, event, linkSucceeded)
	case errors.Is(err, appErrors.ErrLinkCodeInvalid):
		h.log.Debug(fmt.Sprintf("LINE user %s sent an invalid link code", lineUserID))
		h.reply(ctx, event, linkRejected)
	default:
		h.log.Error(fmt.Sprintf("Failed to link LINE user %s", lineUserID), err)
		h.reply(ctx, event, linkFailed)
	}
}

func (h *LineHandler) reply(ctx context.Context, event *linebot.Event, text string) {
	if event.ReplyToken == "" {
		return
	}
	if err := h.lineClient.ReplyText(ctx, event.ReplyToken, text); err != nil {
		h.log.Error(fmt.Sprintf("Failed to reply to LINE user %s", event.Source.UserID), err)
	}
}

func (h *LineHandler) handleUnfollowEvent(ctx context.Context, event *linebot.Event) {
	userID := event.Source.UserID
	h.log.Info(fmt.Sprintf("LINE user %s unfollowed or blocked the bot.", userID))
	// No reply is possible for unfollow events; the service logs failures.
	_ = h.contactService.UnlinkLineUser(ctx, userID)
}
