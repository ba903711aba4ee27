package handler

import (
	"errors"
	"fmt"
	"net/http"

	"fitreminder/internal/application/dto"
	"fitreminder/internal/application/service"
	"fitreminder/internal/interfaces/api/middleware"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReminderHandler serves the reminder endpoints for authenticated users.
type ReminderHandler struct {
	reminderService service.ReminderService
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService, log logger.Logger) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, log: log}
}

// Create handles POST /api/reminders.
func (h *ReminderHandler) Create(c echo.Context) error {
	var req dto.CreateReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody("Invalid request body"))
	}
	if req.ScheduledAt == nil || req.ScheduledAt.IsZero() {
		return c.JSON(http.StatusBadRequest, messageBody("All fields are required"))
	}

	reminder, err := h.reminderService.CreateReminder(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, appErrors.ErrInvalidDateTime):
			return c.JSON(http.StatusBadRequest, messageBody("scheduledAt must be in the future"))
		case errors.Is(err, appErrors.ErrValidation):
			return c.JSON(http.StatusBadRequest, messageBody("All fields are required"))
		default:
			h.log.Error("Failed to create reminder", err)
			return c.JSON(http.StatusInternalServerError, messageBody("Internal Server Error"))
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Reminder created",
		"reminder": reminder,
	})
}

// List handles GET /api/reminders.
func (h *ReminderHandler) List(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, messageBody("Unauthorized access"))
	}

	reminders, err := h.reminderService.ListReminders(c.Request().Context(), userID)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to fetch reminders for user %s", userID), err)
		return c.JSON(http.StatusInternalServerError, messageBody("Internal Server Error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Reminders fetched",
		"reminders": reminders,
	})
}

func messageBody(msg string) map[string]string {
	return map[string]string{"message": msg}
}
