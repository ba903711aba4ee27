package handler

import (
	"errors"
	"net/http"

	"fitreminder/internal/application/dto"
	"fitreminder/internal/application/service"
	"fitreminder/internal/interfaces/api/middleware"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ContactHandler lets users register where reminders are delivered.
type ContactHandler struct {
	contactService service.ContactService
	log            logger.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService service.ContactService, log logger.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, log: log}
}

// Upsert handles PUT /api/contacts.
func (h *ContactHandler) Upsert(c echo.Context) error {
	var req dto.UpsertContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageBody("Invalid request body"))
	}

	contact, err := h.contactService.UpsertContact(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, appErrors.ErrValidation) {
			return c.JSON(http.StatusBadRequest, messageBody("Invalid phone number"))
		}
		h.log.Error("Failed to update contact", err)
		return c.JSON(http.StatusInternalServerError, messageBody("Internal Server Error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Contact updated",
		"contact": contact,
	})
}

// Get handles GET /api/contacts.
func (h *ContactHandler) Get(c echo.Context) error {
	contact, err := h.contactService.GetContact(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, appErrors.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, messageBody("Contact not found"))
		}
		h.log.Error("Failed to fetch contact", err)
		return c.JSON(http.StatusInternalServerError, messageBody("Internal Server Error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Contact fetched",
		"contact": contact,
	})
}

// IssueLineCode handles POST /api/contacts/line-code.
func (h *ContactHandler) IssueLineCode(c echo.Context) error {
	code, err := h.contactService.IssueLineLinkCode(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		h.log.Error("Failed to issue LINE link code", err)
		return c.JSON(http.StatusInternalServerError, messageBody("Internal Server Error"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "LINE link code created",
		"code":      code.Code,
		"expiresAt": code.ExpiresAt,
	})
}
