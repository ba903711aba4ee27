package dto

import (
	"fitreminder/internal/domain/entity"
	"time"
)

// UpsertContactRequest is the DTO for registering delivery addresses.
// Omitted fields are cleared. The LINE address is only set by redeeming a
// link code with the bot.
type UpsertContactRequest struct {
	FCMToken string `json:"fcmToken"`
	Phone    string `json:"phone"`
}

// ContactResponse is the DTO for returning a user's delivery addresses.
type ContactResponse struct {
	UserID     string    `json:"userId"`
	LineUserID string    `json:"lineUserId,omitempty"`
	FCMToken   string    `json:"fcmToken,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToContactResponse converts an entity.Contact to a ContactResponse DTO.
func ToContactResponse(c *entity.Contact) ContactResponse {
	return ContactResponse{
		UserID:     c.UserID,
		LineUserID: c.LineUserID,
		FCMToken:   c.FCMToken,
		Phone:      c.Phone,
		UpdatedAt:  c.UpdatedAt,
	}
}

// LineLinkCodeResponse is the DTO for a one-time code the user sends to the
// LINE bot to link their LINE account.
type LineLinkCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}
