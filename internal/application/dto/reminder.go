package dto

import (
	"fitreminder/internal/domain/entity"
	"time"
)

// ReminderResponse is the DTO for sending reminder information to the client.
type ReminderResponse struct {
	ID          uint       `json:"id"`
	UserID      string     `json:"userId"`
	Message     string     `json:"message"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	IsSent      bool       `json:"isSent"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r *entity.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Message:     r.Message,
		ScheduledAt: r.ScheduledAt.UTC(),
		IsSent:      r.IsSent,
		SentAt:      r.SentAt,
		CreatedAt:   r.CreatedAt,
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
func ToReminderResponseList(reminders []*entity.Reminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}

// CreateReminderRequest is the DTO for creating a new reminder.
// The owner comes from the auth context, never from the body.
type CreateReminderRequest struct {
	ScheduledAt *time.Time `json:"scheduledAt"`
}
