package repository

import (
	"context"
	"fitreminder/internal/domain/entity"
	"time"
)

// ContactRepository defines the interface for contact data operations.
type ContactRepository interface {
	// FindByUserID retrieves the contact of a user.
	FindByUserID(ctx context.Context, userID string) (*entity.Contact, error)
	// Upsert creates the contact of a user or replaces its FCM token and phone.
	// The LINE address is only set through LinkLineUser.
	Upsert(ctx context.Context, contact *entity.Contact) error
	// LinkLineUser assigns a LINE address to a user, taking it away from any
	// other contact that held it.
	LinkLineUser(ctx context.Context, userID, lineUserID string) error
	// SaveLinkCode stores a LINE link code.
	SaveLinkCode(ctx context.Context, code *entity.LineLinkCode) error
	// ConsumeLinkCode deletes a link code and returns it when it is still valid at now.
	ConsumeLinkCode(ctx context.Context, code string, now time.Time) (*entity.LineLinkCode, error)
	// ClearLineUserID removes a LINE address from every contact holding it
	// and returns the number of contacts changed.
	ClearLineUserID(ctx context.Context, lineUserID string) (int64, error)
}
