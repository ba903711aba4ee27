package service

import (
	"context"
	"fitreminder/internal/application/dto"
)

// ContactService defines the interface for managing delivery addresses.
type ContactService interface {
	// UpsertContact registers or replaces the delivery addresses of a user.
	UpsertContact(ctx context.Context, userID string, req dto.UpsertContactRequest) (*dto.ContactResponse, error)
	// GetContact retrieves the delivery addresses of a user.
	GetContact(ctx context.Context, userID string) (*dto.ContactResponse, error)
	// IssueLineLinkCode creates a short-lived code that links the LINE
	// account which sends it to the bot to the user.
	IssueLineLinkCode(ctx context.Context, userID string) (*dto.LineLinkCodeResponse, error)
	// LinkLineUser redeems a link code sent from a LINE account and returns
	// the user it was linked to.
	LinkLineUser(ctx context.Context, code, lineUserID string) (string, error)
	// UnlinkLineUser forgets a LINE address after the user blocked the bot.
	UnlinkLineUser(ctx context.Context, lineUserID string) error
}
