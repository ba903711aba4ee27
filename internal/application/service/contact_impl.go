package service

import (
	"context"
	"fitreminder/internal/application/dto"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	appErrors "fitreminder/internal/pkg/errors"
	"fitreminder/internal/pkg/logger"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	lineLinkCodeTTL    = 10 * time.Minute
	lineLinkCodeLength = 8
)

type contactService struct {
	contactRepo repository.ContactRepository
	now         func() time.Time
	log         logger.Logger
}

// NewContactService creates a new instance of ContactService implementation.
func NewContactService(contactRepo repository.ContactRepository, log logger.Logger) ContactService {
	return &contactService{contactRepo: contactRepo, now: time.Now, log: log}
}

// UpsertContact registers or replaces the delivery addresses of a user.
func (s *contactService) UpsertContact(ctx context.Context, userID string, req dto.UpsertContactRequest) (*dto.ContactResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", appErrors.ErrValidation)
	}
	contact := &entity.Contact{
		UserID:   userID,
		FCMToken: strings.TrimSpace(req.FCMToken),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if contact.Phone != "" && !validPhone(contact.Phone) {
		return nil, fmt.Errorf("%w: phone must contain digits only, optionally prefixed with '+'", appErrors.ErrValidation)
	}

	if err := s.contactRepo.Upsert(ctx, contact); err != nil {
		s.log.Error(fmt.Sprintf("Failed to upsert contact for user %s", userID), err)
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Updated contact for user %s", userID))
	return s.GetContact(ctx, userID)
}

// GetContact retrieves the delivery addresses of a user.
func (s *contactService) GetContact(ctx context.Context, userID string) (*dto.ContactResponse, error) {
	contact, err := s.contactRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToContactResponse(contact)
	return &resp, nil
}

// IssueLineLinkCode creates a short-lived code that links the LINE account
// which sends it to the bot to the user.
func (s *contactService) IssueLineLinkCode(ctx context.Context, userID string) (*dto.LineLinkCodeResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", appErrors.ErrValidation)
	}
	code := &entity.LineLinkCode{
		Code:      newLinkCode(),
		UserID:    userID,
		ExpiresAt: s.now().UTC().Add(lineLinkCodeTTL),
	}
	if err := s.contactRepo.SaveLinkCode(ctx, code); err != nil {
		s.log.Error(fmt.Sprintf("Failed to issue LINE link code for user %s", userID), err)
		return nil, err
	}
	return &dto.LineLinkCodeResponse{Code: code.Code, ExpiresAt: code.ExpiresAt}, nil
}

// LinkLineUser redeems a link code sent from a LINE account and returns the
// user it was linked to.
func (s *contactService) LinkLineUser(ctx context.Context, code, lineUserID string) (string, error) {
	code = normalizeLinkCode(code)
	if code == "" || lineUserID == "" {
		return "", fmt.Errorf("%w: code and lineUserId are required", appErrors.ErrLinkCodeInvalid)
	}
	linkCode, err := s.contactRepo.ConsumeLinkCode(ctx, code, s.now().UTC())
	if err != nil {
		return "", err
	}
	if err := s.contactRepo.LinkLineUser(ctx, linkCode.UserID, lineUserID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to link LINE user %s", lineUserID), err)
		return "", err
	}
	s.log.Info(fmt.Sprintf("Linked LINE user %s to user %s", lineUserID, linkCode.UserID))
	return linkCode.UserID, nil
}

// UnlinkLineUser forgets a LINE address after the user blocked the bot.
func (s *contactService) UnlinkLineUser(ctx context.Context, lineUserID string) error {
	n, err := s.contactRepo.ClearLineUserID(ctx, lineUserID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to unlink LINE user %s", lineUserID), err)
		return err
	}
	if n > 0 {
		s.log.Info(fmt.Sprintf("Unlinked LINE user %s from %d contact(s)", lineUserID, n))
	}
	return nil
}

func validPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 6 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func newLinkCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:lineLinkCodeLength])
}

func normalizeLinkCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
