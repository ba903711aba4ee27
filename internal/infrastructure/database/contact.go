package database

import (
	"context"
	"errors"
	"fitreminder/internal/domain/entity"
	"fitreminder/internal/domain/repository"
	appErrors "fitreminder/internal/pkg/errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

// FindByUserID retrieves the contact of a user.
func (r *contactRepository) FindByUserID(ctx context.Context, userID string) (*entity.Contact, error) {
	var contact entity.Contact
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", appErrors.ErrContactNotFound, userID)
		}
		return nil, fmt.Errorf("%w: find contact for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return &contact, nil
}

// Upsert creates the contact of a user or replaces its FCM token and phone.
func (r *contactRepository) Upsert(ctx context.Context, contact *entity.Contact) error {
	if contact.UserID == "" {
		return fmt.Errorf("%w: userId is required", appErrors.ErrValidation)
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fcm_token", "phone", "updated_at"}),
	}).Create(contact).Error
	if err != nil {
		return fmt.Errorf("%w: upsert contact for user %s: %v", appErrors.ErrDatabaseOperation, contact.UserID, err)
	}
	return nil
}

// LinkLineUser assigns a LINE address to a user. A LINE account reaches at
// most one user, so the address is first cleared from every other contact.
func (r *contactRepository) LinkLineUser(ctx context.Context, userID, lineUserID string) error {
	if userID == "" || lineUserID == "" {
		return fmt.Errorf("%w: userId and lineUserId are required", appErrors.ErrValidation)
	}
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Contact{}).
			Where("line_user_id = ? AND user_id <> ?", lineUserID, userID).
			Updates(map[string]interface{}{"line_user_id": "", "updated_at": now}).Error; err != nil {
			return err
		}
		contact := &entity.Contact{UserID: userID, LineUserID: lineUserID, UpdatedAt: now}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"line_user_id", "updated_at"}),
		}).Create(contact).Error
	})
	if err != nil {
		return fmt.Errorf("%w: link line user for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return nil
}

// SaveLinkCode stores a LINE link code.
func (r *contactRepository) SaveLinkCode(ctx context.Context, code *entity.LineLinkCode) error {
	code.ExpiresAt = code.ExpiresAt.UTC()
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("%w: save link code for user %s: %v", appErrors.ErrDatabaseOperation, code.UserID, err)
	}
	return nil
}

// ConsumeLinkCode deletes a link code and returns it when it is still valid
// at now. Unknown and expired codes yield ErrLinkCodeInvalid; an expired code
// is deleted as well.
func (r *contactRepository) ConsumeLinkCode(ctx context.Context, code string, now time.Time) (*entity.LineLinkCode, error) {
	var linkCode entity.LineLinkCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&linkCode).Error; err != nil {
			return err
		}
		result := tx.Where("code = ?", code).Delete(&entity.LineLinkCode{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Redeemed concurrently.
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", appErrors.ErrLinkCodeInvalid, code)
		}
		return nil, fmt.Errorf("%w: consume link code: %v", appErrors.ErrDatabaseOperation, err)
	}
	if !linkCode.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: %s expired at %s", appErrors.ErrLinkCodeInvalid, code, linkCode.ExpiresAt.Format(time.RFC3339))
	}
	return &linkCode, nil
}

// ClearLineUserID removes a LINE address from every contact holding it.
func (r *contactRepository) ClearLineUserID(ctx context.Context, lineUserID string) (int64, error) {
	if lineUserID == "" {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&entity.Contact{}).
		Where("line_user_id = ?", lineUserID).
		Updates(map[string]interface{}{"line_user_id": "", "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: clear line user %s: %v", appErrors.ErrDatabaseOperation, lineUserID, result.Error)
	}
	return result.RowsAffected, nil
}
