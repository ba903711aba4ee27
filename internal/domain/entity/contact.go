package entity

import "time"

// Contact holds the per-channel delivery addresses of a user.
type Contact struct {
	UserID     string    `gorm:"column:user_id;primaryKey"`
	LineUserID string    `gorm:"column:line_user_id"`
	FCMToken   string    `gorm:"column:fcm_token;type:text"`
	Phone      string    `gorm:"column:phone"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Contact entity.
func (Contact) TableName() string {
	return "contacts"
}

// LineLinkCode is a short-lived code a user sends to the LINE bot to prove
// the LINE account belongs to them.
type LineLinkCode struct {
	Code      string    `gorm:"column:code;primaryKey"`
	UserID    string    `gorm:"column:user_id;index;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the LineLinkCode entity.
func (LineLinkCode) TableName() string {
	return "line_link_codes"
}
