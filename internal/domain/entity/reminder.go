package entity

import "time"

// Reminder is a scheduled workout notification owned by one user.
type Reminder struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"`
	UserID        string     `gorm:"column:user_id;index;not null"`
	Message       string     `gorm:"column:message;type:text;not null"`
	ScheduledAt   time.Time  `gorm:"column:scheduled_at;index;not null"`
	IsSent        bool       `gorm:"column:is_sent;index;not null;default:false"`
	SentAt        *time.Time `gorm:"column:sent_at"`
	Attempts      int        `gorm:"column:attempts;not null;default:0"` // Failed delivery attempts
	LastError     string     `gorm:"column:last_error;type:text"`        // Last delivery failure, cleared once sent
	LastAttemptAt *time.Time `gorm:"column:last_attempt_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime;not null"` // Immutable
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "notifications"
}

// IsDue reports whether the reminder should be dispatched at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.IsSent && !r.ScheduledAt.After(now)
}
