package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-user message produced by a work mutation.
type Notification struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkID   uuid.UUID `gorm:"column:work_id;type:uuid;not null"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Date     time.Time `gorm:"column:date;not null"`
	Text     string    `gorm:"type:text;not null"`
	Seen     bool      `gorm:"not null"`
	IsActive bool      `gorm:"column:is_active;not null"`
}
