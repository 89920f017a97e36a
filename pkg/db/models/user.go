package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an agency employee.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	Username     string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

// Group is an authorization group. Its name is a role.
type Group struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (Group) TableName() string { return "auth_groups" }

// UserGroup links users to groups.
type UserGroup struct {
	UserID  uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	GroupID uuid.UUID `gorm:"column:group_id;type:uuid;primaryKey"`
}

func (UserGroup) TableName() string { return "user_groups" }
