package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is an agency customer.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Address   string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// Contact is a person working for a client.
type Contact struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID       uuid.UUID `gorm:"column:client_id;type:uuid;not null"`
	Name           string    `gorm:"type:text;not null"`
	LastName       string    `gorm:"column:last_name;type:text;not null"`
	Charge         string    `gorm:"type:text;not null"`
	Landline       string    `gorm:"type:text"`
	Extension      string    `gorm:"type:text"`
	MobilePhone1   string    `gorm:"column:mobile_phone_1;type:text"`
	MobilePhone2   string    `gorm:"column:mobile_phone_2;type:text"`
	Email          string    `gorm:"type:text;not null"`
	AlternateEmail string    `gorm:"column:alternate_email;type:text"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}
