package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Iguala is a pre-paid bundle of art deliverables for a client.
type Iguala struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ClientID  uuid.UUID      `gorm:"column:client_id;type:uuid;not null"`
	Name      string         `gorm:"type:text;not null"`
	StartDate datatypes.Date `gorm:"column:start_date;not null"`
	EndDate   datatypes.Date `gorm:"column:end_date;not null"`
	IsActive  bool           `gorm:"column:is_active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// ArtIguala is the quantity of one art type included in an iguala.
type ArtIguala struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	IgualaID  uuid.UUID `gorm:"column:iguala_id;type:uuid;not null"`
	ArtTypeID uuid.UUID `gorm:"column:art_type_id;type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
}
