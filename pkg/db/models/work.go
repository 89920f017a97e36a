package models

import (
	"time"

	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Work is a single order placed by a client contact.
type Work struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ExecutiveID          uuid.UUID      `gorm:"column:executive_id;type:uuid;not null"`
	ContactID            uuid.UUID      `gorm:"column:contact_id;type:uuid;not null"`
	CurrentStatus        enums.StatusID `gorm:"column:current_status;not null"`
	WorkTypeID           uuid.UUID      `gorm:"column:work_type_id;type:uuid;not null"`
	IgualaID             *uuid.UUID     `gorm:"column:iguala_id;type:uuid"`
	CreationDate         datatypes.Date `gorm:"column:creation_date;not null"`
	Name                 string         `gorm:"type:text;not null"`
	ExpectedDeliveryDate datatypes.Date `gorm:"column:expected_delivery_date;not null"`
	Brief                string         `gorm:"type:text;not null"`
	FinalLink            string         `gorm:"column:final_link;type:text;not null"`
	Version              int            `gorm:"not null"`
	IsActive             bool           `gorm:"column:is_active;not null"`
	CreatedAt            time.Time      `gorm:"column:created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at"`
}

// ArtWork is a line item of a work: how many pieces of an art type it needs.
type ArtWork struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkID    uuid.UUID `gorm:"column:work_id;type:uuid;not null"`
	ArtTypeID uuid.UUID `gorm:"column:art_type_id;type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
}

// File is an upload attached to a work. The bytes live in object storage.
type File struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkID      uuid.UUID `gorm:"column:work_id;type:uuid;not null"`
	Name        string    `gorm:"type:text;not null"`
	ObjectKey   string    `gorm:"column:object_key;type:text;not null"`
	ContentType string    `gorm:"column:content_type;type:text;not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// WorkDesigner is one assignment period of a designer on a work.
type WorkDesigner struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DesignerID uuid.UUID  `gorm:"column:designer_id;type:uuid;not null"`
	WorkID     uuid.UUID  `gorm:"column:work_id;type:uuid;not null"`
	StartDate  time.Time  `gorm:"column:start_date;not null"`
	EndDate    *time.Time `gorm:"column:end_date"`
	ActiveWork bool       `gorm:"column:active_work;not null"`
	IsActive   bool       `gorm:"column:is_active;not null"`
}

// StatusChange is an append-only history entry of a work status.
type StatusChange struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	WorkID   uuid.UUID      `gorm:"column:work_id;type:uuid;not null"`
	StatusID enums.StatusID `gorm:"column:status_id;not null"`
	UserID   uuid.UUID      `gorm:"column:user_id;type:uuid;not null"`
	Date     time.Time      `gorm:"column:date;not null"`
}
