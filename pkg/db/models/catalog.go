package models

import (
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
)

// Status mirrors the seeded statuses catalog.
type Status struct {
	StatusID enums.StatusID `gorm:"column:status_id;primaryKey;autoIncrement:false"`
	Name     string         `gorm:"type:text;not null"`
}

// WorkType classifies works (e.g. iguala, graduation, project).
type WorkType struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkTypeID int       `gorm:"column:work_type_id;not null;uniqueIndex"`
	Name       string    `gorm:"type:text;not null"`
	IsActive   bool      `gorm:"column:is_active;not null"`
}

// ArtType is a deliverable kind scoped to a work type.
type ArtType struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkTypeID uuid.UUID `gorm:"column:work_type_id;type:uuid;not null"`
	Name       string    `gorm:"type:text;not null"`
	IsActive   bool      `gorm:"column:is_active;not null"`
}

func (Status) TableName() string { return "statuses" }
