package igualas

import (
	"context"
	"errors"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActive(ctx context.Context, id uuid.UUID) (*models.Iguala, error)
	CountActiveWorks(ctx context.Context, igualaID uuid.UUID) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error
	ArtTypeActive(ctx context.Context, id uuid.UUID) (bool, error)
	FindArtIguala(ctx context.Context, igualaID, artTypeID uuid.UUID) (*models.ArtIguala, error)
	CreateArtIguala(ctx context.Context, art *models.ArtIguala) error
	UpdateArtIgualaQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	ListArtIgualas(ctx context.Context, igualaID uuid.UUID) ([]models.ArtIguala, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActive(ctx context.Context, id uuid.UUID) (*models.Iguala, error) {
	var iguala models.Iguala
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		Take(&iguala).Error
	if err != nil {
		return nil, err
	}
	return &iguala, nil
}

func (r *repository) CountActiveWorks(ctx context.Context, igualaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("iguala_id = ? AND is_active = ?", igualaID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Iguala{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ArtTypeActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ArtType{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindArtIguala(ctx context.Context, igualaID, artTypeID uuid.UUID) (*models.ArtIguala, error) {
	var art models.ArtIguala
	err := r.db.WithContext(ctx).
		Where("iguala_id = ? AND art_type_id = ?", igualaID, artTypeID).
		Take(&art).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &art, nil
}

func (r *repository) CreateArtIguala(ctx context.Context, art *models.ArtIguala) error {
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *repository) UpdateArtIgualaQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.ArtIguala{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "is_active": true}).Error
}

func (r *repository) ListArtIgualas(ctx context.Context, igualaID uuid.UUID) ([]models.ArtIguala, error) {
	var rows []models.ArtIguala
	err := r.db.WithContext(ctx).
		Where("iguala_id = ? AND is_active = ?", igualaID, true).
		Order("art_type_id ASC").
		Find(&rows).Error
	return rows, err
}
