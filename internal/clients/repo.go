package clients

import (
	"context"
	"errors"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and soft-deletes clients and contacts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindActiveContact(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ActiveContactIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	CountActiveWorks(ctx context.Context, contactIDs []uuid.UUID) (int64, error)
	DeactivateContacts(ctx context.Context, ids []uuid.UUID, at time.Time) error
	DeactivateClient(ctx context.Context, id uuid.UUID, at time.Time) error
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

func (r *repository) FindActiveClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		Take(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindActiveContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		Take(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repository) ActiveContactIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Pluck("id", &ids).Error
	return ids, err
}

// CountActiveWorks counts the active works referencing the contacts. Finished
// or cancelled works still count until they are soft-deleted themselves.
func (r *repository) CountActiveWorks(ctx context.Context, contactIDs []uuid.UUID) (int64, error) {
	if len(contactIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("contact_id IN ? AND is_active = ?", contactIDs, true).
		Count(&count).Error
	return count, err
}

func (r *repository) DeactivateContacts(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"is_active": false, "updated_at": at}).Error
}

func (r *repository) DeactivateClient(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Client{}).
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

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
