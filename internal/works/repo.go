package works

import (
	"context"
	"errors"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for works and their nested rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateWork(ctx context.Context, work *models.Work) error
	FindActiveWork(ctx context.Context, id uuid.UUID) (*models.Work, error)
	UpdateWorkVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (bool, error)

	ArtTypeActive(ctx context.Context, id uuid.UUID) (bool, error)
	FindArtWork(ctx context.Context, workID, artTypeID uuid.UUID) (*models.ArtWork, error)
	CreateArtWork(ctx context.Context, art *models.ArtWork) error
	UpdateArtWorkQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	ListArtWorks(ctx context.Context, workID uuid.UUID) ([]models.ArtWork, error)

	CreateFile(ctx context.Context, file *models.File) error
	ListFiles(ctx context.Context, workID uuid.UUID) ([]models.File, error)

	FindActiveAssignment(ctx context.Context, workID, designerID uuid.UUID) (*models.WorkDesigner, error)
	CreateAssignment(ctx context.Context, assignment *models.WorkDesigner) error
	EndAssignment(ctx context.Context, id uuid.UUID, at time.Time) error
	ListActiveAssignments(ctx context.Context, workID uuid.UUID) ([]models.WorkDesigner, error)

	AppendStatusChange(ctx context.Context, change *models.StatusChange) error
	ListStatusChanges(ctx context.Context, workID uuid.UUID) ([]models.StatusChange, error)

	ContactActive(ctx context.Context, id uuid.UUID) (bool, error)
	WorkTypeActive(ctx context.Context, id uuid.UUID) (bool, error)
	IgualaActive(ctx context.Context, id uuid.UUID) (bool, error)
	UserActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a works repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateWork(ctx context.Context, work *models.Work) error {
	return r.db.WithContext(ctx).Create(work).Error
}

func (r *repository) FindActiveWork(ctx context.Context, id uuid.UUID) (*models.Work, error) {
	var work models.Work
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&work).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

// UpdateWorkVersioned applies updates only when the stored version still
// equals version, bumping it by one. It reports whether a row was written.
func (r *repository) UpdateWorkVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (bool, error) {
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + 1")

	result := r.db.WithContext(ctx).
		Model(&models.Work{}).
		Where("id = ? AND version = ? AND is_active = ?", id, version, true).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ArtTypeActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.activeExists(ctx, &models.ArtType{}, id)
}

func (r *repository) FindArtWork(ctx context.Context, workID, artTypeID uuid.UUID) (*models.ArtWork, error) {
	var art models.ArtWork
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND art_type_id = ?", workID, artTypeID).
		First(&art).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &art, nil
}

func (r *repository) CreateArtWork(ctx context.Context, art *models.ArtWork) error {
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *repository) UpdateArtWorkQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.ArtWork{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "is_active": true}).Error
}

func (r *repository) ListArtWorks(ctx context.Context, workID uuid.UUID) ([]models.ArtWork, error) {
	var rows []models.ArtWork
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND is_active = ?", workID, true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateFile(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *repository) ListFiles(ctx context.Context, workID uuid.UUID) ([]models.File, error) {
	var rows []models.File
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND is_active = ?", workID, true).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveAssignment(ctx context.Context, workID, designerID uuid.UUID) (*models.WorkDesigner, error) {
	var row models.WorkDesigner
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND designer_id = ? AND active_work = ?", workID, designerID, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.WorkDesigner) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) EndAssignment(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkDesigner{}).
		Where("id = ?", id).
		Updates(map[string]any{"active_work": false, "end_date": at}).Error
}

func (r *repository) ListActiveAssignments(ctx context.Context, workID uuid.UUID) ([]models.WorkDesigner, error) {
	var rows []models.WorkDesigner
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND active_work = ? AND is_active = ?", workID, true, true).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) AppendStatusChange(ctx context.Context, change *models.StatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *repository) ListStatusChanges(ctx context.Context, workID uuid.UUID) ([]models.StatusChange, error) {
	var rows []models.StatusChange
	err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ContactActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.activeExists(ctx, &models.Contact{}, id)
}

func (r *repository) WorkTypeActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.activeExists(ctx, &models.WorkType{}, id)
}

func (r *repository) IgualaActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.activeExists(ctx, &models.Iguala{}, id)
}

func (r *repository) UserActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.activeExists(ctx, &models.User{}, id)
}

func (r *repository) activeExists(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}
