package igualas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityArtIguala = "ArtIguala"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ArtIgualaInput sets how many pieces of an art type an iguala includes.
type ArtIgualaInput struct {
	ArtType  uuid.UUID `json:"art_type" validate:"required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

type ArtIgualaDTO struct {
	ID       uuid.UUID `json:"id"`
	ArtType  uuid.UUID `json:"art_type"`
	Quantity int       `json:"quantity"`
}

type Service interface {
	Deactivate(ctx context.Context, igualaID uuid.UUID) error
	UpsertArtIgualas(ctx context.Context, igualaID uuid.UUID, items []ArtIgualaInput) ([]ArtIgualaDTO, error)
}

type service struct {
	tx   txRunner
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(tx txRunner, repo Repository, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("igualas repository required")
	}
	return &service{
		tx:   tx,
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Deactivate soft-deletes an iguala that no active work references.
func (s *service) Deactivate(ctx context.Context, igualaID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureActive(ctx, repo, igualaID); err != nil {
			return err
		}
		referenced, err := repo.CountActiveWorks(ctx, igualaID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active works")
		}
		if referenced > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "iguala cannot be deleted: active works reference it").
				WithDetails(map[string]any{"active_works": referenced})
		}
		if err := repo.Deactivate(ctx, igualaID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate iguala")
		}
		return nil
	})
}

// UpsertArtIgualas matches every item by art type: existing rows get the new
// quantity, missing ones are inserted. Any invalid item aborts the whole call.
func (s *service) UpsertArtIgualas(ctx context.Context, igualaID uuid.UUID, items []ArtIgualaInput) ([]ArtIgualaDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureActive(ctx, repo, igualaID); err != nil {
			return err
		}

		for i, item := range items {
			if item.Quantity <= 0 {
				return pkgerrors.ValidationFailure(entityArtIguala, pkgerrors.ActionUpdated, fmt.Errorf("item %d: quantity must be positive", i))
			}
			ok, err := repo.ArtTypeActive(ctx, item.ArtType)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.ValidationFailure(entityArtIguala, pkgerrors.ActionUpdated, fmt.Errorf("item %d: art type %s does not exist", i, item.ArtType))
			}

			existing, err := repo.FindArtIguala(ctx, igualaID, item.ArtType)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := repo.UpdateArtIgualaQuantity(ctx, existing.ID, item.Quantity); err != nil {
					return err
				}
				continue
			}
			if err := repo.CreateArtIguala(ctx, &models.ArtIguala{
				ID:        uuid.New(),
				IgualaID:  igualaID,
				ArtTypeID: item.ArtType,
				Quantity:  item.Quantity,
				IsActive:  true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListArtIgualas(ctx, igualaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list art igualas")
	}
	out := make([]ArtIgualaDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ArtIgualaDTO{ID: r.ID, ArtType: r.ArtTypeID, Quantity: r.Quantity})
	}
	return out, nil
}

func (s *service) ensureActive(ctx context.Context, repo Repository, igualaID uuid.UUID) error {
	_, err := repo.FindActive(ctx, igualaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "iguala not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load iguala")
	}
	return nil
}
