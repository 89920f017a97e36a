package clients

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service soft-deletes clients and contacts while guarding works in progress.
type Service interface {
	DeactivateClient(ctx context.Context, clientID uuid.UUID) error
	DeactivateContact(ctx context.Context, contactID uuid.UUID) error
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
		return nil, fmt.Errorf("clients repository required")
	}
	return &service{
		tx:   tx,
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// DeactivateClient deactivates the client and every active contact. It is
// rejected while any active work still references one of those contacts.
func (s *service) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindActiveClient(ctx, clientID); err != nil {
			if isNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
		}

		contactIDs, err := repo.ActiveContactIDs(ctx, clientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list client contacts")
		}
		referenced, err := repo.CountActiveWorks(ctx, contactIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active works")
		}
		if referenced > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "client cannot be deleted: active works reference its contacts").
				WithDetails(map[string]any{"active_works": referenced})
		}

		now := s.now()
		if err := repo.DeactivateContacts(ctx, contactIDs, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate contacts")
		}
		if err := repo.DeactivateClient(ctx, clientID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate client")
		}
		return nil
	})
	if err == nil && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "client_id", clientID.String()), "client deactivated")
	}
	return err
}

// DeactivateContact deactivates a contact no active work references.
func (s *service) DeactivateContact(ctx context.Context, contactID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindActiveContact(ctx, contactID); err != nil {
			if isNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
		}

		referenced, err := repo.CountActiveWorks(ctx, []uuid.UUID{contactID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active works")
		}
		if referenced > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "contact cannot be deleted: active works reference it").
				WithDetails(map[string]any{"active_works": referenced})
		}
		if err := repo.DeactivateContacts(ctx, []uuid.UUID{contactID}, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate contact")
		}
		return nil
	})
}
