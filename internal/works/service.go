package works

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/balarco/balarco-backend/internal/workflow"
	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/balarco/balarco-backend/pkg/metrics"
	"github.com/balarco/balarco-backend/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity names reported by validation failures.
const (
	EntityWork     = "Work"
	EntityArtWork  = "ArtWork"
	EntityFile     = "File"
	EntityDesigner = "WorkDesigner"

	fileLinkTTL = 15 * time.Minute
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// FileStore keeps the bytes of uploaded work files.
type FileStore interface {
	Put(ctx context.Context, key string, data []byte) (storage.Object, error)
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Dispatcher stages notifications inside the mutation transaction and pushes
// them after commit.
type Dispatcher interface {
	Stage(ctx context.Context, tx *gorm.DB, workID uuid.UUID, recipients []uuid.UUID, text string) ([]models.Notification, error)
	Push(ctx context.Context, staged []models.Notification)
}

// Service is the work mutation pipeline plus its read queries.
type Service interface {
	Create(ctx context.Context, input CreateWorkInput, actorID uuid.UUID) (*WorkDTO, error)
	Update(ctx context.Context, workID uuid.UUID, input UpdateWorkInput, actorID uuid.UUID) (*WorkDTO, error)
	Deactivate(ctx context.Context, workID uuid.UUID, actorID uuid.UUID) error
	Get(ctx context.Context, workID uuid.UUID) (*WorkDTO, error)
	StatusHistory(ctx context.Context, workID uuid.UUID) ([]StatusChangeDTO, error)
	PossibleStatusChanges(ctx context.Context, workID uuid.UUID, actorID uuid.UUID) ([]StatusDTO, error)
}

// ServiceParams groups the pipeline collaborators.
type ServiceParams struct {
	Tx                 txRunner
	Repo               Repository
	Engine             *workflow.Engine
	Roles              workflow.RoleLookup
	Files              FileStore
	Notifier           Dispatcher
	Metrics            *metrics.WorkMetrics
	Logger             *logger.Logger
	EnforceTransitions bool
	Now                func() time.Time
}

type service struct {
	tx       txRunner
	repo     Repository
	engine   *workflow.Engine
	roles    workflow.RoleLookup
	files    FileStore
	notifier Dispatcher
	metrics  *metrics.WorkMetrics
	logg     *logger.Logger
	enforce  bool
	now      func() time.Time
}

// NewService validates and wires the pipeline dependencies.
func NewService(p ServiceParams) (Service, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if p.Repo == nil {
		return nil, fmt.Errorf("works repository required")
	}
	if p.Roles == nil {
		return nil, fmt.Errorf("role lookup required")
	}
	if p.Files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if p.Engine == nil {
		p.Engine = workflow.NewEngine(nil)
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:       p.Tx,
		repo:     p.Repo,
		engine:   p.Engine,
		roles:    p.Roles,
		files:    p.Files,
		notifier: p.Notifier,
		metrics:  p.Metrics,
		logg:     p.Logger,
		enforce:  p.EnforceTransitions,
		now:      p.Now,
	}, nil
}

// mutation carries the per-call state of a create or update.
type mutation struct {
	action   pkgerrors.Action
	repo     Repository
	tx       *gorm.DB
	work     *models.Work
	actorID  uuid.UUID
	now      time.Time
	changed  bool
	uploaded []string
	staged   []models.Notification
}

func (s *service) Create(ctx context.Context, input CreateWorkInput, actorID uuid.UUID) (*WorkDTO, error) {
	dto, err := s.create(ctx, input, actorID)
	s.observe(metrics.OpCreate, err)
	return dto, err
}

func (s *service) create(ctx context.Context, input CreateWorkInput, actorID uuid.UUID) (*WorkDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}

	now := s.now()
	work, err := s.newWork(input, now)
	if err != nil {
		return nil, err
	}

	m := &mutation{action: pkgerrors.ActionCreated, work: work, actorID: actorID, now: now, changed: true}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		m.tx = tx
		m.repo = s.repo.WithTx(tx)

		if err := s.checkReferences(ctx, m, work.ExecutiveID, work.ContactID, work.WorkTypeID, work.IgualaID); err != nil {
			return err
		}
		if err := m.repo.CreateWork(ctx, work); err != nil {
			return err
		}
		if err := s.applyArtWorks(ctx, m, input.ArtWorks); err != nil {
			return err
		}
		if err := s.storeFiles(ctx, m, input.Files); err != nil {
			return err
		}
		if err := s.applyDesigners(ctx, m, input.WorkDesigners); err != nil {
			return err
		}
		if err := s.recordStatus(ctx, m); err != nil {
			return err
		}
		return s.stageNotifications(ctx, m, fmt.Sprintf("Se ha creado el trabajo '%s'.", work.Name))
	})
	if err != nil {
		s.discardUploads(ctx, m.uploaded)
		return nil, err
	}

	s.notifier.Push(ctx, m.staged)
	s.metrics.ObserveTransition(work.CurrentStatus.String())
	if s.logg != nil {
		s.logg.Info(s.logg.WithWorkID(ctx, work.ID.String()), "work created")
	}
	return s.Get(ctx, work.ID)
}

func (s *service) newWork(input CreateWorkInput, now time.Time) (*models.Work, error) {
	status := enums.StatusPendiente
	if input.CurrentStatus != nil {
		status = *input.CurrentStatus
	}
	if !status.IsValid() {
		return nil, pkgerrors.ValidationFailure(EntityWork, pkgerrors.ActionCreated, fmt.Errorf("unknown status %d", status))
	}

	creation := dateOf(now)
	if input.CreationDate != nil && *input.CreationDate != "" {
		parsed, err := parseDate(*input.CreationDate)
		if err != nil {
			return nil, pkgerrors.ValidationFailure(EntityWork, pkgerrors.ActionCreated, err)
		}
		creation = parsed
	}
	delivery, err := parseDate(input.ExpectedDeliveryDate)
	if err != nil {
		return nil, pkgerrors.ValidationFailure(EntityWork, pkgerrors.ActionCreated, err)
	}

	var iguala *uuid.UUID
	if input.Iguala != nil && *input.Iguala != uuid.Nil {
		id := *input.Iguala
		iguala = &id
	}

	return &models.Work{
		ID:                   uuid.New(),
		ExecutiveID:          input.Executive,
		ContactID:            input.Contact,
		CurrentStatus:        status,
		WorkTypeID:           input.WorkType,
		IgualaID:             iguala,
		CreationDate:         creation,
		Name:                 input.Name,
		ExpectedDeliveryDate: delivery,
		Brief:                input.Brief,
		FinalLink:            input.FinalLink,
		Version:              1,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func (s *service) Update(ctx context.Context, workID uuid.UUID, input UpdateWorkInput, actorID uuid.UUID) (*WorkDTO, error) {
	dto, err := s.update(ctx, workID, input, actorID)
	s.observe(metrics.OpUpdate, err)
	return dto, err
}

func (s *service) update(ctx context.Context, workID uuid.UUID, input UpdateWorkInput, actorID uuid.UUID) (*WorkDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}
	if input.CurrentStatus != nil && !input.CurrentStatus.IsValid() {
		return nil, pkgerrors.ValidationFailure(EntityWork, pkgerrors.ActionUpdated, fmt.Errorf("unknown status %d", *input.CurrentStatus))
	}

	// Roles are read before the transaction opens.
	var actor *workflow.Actor
	if input.CurrentStatus != nil && s.enforce {
		var err error
		actor, err = workflow.ResolveActor(ctx, s.roles, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve acting user roles")
		}
	}

	now := s.now()
	m := &mutation{action: pkgerrors.ActionUpdated, actorID: actorID, now: now}
	var statusChanged bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		m.tx = tx
		m.repo = s.repo.WithTx(tx)

		work, err := m.repo.FindActiveWork(ctx, workID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "work not found")
		}
		if err != nil {
			return err
		}
		m.work = work

		if input.Version != nil && *input.Version != work.Version {
			return pkgerrors.New(pkgerrors.CodeConflict, "work was modified by another request").
				WithDetails(map[string]any{"expected_version": *input.Version, "current_version": work.Version})
		}

		statusChanged = input.CurrentStatus != nil && *input.CurrentStatus != work.CurrentStatus
		if statusChanged && s.enforce {
			if err := s.checkTransition(work, actor, *input.CurrentStatus); err != nil {
				return err
			}
		}

		versionBumped, err := s.applyScalars(ctx, m, input)
		if err != nil {
			return err
		}
		if err := s.applyArtWorks(ctx, m, input.ArtWorks); err != nil {
			return err
		}
		if err := s.storeFiles(ctx, m, input.Files); err != nil {
			return err
		}
		if err := s.applyDesigners(ctx, m, input.WorkDesigners); err != nil {
			return err
		}
		if statusChanged {
			if err := s.recordStatus(ctx, m); err != nil {
				return err
			}
		}
		if !m.changed {
			return nil
		}
		if !versionBumped {
			if err := s.bumpVersion(ctx, m, nil); err != nil {
				return err
			}
		}

		text := fmt.Sprintf("El trabajo '%s' ha sido actualizado.", work.Name)
		if statusChanged {
			text = fmt.Sprintf("El trabajo '%s' cambió a estado %s.", work.Name, work.CurrentStatus)
		}
		return s.stageNotifications(ctx, m, text)
	})
	if err != nil {
		s.discardUploads(ctx, m.uploaded)
		return nil, err
	}

	s.notifier.Push(ctx, m.staged)
	if statusChanged {
		s.metrics.ObserveTransition(m.work.CurrentStatus.String())
	}
	if s.logg != nil && m.changed {
		logCtx := s.logg.WithWorkID(ctx, workID.String())
		s.logg.Info(s.logg.WithField(logCtx, "status_changed", statusChanged), "work updated")
	}
	return s.Get(ctx, workID)
}

func (s *service) checkTransition(work *models.Work, actor *workflow.Actor, target enums.StatusID) error {
	allowed := s.engine.NextStatuses(work, actor)
	if len(allowed) == 0 {
		return pkgerrors.New(pkgerrors.CodeForbidden, "no status changes are available for this user")
	}
	if !slices.Contains(allowed, target) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("work cannot move from %s to %s", work.CurrentStatus, target)).
			WithDetails(map[string]any{
				"current_status": work.CurrentStatus,
				"target_status":  target,
				"allowed":        allowed,
			})
	}
	return nil
}

// applyScalars writes the changed scalar fields and reports whether the
// version was bumped by that write.
func (s *service) applyScalars(ctx context.Context, m *mutation, input UpdateWorkInput) (bool, error) {
	work := m.work
	updates := map[string]any{}
	var executive, contact, workType uuid.UUID
	var iguala *uuid.UUID

	if input.Executive != nil && *input.Executive != work.ExecutiveID {
		executive = *input.Executive
		updates["executive_id"] = executive
	}
	if input.Contact != nil && *input.Contact != work.ContactID {
		contact = *input.Contact
		updates["contact_id"] = contact
	}
	if input.WorkType != nil && *input.WorkType != work.WorkTypeID {
		workType = *input.WorkType
		updates["work_type_id"] = workType
	}
	if input.Iguala.Set {
		switch {
		case input.Iguala.Clears():
			if work.IgualaID != nil {
				updates["iguala_id"] = nil
			}
		case work.IgualaID == nil || *work.IgualaID != input.Iguala.Value:
			id := input.Iguala.Value
			iguala = &id
			updates["iguala_id"] = id
		}
	}
	if input.CurrentStatus != nil && *input.CurrentStatus != work.CurrentStatus {
		updates["current_status"] = *input.CurrentStatus
	}
	if input.Name != nil && *input.Name != work.Name {
		if *input.Name == "" {
			return false, pkgerrors.ValidationFailure(EntityWork, m.action, errors.New("name cannot be empty"))
		}
		updates["name"] = *input.Name
	}
	if input.ExpectedDeliveryDate != nil {
		delivery, err := parseDate(*input.ExpectedDeliveryDate)
		if err != nil {
			return false, pkgerrors.ValidationFailure(EntityWork, m.action, err)
		}
		if !sameDate(delivery, work.ExpectedDeliveryDate) {
			updates["expected_delivery_date"] = delivery
		}
	}
	if input.Brief != nil && *input.Brief != work.Brief {
		updates["brief"] = *input.Brief
	}
	if input.FinalLink != nil && *input.FinalLink != work.FinalLink {
		updates["final_link"] = *input.FinalLink
	}

	if len(updates) == 0 {
		return false, nil
	}
	if err := s.checkReferences(ctx, m, executive, contact, workType, iguala); err != nil {
		return false, err
	}
	if err := s.bumpVersion(ctx, m, updates); err != nil {
		return false, err
	}
	applyToModel(work, updates)
	m.changed = true
	return true, nil
}

func (s *service) bumpVersion(ctx context.Context, m *mutation, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = m.now
	ok, err := m.repo.UpdateWorkVersioned(ctx, m.work.ID, m.work.Version, updates)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "work was modified by another request")
	}
	m.work.Version++
	m.work.UpdatedAt = m.now
	return nil
}

func applyToModel(work *models.Work, updates map[string]any) {
	for column, value := range updates {
		switch column {
		case "executive_id":
			work.ExecutiveID = value.(uuid.UUID)
		case "contact_id":
			work.ContactID = value.(uuid.UUID)
		case "work_type_id":
			work.WorkTypeID = value.(uuid.UUID)
		case "iguala_id":
			if id, ok := value.(uuid.UUID); ok {
				work.IgualaID = &id
			} else {
				work.IgualaID = nil
			}
		case "current_status":
			work.CurrentStatus = value.(enums.StatusID)
		case "name":
			work.Name = value.(string)
		case "brief":
			work.Brief = value.(string)
		case "final_link":
			work.FinalLink = value.(string)
		}
	}
	if v, ok := updates["expected_delivery_date"]; ok {
		work.ExpectedDeliveryDate = v.(datatypes.Date)
	}
}

// checkReferences verifies that every non-nil id points at an active row.
func (s *service) checkReferences(ctx context.Context, m *mutation, executive, contact, workType uuid.UUID, iguala *uuid.UUID) error {
	checks := []struct {
		id    uuid.UUID
		name  string
		exist func(context.Context, uuid.UUID) (bool, error)
	}{
		{executive, "executive", m.repo.UserActive},
		{contact, "contact", m.repo.ContactActive},
		{workType, "work type", m.repo.WorkTypeActive},
	}
	if iguala != nil {
		checks = append(checks, struct {
			id    uuid.UUID
			name  string
			exist func(context.Context, uuid.UUID) (bool, error)
		}{*iguala, "iguala", m.repo.IgualaActive})
	}

	for _, c := range checks {
		if c.id == uuid.Nil {
			continue
		}
		ok, err := c.exist(ctx, c.id)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.ValidationFailure(EntityWork, m.action, fmt.Errorf("%s %s does not exist", c.name, c.id))
		}
	}
	return nil
}

// applyArtWorks upserts line items by (work, art type).
func (s *service) applyArtWorks(ctx context.Context, m *mutation, items []ArtWorkInput) error {
	for i, item := range items {
		if item.Quantity <= 0 {
			return pkgerrors.ValidationFailure(EntityArtWork, m.action, fmt.Errorf("art_works[%d]: quantity must be positive", i))
		}
		ok, err := m.repo.ArtTypeActive(ctx, item.ArtType)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.ValidationFailure(EntityArtWork, m.action, fmt.Errorf("art_works[%d]: art type %s does not exist", i, item.ArtType))
		}

		existing, err := m.repo.FindArtWork(ctx, m.work.ID, item.ArtType)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := m.repo.CreateArtWork(ctx, &models.ArtWork{
				ID:        uuid.New(),
				WorkID:    m.work.ID,
				ArtTypeID: item.ArtType,
				Quantity:  item.Quantity,
				IsActive:  true,
			}); err != nil {
				return err
			}
			m.changed = true
			continue
		}
		if existing.Quantity == item.Quantity && existing.IsActive {
			continue
		}
		if err := m.repo.UpdateArtWorkQuantity(ctx, existing.ID, item.Quantity); err != nil {
			return err
		}
		m.changed = true
	}
	return nil
}

func (s *service) storeFiles(ctx context.Context, m *mutation, files []FileUpload) error {
	for i, upload := range files {
		if upload.Name == "" {
			return pkgerrors.ValidationFailure(EntityFile, m.action, fmt.Errorf("files[%d]: name required", i))
		}
		fileID := uuid.New()
		key := storage.WorkFileKey(m.work.ID, fileID, upload.Name)
		obj, err := s.files.Put(ctx, key, upload.Data)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				return pkgerrors.ValidationFailure(EntityFile, m.action, err)
			}
			return err
		}
		m.uploaded = append(m.uploaded, key)

		if err := m.repo.CreateFile(ctx, &models.File{
			ID:          fileID,
			WorkID:      m.work.ID,
			Name:        upload.Name,
			ObjectKey:   obj.Key,
			ContentType: obj.ContentType,
			SizeBytes:   obj.Size,
			IsActive:    true,
			CreatedAt:   m.now,
		}); err != nil {
			return err
		}
		m.changed = true
	}
	return nil
}

// applyDesigners reconciles designer entries against the active assignment rows.
func (s *service) applyDesigners(ctx context.Context, m *mutation, entries []DesignerInput) error {
	for i, entry := range entries {
		ok, err := m.repo.UserActive(ctx, entry.Designer)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.ValidationFailure(EntityDesigner, m.action, fmt.Errorf("work_designers[%d]: designer %s does not exist", i, entry.Designer))
		}

		current, err := m.repo.FindActiveAssignment(ctx, m.work.ID, entry.Designer)
		if err != nil {
			return err
		}

		switch {
		case current != nil && entry.ActiveWork:
			continue
		case current != nil:
			if err := m.repo.EndAssignment(ctx, current.ID, m.now); err != nil {
				return err
			}
			m.changed = true
		case entry.ActiveWork:
			if err := m.repo.CreateAssignment(ctx, &models.WorkDesigner{
				ID:         uuid.New(),
				DesignerID: entry.Designer,
				WorkID:     m.work.ID,
				StartDate:  m.now,
				ActiveWork: true,
				IsActive:   true,
			}); err != nil {
				return err
			}
			m.changed = true
		case m.action == pkgerrors.ActionCreated:
			end := m.now
			if err := m.repo.CreateAssignment(ctx, &models.WorkDesigner{
				ID:         uuid.New(),
				DesignerID: entry.Designer,
				WorkID:     m.work.ID,
				StartDate:  m.now,
				EndDate:    &end,
				ActiveWork: false,
				IsActive:   true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *service) recordStatus(ctx context.Context, m *mutation) error {
	return m.repo.AppendStatusChange(ctx, &models.StatusChange{
		ID:       uuid.New(),
		WorkID:   m.work.ID,
		StatusID: m.work.CurrentStatus,
		UserID:   m.actorID,
		Date:     m.now,
	})
}

func (s *service) stageNotifications(ctx context.Context, m *mutation, text string) error {
	assignments, err := m.repo.ListActiveAssignments(ctx, m.work.ID)
	if err != nil {
		return err
	}
	recipients := make([]uuid.UUID, 0, len(assignments)+1)
	recipients = append(recipients, m.work.ExecutiveID)
	for _, a := range assignments {
		recipients = append(recipients, a.DesignerID)
	}

	staged, err := s.notifier.Stage(ctx, m.tx, m.work.ID, recipients, text)
	if err != nil {
		return err
	}
	m.staged = staged
	return nil
}

func (s *service) discardUploads(ctx context.Context, keys []string) {
	var errs error
	for _, key := range keys {
		errs = multierr.Append(errs, s.files.Remove(ctx, key))
	}
	if errs != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to remove uploads of a rolled back work mutation", errs)
	}
}

func (s *service) Deactivate(ctx context.Context, workID uuid.UUID, actorID uuid.UUID) error {
	err := s.deactivate(ctx, workID, actorID)
	s.observe(metrics.OpDeactivate, err)
	return err
}

func (s *service) deactivate(ctx context.Context, workID uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "acting user required")
	}
	m := &mutation{action: pkgerrors.ActionUpdated, actorID: actorID, now: s.now()}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		m.tx = tx
		m.repo = s.repo.WithTx(tx)
		work, err := m.repo.FindActiveWork(ctx, workID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "work not found")
		}
		if err != nil {
			return err
		}
		m.work = work
		if err := s.bumpVersion(ctx, m, map[string]any{"is_active": false}); err != nil {
			return err
		}
		return s.stageNotifications(ctx, m, fmt.Sprintf("El trabajo '%s' ha sido eliminado.", work.Name))
	})
	if err != nil {
		return err
	}

	s.notifier.Push(ctx, m.staged)
	if s.logg != nil {
		s.logg.Info(s.logg.WithWorkID(ctx, workID.String()), "work deactivated")
	}
	return nil
}

func (s *service) Get(ctx context.Context, workID uuid.UUID) (*WorkDTO, error) {
	work, err := s.repo.FindActiveWork(ctx, workID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "work not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work")
	}

	dto := fromWork(work)
	arts, err := s.repo.ListArtWorks(ctx, workID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load art works")
	}
	for _, a := range arts {
		dto.ArtWorks = append(dto.ArtWorks, ArtWorkDTO{ID: a.ID, ArtType: a.ArtTypeID, Quantity: a.Quantity})
	}

	files, err := s.repo.ListFiles(ctx, workID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load files")
	}
	for _, f := range files {
		item := FileDTO{ID: f.ID, Name: f.Name, ContentType: f.ContentType, SizeBytes: f.SizeBytes}
		if url, err := s.files.PresignGet(ctx, f.ObjectKey, fileLinkTTL); err == nil {
			item.URL = url
		} else if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "object_key", f.ObjectKey), "could not presign work file")
		}
		dto.Files = append(dto.Files, item)
	}

	designers, err := s.repo.ListActiveAssignments(ctx, workID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load designers")
	}
	for _, d := range designers {
		dto.WorkDesigners = append(dto.WorkDesigners, WorkDesignerDTO{
			ID:         d.ID,
			Designer:   d.DesignerID,
			StartDate:  d.StartDate,
			EndDate:    d.EndDate,
			ActiveWork: d.ActiveWork,
		})
	}
	return dto, nil
}

func (s *service) StatusHistory(ctx context.Context, workID uuid.UUID) ([]StatusChangeDTO, error) {
	if _, err := s.repo.FindActiveWork(ctx, workID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "work not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work")
	}
	rows, err := s.repo.ListStatusChanges(ctx, workID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load status changes")
	}
	out := make([]StatusChangeDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, StatusChangeDTO{ID: r.ID, StatusID: r.StatusID, Name: r.StatusID.String(), User: r.UserID, Date: r.Date})
	}
	return out, nil
}

func (s *service) PossibleStatusChanges(ctx context.Context, workID uuid.UUID, actorID uuid.UUID) ([]StatusDTO, error) {
	work, err := s.repo.FindActiveWork(ctx, workID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "work not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work")
	}
	actor, err := workflow.ResolveActor(ctx, s.roles, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve acting user roles")
	}
	return StatusesFrom(s.engine.NextStatuses(work, actor)), nil
}

func (s *service) observe(op string, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveMutation(op, metrics.ResultOK)
	case isRejection(err):
		s.metrics.ObserveMutation(op, metrics.ResultRejected)
	default:
		s.metrics.ObserveMutation(op, metrics.ResultError)
	}
}

func isRejection(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	status := pkgerrors.MetadataFor(typed.Code()).HTTPStatus
	return status >= 400 && status < 500
}
