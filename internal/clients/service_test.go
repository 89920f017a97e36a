package clients

import (
	"context"
	"testing"

	"github.com/balarco/balarco-backend/internal/testsupport"
	"github.com/balarco/balarco-backend/pkg/db"
	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	pkgerrors "github.com/balarco/balarco-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	conn      *gorm.DB
	svc       Service
	executive models.User
	workType  models.WorkType
	client    models.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testsupport.Open(t)
	svc, err := NewService(db.Wrap(conn), NewRepository(conn), nil)
	require.NoError(t, err)
	return &fixture{
		conn:      conn,
		svc:       svc,
		executive: testsupport.CreateUser(t, conn, "ejecutivo", enums.RoleEjecutivo),
		workType:  testsupport.CreateWorkType(t, conn, 1, "Proyecto"),
		client:    testsupport.CreateClient(t, conn, "Panadería Central"),
	}
}

func (f *fixture) workFor(t *testing.T, contactID uuid.UUID, status enums.StatusID) models.Work {
	t.Helper()
	return testsupport.CreateWork(t, f.conn, models.Work{
		ExecutiveID:   f.executive.ID,
		ContactID:     contactID,
		WorkTypeID:    f.workType.ID,
		CurrentStatus: status,
	})
}

func isActive(t *testing.T, conn *gorm.DB, model any, id uuid.UUID) bool {
	t.Helper()
	var active []bool
	require.NoError(t, conn.Model(model).Where("id = ?", id).Pluck("is_active", &active).Error)
	require.Len(t, active, 1)
	return active[0]
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}

func TestDeactivateClientCascadesToContacts(t *testing.T) {
	f := newFixture(t)
	ana := testsupport.CreateContact(t, f.conn, f.client.ID, "ana")
	luis := testsupport.CreateContact(t, f.conn, f.client.ID, "luis")
	testsupport.DeactivateWork(t, f.conn, f.workFor(t, ana.ID, enums.StatusTerminado).ID)
	testsupport.DeactivateWork(t, f.conn, f.workFor(t, luis.ID, enums.StatusCancelado).ID)

	require.NoError(t, f.svc.DeactivateClient(context.Background(), f.client.ID))

	assert.False(t, isActive(t, f.conn, &models.Client{}, f.client.ID))
	assert.False(t, isActive(t, f.conn, &models.Contact{}, ana.ID))
	assert.False(t, isActive(t, f.conn, &models.Contact{}, luis.ID))
}

func TestDeactivateClientRejectedWithActiveWorks(t *testing.T) {
	f := newFixture(t)
	ana := testsupport.CreateContact(t, f.conn, f.client.ID, "ana")
	f.workFor(t, ana.ID, enums.StatusProduccion)

	err := f.svc.DeactivateClient(context.Background(), f.client.ID)

	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.True(t, isActive(t, f.conn, &models.Client{}, f.client.ID))
	assert.True(t, isActive(t, f.conn, &models.Contact{}, ana.ID))
}

func TestDeactivateContactBlockedByFinishedActiveWork(t *testing.T) {
	f := newFixture(t)
	ana := testsupport.CreateContact(t, f.conn, f.client.ID, "ana")
	work := f.workFor(t, ana.ID, enums.StatusTerminado)
	ctx := context.Background()

	err := f.svc.DeactivateContact(ctx, ana.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.True(t, isActive(t, f.conn, &models.Contact{}, ana.ID))

	testsupport.DeactivateWork(t, f.conn, work.ID)
	require.NoError(t, f.svc.DeactivateContact(ctx, ana.ID))
	assert.False(t, isActive(t, f.conn, &models.Contact{}, ana.ID))
}

func TestDeactivateClientNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeactivateClient(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, f.svc.DeactivateClient(context.Background(), f.client.ID))
	err = f.svc.DeactivateClient(context.Background(), f.client.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeactivateContact(t *testing.T) {
	f := newFixture(t)
	busy := testsupport.CreateContact(t, f.conn, f.client.ID, "busy")
	idle := testsupport.CreateContact(t, f.conn, f.client.ID, "idle")
	f.workFor(t, busy.ID, enums.StatusDiseno)
	ctx := context.Background()

	err := f.svc.DeactivateContact(ctx, busy.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.True(t, isActive(t, f.conn, &models.Contact{}, busy.ID))

	require.NoError(t, f.svc.DeactivateContact(ctx, idle.ID))
	assert.False(t, isActive(t, f.conn, &models.Contact{}, idle.ID))
	assert.True(t, isActive(t, f.conn, &models.Client{}, f.client.ID))

	err = f.svc.DeactivateContact(ctx, idle.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
