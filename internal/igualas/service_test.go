package igualas

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
	conn     *gorm.DB
	svc      Service
	iguala   models.Iguala
	artType  models.ArtType
	workType models.WorkType
	contact  models.Contact
	user     models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testsupport.Open(t)
	svc, err := NewService(db.Wrap(conn), NewRepository(conn), nil)
	require.NoError(t, err)

	client := testsupport.CreateClient(t, conn, "Florería Luna")
	workType := testsupport.CreateWorkType(t, conn, 1, "Iguala")
	return &fixture{
		conn:     conn,
		svc:      svc,
		iguala:   testsupport.CreateIguala(t, conn, client.ID, "Iguala anual"),
		artType:  testsupport.CreateArtType(t, conn, workType.ID, "Flyer"),
		workType: workType,
		contact:  testsupport.CreateContact(t, conn, client.ID, "rosa"),
		user:     testsupport.CreateUser(t, conn, "ejecutivo", enums.RoleEjecutivo),
	}
}

func (f *fixture) work(t *testing.T, status enums.StatusID) models.Work {
	t.Helper()
	igualaID := f.iguala.ID
	return testsupport.CreateWork(t, f.conn, models.Work{
		ExecutiveID:   f.user.ID,
		ContactID:     f.contact.ID,
		WorkTypeID:    f.workType.ID,
		IgualaID:      &igualaID,
		CurrentStatus: status,
	})
}

func TestUpsertArtIgualasNeverDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UpsertArtIgualas(ctx, f.iguala.ID, []ArtIgualaInput{{ArtType: f.artType.ID, Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.svc.UpsertArtIgualas(ctx, f.iguala.ID, []ArtIgualaInput{{ArtType: f.artType.ID, Quantity: 8}})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 8, second[0].Quantity)

	var rows int64
	require.NoError(t, f.conn.Model(&models.ArtIguala{}).Where("iguala_id = ?", f.iguala.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestUpsertArtIgualasRollsBackOnInvalidItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpsertArtIgualas(context.Background(), f.iguala.ID, []ArtIgualaInput{
		{ArtType: f.artType.ID, Quantity: 2},
		{ArtType: uuid.New(), Quantity: 1},
	})

	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "ArtIguala could not be updated with received data.", pkgerrors.As(err).Message())

	var rows int64
	require.NoError(t, f.conn.Model(&models.ArtIguala{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestUpsertArtIgualasUnknownIguala(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpsertArtIgualas(context.Background(), uuid.New(), []ArtIgualaInput{{ArtType: f.artType.ID, Quantity: 1}})

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeactivateRejectedWithActiveWorks(t *testing.T) {
	f := newFixture(t)
	f.work(t, enums.StatusValidacion)

	err := f.svc.Deactivate(context.Background(), f.iguala.ID)

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestDeactivateBlockedUntilFinishedWorkIsDeleted(t *testing.T) {
	f := newFixture(t)
	work := f.work(t, enums.StatusTerminado)
	ctx := context.Background()

	err := f.svc.Deactivate(ctx, f.iguala.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	testsupport.DeactivateWork(t, f.conn, work.ID)
	require.NoError(t, f.svc.Deactivate(ctx, f.iguala.ID))

	err = f.svc.Deactivate(ctx, f.iguala.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
