package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedWork(status enums.StatusID) *models.Work {
	return &models.Work{ID: uuid.New(), CurrentStatus: status}
}

func actorWith(roles ...enums.Role) *Actor {
	return &Actor{ID: uuid.New(), Roles: roles}
}

func TestNextStatusesPendienteDirectorCuentas(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.NextStatuses(persistedWork(enums.StatusPendiente), actorWith(enums.RoleDirectorCuentas))
	assert.Equal(t, []enums.StatusID{enums.StatusPendiente, enums.StatusDiseno, enums.StatusCancelado}, got)
}

func TestNextStatusesUnmappedPairIsEmpty(t *testing.T) {
	engine := NewEngine(nil)

	cases := []struct {
		name   string
		status enums.StatusID
		role   enums.Role
	}{
		{"ventas in diseño", enums.StatusDiseno, enums.RoleVentas},
		{"junior in validación", enums.StatusValidacion, enums.RoleDisenadorJR},
		{"administración in pendiente", enums.StatusPendiente, enums.RoleAdministracion},
		{"ejecutivo in terminado", enums.StatusTerminado, enums.RoleEjecutivo},
		{"director de cuentas in cancelado", enums.StatusCancelado, enums.RoleDirectorCuentas},
		{"unknown role", enums.StatusPendiente, enums.Role("Gerente")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.NextStatuses(persistedWork(tc.status), actorWith(tc.role))
			assert.Empty(t, got)
		})
	}
}

func TestNextStatusesSuperUserGetsEverything(t *testing.T) {
	engine := NewEngine(nil)
	for _, status := range enums.AllStatuses() {
		got := engine.NextStatuses(persistedWork(status), actorWith(enums.RoleSuperUsuario))
		assert.Equal(t, enums.AllStatuses(), got, "status %s", status)
	}
}

func TestNextStatusesSuperUserDominatesOtherRoles(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.NextStatuses(persistedWork(enums.StatusTerminado), actorWith(enums.RoleDisenadorJR, enums.RoleSuperUsuario))
	assert.Equal(t, enums.AllStatuses(), got)
}

func TestNextStatusesUnsavedWorkOrMissingActor(t *testing.T) {
	engine := NewEngine(nil)

	assert.Empty(t, engine.NextStatuses(&models.Work{CurrentStatus: enums.StatusPendiente}, actorWith(enums.RoleSuperUsuario)))
	assert.Empty(t, engine.NextStatuses(persistedWork(enums.StatusPendiente), nil))
	assert.Empty(t, engine.NextStatuses(nil, actorWith(enums.RoleSuperUsuario)))
}

func TestNextStatusesUnionsRoles(t *testing.T) {
	engine := NewEngine(nil)
	got := engine.NextStatuses(persistedWork(enums.StatusDiseno), actorWith(enums.RoleDisenadorJR, enums.RoleEjecutivo, enums.RoleDirectorArte))
	assert.Equal(t, []enums.StatusID{enums.StatusDiseno, enums.StatusCuentas, enums.StatusCancelado}, got)
}

func TestNextStatusesAllowsBackwardMoves(t *testing.T) {
	engine := NewEngine(nil)
	work := persistedWork(enums.StatusProduccion)
	assert.True(t, engine.Allows(work, actorWith(enums.RoleDisenadorSR), enums.StatusDiseno))
	assert.False(t, engine.Allows(work, actorWith(enums.RoleDisenadorSR), enums.StatusPorCobrar))
}

func TestNextStatusesCustomTable(t *testing.T) {
	engine := NewEngine(Table{
		enums.StatusPendiente: {enums.RoleVentas: {enums.StatusTerminado, enums.StatusPendiente, enums.StatusTerminado}},
	})
	got := engine.NextStatuses(persistedWork(enums.StatusPendiente), actorWith(enums.RoleVentas))
	assert.Equal(t, []enums.StatusID{enums.StatusPendiente, enums.StatusTerminado}, got)
}

func TestDefaultTableHasNoOutgoingMovesFromClosedStatuses(t *testing.T) {
	table := DefaultTable()
	for status, byRole := range table {
		assert.False(t, status.IsClosed(), "closed status %s must not be a table key", status)
		for role, next := range byRole {
			assert.NotEqual(t, enums.RoleSuperUsuario, role)
			for _, s := range next {
				assert.True(t, s.IsValid(), "invalid target %d", s)
			}
		}
	}
}

type stubLookup struct {
	roles []enums.Role
	err   error
	calls int
}

func (s *stubLookup) RolesFor(context.Context, uuid.UUID) ([]enums.Role, error) {
	s.calls++
	return s.roles, s.err
}

func TestResolveActor(t *testing.T) {
	lookup := &stubLookup{roles: []enums.Role{enums.RoleEjecutivo}}

	actor, err := ResolveActor(context.Background(), lookup, uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, actor)
	assert.Zero(t, lookup.calls)

	id := uuid.New()
	actor, err = ResolveActor(context.Background(), lookup, id)
	require.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, id, actor.ID)
	assert.True(t, actor.HasRole(enums.RoleEjecutivo))
	assert.False(t, actor.HasRole(enums.RoleVentas))

	lookup.err = errors.New("db down")
	_, err = ResolveActor(context.Background(), lookup, id)
	assert.Error(t, err)
}
