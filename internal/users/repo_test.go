package users

import (
	"context"
	"testing"
	"time"

	"github.com/balarco/balarco-backend/internal/testsupport"
	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolesForReturnsCatalogRoles(t *testing.T) {
	db := testsupport.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := testsupport.CreateUser(t, db, "ana", enums.RoleEjecutivo, enums.RoleDirectorArte)

	roles, err := repo.RolesFor(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []enums.Role{enums.RoleEjecutivo, enums.RoleDirectorArte}, roles)
}

func TestRolesForSkipsUnknownGroupsAndInactiveUsers(t *testing.T) {
	db := testsupport.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := testsupport.CreateUser(t, db, "beto", enums.RoleVentas)
	legacy := models.Group{ID: uuid.New(), Name: "Becarios"}
	require.NoError(t, db.Create(&legacy).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: legacy.ID}).Error)

	roles, err := repo.RolesFor(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []enums.Role{enums.RoleVentas}, roles)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	roles, err = repo.RolesFor(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestCreateAssignsRolesOnce(t *testing.T) {
	db := testsupport.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        "Carla@Balarco.test",
		PasswordHash: "hash",
		FirstName:    "Carla",
		Roles:        []enums.Role{enums.RoleSuperUsuario},
	})
	require.NoError(t, err)
	assert.Equal(t, "Carla@Balarco.test", user.Username)

	require.NoError(t, repo.AssignRoles(ctx, user.ID, []enums.Role{enums.RoleSuperUsuario, enums.RoleAdministracion}))
	roles, err := repo.RolesFor(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []enums.Role{enums.RoleSuperUsuario, enums.RoleAdministracion}, roles)

	found, err := repo.FindByEmail(ctx, " carla@balarco.test ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUpdateLastLogin(t *testing.T) {
	db := testsupport.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := testsupport.CreateUser(t, db, "dani")

	at := time.Date(2025, time.April, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, at.Equal(*found.LastLoginAt))
}
