// Package testsupport opens migrated in-memory databases and seeds the rows
// repository and pipeline tests build on.
package testsupport

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/balarco/balarco-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3/database"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a fresh in-memory sqlite database with every migration applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.New(log.New(io.Discard, "", 0), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrate.Up(context.Background(), sqlDB, database.DialectSQLite3)
	require.NoError(t, err)
	return conn
}

// Now is the fixed clock used by fixtures.
func Now() time.Time {
	return time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
}

// Date builds a datatypes.Date for y-m-d.
func Date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// CreateUser inserts an active user belonging to the given role groups.
func CreateUser(t testing.TB, conn *gorm.DB, username string, roles ...enums.Role) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        username + "@balarco.test",
		Username:     username,
		PasswordHash: "unused",
		FirstName:    username,
		IsActive:     true,
		CreatedAt:    Now(),
		UpdatedAt:    Now(),
	}
	require.NoError(t, conn.Create(&user).Error)
	for _, role := range roles {
		var group models.Group
		require.NoError(t, conn.Where("name = ?", string(role)).Take(&group).Error)
		require.NoError(t, conn.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error)
	}
	return user
}

func CreateClient(t testing.TB, conn *gorm.DB, name string) models.Client {
	t.Helper()
	client := models.Client{
		ID:        uuid.New(),
		Name:      name,
		Address:   "Av. Constitución 100, Monterrey",
		IsActive:  true,
		CreatedAt: Now(),
		UpdatedAt: Now(),
	}
	require.NoError(t, conn.Create(&client).Error)
	return client
}

func CreateContact(t testing.TB, conn *gorm.DB, clientID uuid.UUID, name string) models.Contact {
	t.Helper()
	contact := models.Contact{
		ID:        uuid.New(),
		ClientID:  clientID,
		Name:      name,
		LastName:  "García",
		Charge:    "Marketing",
		Email:     name + "@cliente.test",
		IsActive:  true,
		CreatedAt: Now(),
		UpdatedAt: Now(),
	}
	require.NoError(t, conn.Create(&contact).Error)
	return contact
}

func CreateWorkType(t testing.TB, conn *gorm.DB, workTypeID int, name string) models.WorkType {
	t.Helper()
	wt := models.WorkType{ID: uuid.New(), WorkTypeID: workTypeID, Name: name, IsActive: true}
	require.NoError(t, conn.Create(&wt).Error)
	return wt
}

func CreateArtType(t testing.TB, conn *gorm.DB, workTypeID uuid.UUID, name string) models.ArtType {
	t.Helper()
	at := models.ArtType{ID: uuid.New(), WorkTypeID: workTypeID, Name: name, IsActive: true}
	require.NoError(t, conn.Create(&at).Error)
	return at
}

func CreateIguala(t testing.TB, conn *gorm.DB, clientID uuid.UUID, name string) models.Iguala {
	t.Helper()
	iguala := models.Iguala{
		ID:        uuid.New(),
		ClientID:  clientID,
		Name:      name,
		StartDate: Date(2025, time.January, 1),
		EndDate:   Date(2025, time.December, 31),
		IsActive:  true,
		CreatedAt: Now(),
		UpdatedAt: Now(),
	}
	require.NoError(t, conn.Create(&iguala).Error)
	return iguala
}

// CreateWork inserts an active work directly, bypassing the mutation pipeline.
func CreateWork(t testing.TB, conn *gorm.DB, work models.Work) models.Work {
	t.Helper()
	if work.ID == uuid.Nil {
		work.ID = uuid.New()
	}
	if work.Name == "" {
		work.Name = "Campaña de verano"
	}
	if work.Version == 0 {
		work.Version = 1
	}
	if time.Time(work.CreationDate).IsZero() {
		work.CreationDate = Date(2025, time.March, 3)
	}
	if time.Time(work.ExpectedDeliveryDate).IsZero() {
		work.ExpectedDeliveryDate = Date(2025, time.March, 31)
	}
	work.IsActive = true
	work.CreatedAt = Now()
	work.UpdatedAt = Now()
	require.NoError(t, conn.Create(&work).Error)
	return work
}

// DeactivateWork soft-deletes a work row directly.
func DeactivateWork(t testing.TB, conn *gorm.DB, id uuid.UUID) {
	t.Helper()
	require.NoError(t, conn.Model(&models.Work{}).Where("id = ?", id).Update("is_active", false).Error)
}
