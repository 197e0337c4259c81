//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	"github.com/warelane/go-fulfillment-server/internal/platform/migrations"
)

func setupInventoryPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_SaveAndGetByProductID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	record, err := domain.NewRecord("inv1", "product1", 50)
	require.NoError(t, err)

	saved, err := repo.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	fetched, err := repo.GetByProductID(ctx, "product1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), fetched.Quantity)
}

func TestRepository_AdjustQuantity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	record, err := domain.NewRecord("inv1", "product1", 50)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, record)
	require.NoError(t, err)

	adjusted, err := repo.AdjustQuantity(ctx, "product1", -10, saved.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(40), adjusted.Quantity)
	assert.Equal(t, saved.Version+1, adjusted.Version)
}

func TestRepository_AdjustQuantityStaleVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	record, err := domain.NewRecord("inv1", "product1", 50)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, record)
	require.NoError(t, err)

	// A first writer bumps the version; the second writer still holds the old one.
	_, err = repo.AdjustQuantity(ctx, "product1", -10, saved.Version)
	require.NoError(t, err)

	_, err = repo.AdjustQuantity(ctx, "product1", -10, saved.Version)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestRepository_AdjustQuantityNeverGoesNegative(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	record, err := domain.NewRecord("inv1", "product1", 5)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, record)
	require.NoError(t, err)

	_, err = repo.AdjustQuantity(ctx, "product1", -10, saved.Version)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)

	fetched, err := repo.GetByProductID(ctx, "product1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), fetched.Quantity)
}

func TestRepository_AdjustQuantityUnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.AdjustQuantity(ctx, "ghost", -1, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ProductTrackedOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewRecord("inv1", "product1", 50)
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewRecord("inv2", "product1", 10)
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrProductTracked)
}

func TestRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	record, err := domain.NewRecord("inv1", "product1", 50)
	require.NoError(t, err)
	_, err = repo.Save(ctx, record)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "inv1"))
	_, err = repo.GetByID(ctx, "inv1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
