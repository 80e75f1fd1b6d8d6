package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-bale/pkg/config"
)

// Requiere una base descartable: POS_BALE_TEST_DATABASE_URL=postgres://... go test ./...
func testDB(t *testing.T) postgres.Querier {
	t.Helper()
	dsn := os.Getenv("POS_BALE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POS_BALE_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.RunMigrations(ctx, pool)
	require.NoError(t, err)
	// Segunda corrida: nada pendiente.
	applied, err := postgres.RunMigrations(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, applied)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })
	return tx
}

func TestPurchaseRepo_RoundTripWithDecimals(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := postgres.NewPurchaseRepository(db)

	created := time.Now().UTC().Truncate(time.Microsecond)
	p := &entity.Purchase{
		ID:                  uuid.New().String(),
		Date:                time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		CategoryID:          "c-tshirt",
		CategoryName:        "T-Shirt",
		Quantity:            150,
		TotalCost:           decimal.NewFromInt(40000),
		CostPerItem:         entity.UnitCost(decimal.NewFromInt(40000), 150),
		SellingPricePerItem: decimal.RequireFromString("499.50"),
		CreatedAt:           created,
	}
	require.NoError(t, repo.Create(ctx, p))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var got *entity.Purchase
	for i := range list {
		if list[i].ID == p.ID {
			got = &list[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, p.Date, got.Date)
	assert.True(t, got.TotalCost.Equal(p.TotalCost))
	assert.Equal(t, "266.666667", got.CostPerItem.StringFixed(6))
	assert.True(t, got.SellingPricePerItem.Equal(p.SellingPricePerItem))

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestCategoryRepo_GetByIDMissingIsNil(t *testing.T) {
	db := testDB(t)
	repo := postgres.NewCategoryRepository(db)

	c, err := repo.GetByID(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, c)
}
