package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/usecase"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) usecase.Option {
	n := 0
	return usecase.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	})
}

type ledgerFixture struct {
	categories *usecase.CategoryUseCase
	purchases  *usecase.PurchaseUseCase
	sales      *usecase.SaleUseCase
}

func newFixture() ledgerFixture {
	catRepo := memory.NewCategoryRepository()
	clock := usecase.WithClock(func() time.Time { return fixedNow })
	return ledgerFixture{
		categories: usecase.NewCategoryUseCase(catRepo, clock, sequentialIDs("c")),
		purchases:  usecase.NewPurchaseUseCase(memory.NewPurchaseRepository(), catRepo, clock, sequentialIDs("p")),
		sales:      usecase.NewSaleUseCase(memory.NewSaleRepository(), catRepo, clock, sequentialIDs("s")),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryUseCase_CreateListDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: " T-Shirt "})
	require.NoError(t, err)
	assert.Equal(t, "c1", first.ID)
	assert.Equal(t, "T-Shirt", first.Name)
	assert.Equal(t, fixedNow, first.CreatedAt)

	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Jeans"})
	require.NoError(t, err)

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Jeans", list[0].Name, "más nueva primero")

	require.NoError(t, f.categories.Delete(ctx, "c1"))
	assert.ErrorIs(t, f.categories.Delete(ctx, "c1"), domain.ErrNotFound)
}

func TestCategoryUseCase_NameRequired(t *testing.T) {
	_, err := newFixture().categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras y ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseUseCase_DerivesCostPerItemAndName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "T-Shirt"})
	require.NoError(t, err)

	p, err := f.purchases.Create(ctx, dto.CreatePurchaseRequest{
		Date: "2025-03-02", CategoryID: cat.ID, Quantity: 150,
		TotalCost: decimal.NewFromInt(40000), SellingPricePerItem: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "2025-03-02", p.Date)
	assert.Equal(t, "T-Shirt", p.CategoryName, "sin categoryName se toma el de la categoría")
	assert.Equal(t, "266.67", p.CostPerItem.StringFixed(2))
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, fixedNow, *p.CreatedAt)
}

func TestPurchaseUseCase_UnknownCategoryIsAccepted(t *testing.T) {
	p, err := newFixture().purchases.Create(context.Background(), dto.CreatePurchaseRequest{
		Date: "2025-03-02", CategoryID: "c-gone", CategoryName: "Legacy", Quantity: 1,
		TotalCost: decimal.NewFromInt(10), SellingPricePerItem: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "Legacy", p.CategoryName)
}

func TestPurchaseUseCase_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.purchases.Create(context.Background(), dto.CreatePurchaseRequest{
		Date: "2025-03-02", CategoryID: "c1", Quantity: 0, TotalCost: decimal.NewFromInt(10),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gt", verr.Fields["quantity"])

	_, err = f.purchases.Create(context.Background(), dto.CreatePurchaseRequest{
		Date: "2/3/2025", CategoryID: "c1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaleUseCase_DerivesTotalAndListsNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, qty := range []int{20, 5} {
		_, err := f.sales.Create(ctx, dto.CreateSaleRequest{
			Date: "2025-03-10", CategoryID: "c-tshirt", CategoryName: "T-Shirt",
			Quantity: qty, SellingPricePerItem: decimal.NewFromInt(550),
		})
		require.NoError(t, err)
	}

	list, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
	assert.True(t, list[1].TotalAmount.Equal(decimal.NewFromInt(11000)))

	require.NoError(t, f.sales.Delete(ctx, "s1"))
	assert.ErrorIs(t, f.sales.Delete(ctx, "s1"), domain.ErrNotFound)
	assert.ErrorIs(t, f.sales.Delete(ctx, ""), domain.ErrInvalidInput)
}

func TestSaleUseCase_NoStockCheck(t *testing.T) {
	_, err := newFixture().sales.Create(context.Background(), dto.CreateSaleRequest{
		Date: "2025-03-10", CategoryID: "c-empty", Quantity: 999, SellingPricePerItem: decimal.NewFromInt(1),
	})
	assert.NoError(t, err, "el servicio acepta la última escritura sin controlar stock")
}
