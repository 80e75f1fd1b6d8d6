package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/application/usecase"
	"github.com/jhoicas/pos-bale/internal/infrastructure/excel"
	"github.com/jhoicas/pos-bale/internal/infrastructure/ledgerclient"
	"github.com/jhoicas/pos-bale/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-bale/internal/interfaces/http"
)

func newStore(t *testing.T) *ledger.Store {
	t.Helper()
	categories := memory.NewCategoryRepository()
	app := fiber.New()
	apphttp.LedgerRouter(app, apphttp.LedgerRouterDeps{
		Categories: usecase.NewCategoryUseCase(categories),
		Purchases:  usecase.NewPurchaseUseCase(memory.NewPurchaseRepository(), categories),
		Sales:      usecase.NewSaleUseCase(memory.NewSaleRepository(), categories),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return ledger.NewStore(ledgerclient.New(srv.URL+"/api", 5*time.Second), nil, nil)
}

func day(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

func legacyBook() *excel.Workbook {
	return &excel.Workbook{
		Categories: []excel.CategoryRow{{Row: 2, ID: "old-1", Name: "T-Shirt"}},
		Purchases: []excel.PurchaseRow{
			{Row: 2, Date: day(time.March, 2), CategoryID: "old-1", Quantity: 150, TotalCost: decimal.NewFromInt(40000), SellingPricePerItem: decimal.NewFromInt(500)},
			{Row: 3, Date: day(time.March, 3), Category: "jeans", Quantity: 5, TotalCost: decimal.NewFromInt(5000), SellingPricePerItem: decimal.NewFromInt(1500)},
		},
		Sales: []excel.SaleRow{
			{Row: 2, Date: day(time.March, 10), CategoryID: "old-1", Quantity: 20, SellingPricePerItem: decimal.NewFromInt(550)},
			{Row: 3, Date: day(time.March, 11), Category: "Jeans", Quantity: 6, SellingPricePerItem: decimal.NewFromInt(1500)},
		},
	}
}

func TestImporter_MapsCategoriesAndSkipsOversold(t *testing.T) {
	store := newStore(t)

	res, err := newImporter(store, nil, false).run(context.Background(), legacyBook())
	require.NoError(t, err)
	assert.Equal(t, result{CategoriesCreated: 2, Purchases: 2, Sales: 1, Skipped: 1}, res)

	snap := store.Snapshot()
	require.Len(t, snap.Categories, 2)
	tshirt := snap.Categories[1]
	assert.Equal(t, "T-Shirt", tshirt.Name)
	assert.NotEqual(t, "old-1", tshirt.ID, "el ledger asigna IDs nuevos")
	assert.Equal(t, 130, snap.StockLevel(tshirt.ID))
	assert.Equal(t, "jeans", snap.Categories[0].Name, "se crea con el nombre de la fila")
	assert.Equal(t, 5, snap.StockLevel(snap.Categories[0].ID))
}

func TestImporter_AllowOversoldAndReusesExisting(t *testing.T) {
	store := newStore(t)
	_, err := store.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "T-Shirt"})
	require.NoError(t, err)

	res, err := newImporter(store, nil, true).run(context.Background(), legacyBook())
	require.NoError(t, err)
	assert.Equal(t, 1, res.CategoriesMatched)
	assert.Equal(t, 1, res.CategoriesCreated)
	assert.Equal(t, 2, res.Sales)
	assert.Equal(t, 1, res.Oversold)

	snap := store.Snapshot()
	require.Len(t, snap.Categories, 2)
	assert.Equal(t, -1, snap.StockLevel(snap.Categories[0].ID), "jeans queda sobrevendida")
}
