package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/application/usecase"
	"github.com/jhoicas/pos-bale/internal/infrastructure/excel"
	"github.com/jhoicas/pos-bale/internal/infrastructure/ledgerclient"
	"github.com/jhoicas/pos-bale/internal/infrastructure/memory"
	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/pos-bale/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-bale/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newLedgerApp servicio del ledger en memoria.
func newLedgerApp(secret string) *fiber.App {
	categories := memory.NewCategoryRepository()
	app := fiber.New()
	apphttp.LedgerRouter(app, apphttp.LedgerRouterDeps{
		Categories: usecase.NewCategoryUseCase(categories),
		Purchases:  usecase.NewPurchaseUseCase(memory.NewPurchaseRepository(), categories),
		Sales:      usecase.NewSaleUseCase(memory.NewSaleRepository(), categories),
		JWTSecret:  secret,
		Service:    "ledgerd-test",
	})
	return app
}

// newPOSApp POS conectado por HTTP a un ledger en memoria.
func newPOSApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(newLedgerApp("")))
	t.Cleanup(srv.Close)

	store := ledger.NewStore(ledgerclient.New(srv.URL+"/api", 5*time.Second), nil, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Store:     store,
		Entries:   inventory.NewEntryUseCase(store),
		Reports:   analytics.NewReportUseCase(store, nil),
		Dashboard: analytics.NewDashboardUseCase(store),
		Metrics:   metrics.New("pos_test"),
		Service:   "pos-test",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, header ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// POS de punta a punta (POS → ledgerclient → ledger en memoria)
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_PurchaseSellAndReport(t *testing.T) {
	app := newPOSApp(t)

	resp := call(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "T-Shirt"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	category := decode[dto.CategoryDTO](t, resp)
	require.NotEmpty(t, category.ID)

	resp = call(t, app, http.MethodPost, "/api/purchases", map[string]any{
		"date": "2025-03-02", "categoryId": category.ID, "quantity": 150, "totalCost": 40000, "sellingPricePerItem": 500,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	purchase := decode[dto.PurchaseDTO](t, resp)
	assert.Equal(t, "T-Shirt", purchase.CategoryName)
	assert.Equal(t, "266.67", purchase.CostPerItem.StringFixed(2))

	resp = call(t, app, http.MethodPost, "/api/sales", map[string]any{
		"date": "2025-03-10", "categoryId": category.ID, "quantity": 151, "sellingPricePerItem": 550,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/sales", map[string]any{
		"date": "2025-03-10", "categoryId": category.ID, "quantity": 20, "sellingPricePerItem": 550,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock/"+category.ID+"?quantity=131", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decode[dto.StockCheckDTO](t, resp)
	assert.Equal(t, 130, stock.Stock)
	assert.False(t, stock.Available)

	resp = call(t, app, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inv := decode[dto.InventoryReportDTO](t, resp)
	require.Len(t, inv.Rows, 1)
	assert.Equal(t, 130, inv.Rows[0].Remaining)
	assert.True(t, inv.Complete)

	resp = call(t, app, http.MethodGet, "/api/analysis?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.AnalysisReportDTO](t, resp)
	assert.True(t, report.Income.Equal(decimal.NewFromInt(11000)))
	assert.True(t, report.Outcome.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, analytics.LabelLoss, report.ProfitLabel)

	resp = call(t, app, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sales := decode[dto.ListResponse[dto.SaleDTO]](t, resp)
	assert.Equal(t, 1, sales.Total)

	resp = call(t, app, http.MethodGet, "/api/state", nil)
	state := decode[ledger.State](t, resp)
	assert.True(t, state.Loaded())
	assert.Equal(t, 1, state.Purchases.Count)
}

func TestPOS_Exports(t *testing.T) {
	app := newPOSApp(t)
	resp := call(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Jeans"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/reports/inventory.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, excel.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario-")

	resp = call(t, app, http.MethodGet, "/api/reports/ledger.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	book, err := excel.ParseLedger(resp.Body)
	require.NoError(t, err)
	require.Len(t, book.Categories, 1)
	assert.Equal(t, "Jeans", book.Categories[0].Name)

	resp = call(t, app, http.MethodGet, "/api/reports/analysis.pdf", nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode, "sin renderer no hay PDF")
}

func TestPOS_ErrorMapping(t *testing.T) {
	app := newPOSApp(t)

	resp := call(t, app, http.MethodPost, "/api/purchases", map[string]any{"categoryId": "", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Fields, "categoryId")

	resp = call(t, app, http.MethodPost, "/api/purchases", map[string]any{"categoryId": "c-tshirt", "quantity": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "required", body.Fields["totalCost"])
	assert.Equal(t, "required", body.Fields["sellingPricePerItem"])

	resp = call(t, app, http.MethodPost, "/api/sales", map[string]any{"categoryId": "c-tshirt", "quantity": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "required", decode[dto.ErrorResponse](t, resp).Fields["sellingPricePerItem"])

	resp = call(t, app, http.MethodGet, "/api/analysis?month=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/analysis?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/sales/no-existe", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode, "el 404 del ledger llega como fallo remoto")
	assert.Equal(t, apphttp.CodeRemote, decode[dto.ErrorResponse](t, resp).Code)
}

func TestPOS_RemoteDownIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	store := ledger.NewStore(ledgerclient.New(srv.URL, time.Second), nil, nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Store:     store,
		Entries:   inventory.NewEntryUseCase(store),
		Reports:   analytics.NewReportUseCase(store, nil),
		Dashboard: analytics.NewDashboardUseCase(store),
	})

	resp := call(t, app, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Message, "Request failed with status 503")

	resp = call(t, app, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "los reportes se arman con lo que haya")
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.False(t, summary.Complete)
	assert.Len(t, summary.Warnings, 3)

	resp = call(t, app, http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.False(t, decode[apphttp.SyncResponse](t, resp).Complete)
}

func TestPOS_HealthAndMetrics(t *testing.T) {
	app := newPOSApp(t)

	resp := call(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pos-test", decode[map[string]string](t, resp)["service"])

	resp = call(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(text), `pos_test_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Servicio del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerRouter_ContractAndNotFound(t *testing.T) {
	app := newLedgerApp("")

	resp := call(t, app, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(raw), "listado vacío como arreglo, no null")

	resp = call(t, app, http.MethodPost, "/api/sales", map[string]any{
		"date": "2025-03-10", "categoryId": "c-x", "categoryName": "Caps", "quantity": 3, "sellingPricePerItem": 200,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleDTO](t, resp)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(600)))

	resp = call(t, app, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, app, http.MethodDelete, "/api/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/purchases", map[string]any{"date": "03/02/2025", "categoryId": "c-x", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLedgerRouter_Auth(t *testing.T) {
	app := newLedgerApp(testJWTSecret)

	resp := call(t, app, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "/health es público")

	read := tokenForScope(t, pkgjwt.ScopeRead)
	resp = call(t, app, http.MethodGet, "/api/categories", nil, "Authorization", read)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Caps"}, "Authorization", read)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Caps"}, "Authorization", tokenForScope(t, pkgjwt.ScopeWrite))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
