package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/application/usecase"
	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-bale/pkg/jwt"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

// RouterDeps dependencias para el router del POS.
type RouterDeps struct {
	Store     *ledger.Store
	Entries   *inventory.EntryUseCase
	Reports   *appanalytics.ReportUseCase
	Dashboard *appanalytics.DashboardUseCase
	Renderer  appanalytics.AnalysisRenderer // opcional
	Metrics   *metrics.Metrics              // opcional
	Logger    *logger.Logger                // opcional
	Service   string
}

// Router registra las rutas de la API del POS.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger, deps.Metrics))
	registerOps(app, deps.Service, deps.Metrics)

	api := app.Group("/api")

	// Réplica del ledger
	stateHandler := NewStateHandler(deps.Store)
	api.Get("/state", stateHandler.State)
	api.Post("/sync", stateHandler.Sync)

	// Categorías, compras y ventas
	inventoryHandler := NewInventoryHandler(deps.Entries, deps.Store)
	api.Get("/categories", inventoryHandler.ListCategories)
	api.Post("/categories", inventoryHandler.CreateCategory)
	api.Delete("/categories/:id", inventoryHandler.DeleteCategory)
	api.Get("/purchases", inventoryHandler.ListPurchases)
	api.Post("/purchases", inventoryHandler.CreatePurchase)
	api.Delete("/purchases/:id", inventoryHandler.DeletePurchase)
	api.Get("/sales", inventoryHandler.ListSales)
	api.Post("/sales", inventoryHandler.CreateSale)
	api.Delete("/sales/:id", inventoryHandler.DeleteSale)
	api.Get("/inventory/stock/:categoryId", inventoryHandler.StockCheck)

	// Reportes
	analyticsHandler := NewAnalyticsHandler(deps.Reports, deps.Renderer, deps.Store)
	api.Get("/inventory", analyticsHandler.GetInventory)
	api.Get("/analysis", analyticsHandler.GetAnalysis)
	api.Get("/analysis/options", analyticsHandler.GetMonthOptions)

	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard", dashboardHandler.GetSummary)

	reports := api.Group("/reports")
	reports.Get("/inventory.xlsx", analyticsHandler.InventoryXLSX)
	reports.Get("/ledger.xlsx", analyticsHandler.LedgerXLSX)
	reports.Get("/analysis.pdf", analyticsHandler.AnalysisPDF)
}

// LedgerRouterDeps dependencias para el router del servicio del ledger.
type LedgerRouterDeps struct {
	Categories *usecase.CategoryUseCase
	Purchases  *usecase.PurchaseUseCase
	Sales      *usecase.SaleUseCase
	JWTSecret  string           // vacío = sin autenticación
	Metrics    *metrics.Metrics // opcional
	Logger     *logger.Logger   // opcional
	Service    string
}

// LedgerRouter registra el contrato del ledger bajo /api. Con JWTSecret, las lecturas exigen
// ledger:read y las escrituras ledger:write.
func LedgerRouter(app *fiber.App, deps LedgerRouterDeps) {
	app.Use(RequestLogger(deps.Logger, deps.Metrics))
	registerOps(app, deps.Service, deps.Metrics)

	api := app.Group("/api")
	read, write := passThrough, passThrough
	if deps.JWTSecret != "" {
		// Rutas protegidas (requieren Bearer Token)
		api.Use(AuthMiddleware(deps.JWTSecret))
		read, write = RequireScope(jwt.ScopeRead), RequireScope(jwt.ScopeWrite)
	}

	h := NewLedgerHandler(deps.Categories, deps.Purchases, deps.Sales)
	api.Get("/categories", read, h.ListCategories)
	api.Post("/categories", write, h.CreateCategory)
	api.Delete("/categories/:id", write, h.DeleteCategory)
	api.Get("/purchases", read, h.ListPurchases)
	api.Post("/purchases", write, h.CreatePurchase)
	api.Delete("/purchases/:id", write, h.DeletePurchase)
	api.Get("/sales", read, h.ListSales)
	api.Post("/sales", write, h.CreateSale)
	api.Delete("/sales/:id", write, h.DeleteSale)
}

// registerOps /health y /metrics (públicos).
func registerOps(app *fiber.App, service string, m *metrics.Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}
}

func passThrough(c *fiber.Ctx) error { return c.Next() }
