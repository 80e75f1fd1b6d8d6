package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Inventario ───────────────────────────────────────────────────────────────

// InventoryRowDTO fila de stock por categoría (GET /api/inventory).
type InventoryRowDTO struct {
	CategoryID       string          `json:"category_id"`
	Name             string          `json:"name"`
	TotalPurchased   int             `json:"total_purchased"`
	TotalSold        int             `json:"total_sold"`
	Remaining        int             `json:"remaining"`          // puede ser negativo (sobreventa)
	AvgCostPerItem   decimal.Decimal `json:"avg_cost_per_item"`  // Σ costo / Σ cantidad comprada
	AvgSellingPrice  decimal.Decimal `json:"avg_selling_price"`  // promedio del precio previsto en compras
	AvgRealizedPrice decimal.Decimal `json:"avg_realized_price"` // promedio del precio de venta realizado
	CostValue        decimal.Decimal `json:"cost_value"`
	SellingValue     decimal.Decimal `json:"selling_value"`
	Status           string          `json:"status"` // healthy|low_stock|out_of_stock|never_purchased|oversold
	Alert            bool            `json:"alert"`
}

// InventoryReportDTO tablero de inventario con totales y avisos.
type InventoryReportDTO struct {
	Rows              []InventoryRowDTO `json:"rows"`
	TotalStock        int               `json:"total_stock"`
	TotalCostValue    decimal.Decimal   `json:"total_cost_value"`
	TotalSellingValue decimal.Decimal   `json:"total_selling_value"`
	LowStock          []InventoryRowDTO `json:"low_stock"`
	OutOfStock        []InventoryRowDTO `json:"out_of_stock"`
	Oversold          []InventoryRowDTO `json:"oversold"`
	Complete          bool              `json:"complete"`           // false si alguna colección no cargó
	Warnings          []string          `json:"warnings,omitempty"` // error por colección fallida
	GeneratedAt       time.Time         `json:"generated_at"`
}

// ── Análisis mensual ────────────────────────────────────────────────────────

// CategoryPerformanceDTO resultado de una categoría en el mes.
type CategoryPerformanceDTO struct {
	CategoryID     string          `json:"category_id"`
	Name           string          `json:"name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Cost           decimal.Decimal `json:"cost"`
	Profit         decimal.Decimal `json:"profit"`
	QuantitySold   int             `json:"quantity_sold"`
	ProfitSharePct decimal.Decimal `json:"profit_share_pct"` // |profit / ingresos del mes| × 100, tope 100
	Positive       bool            `json:"positive"`
}

// AnalysisReportDTO ingresos, egresos y ganancia de un mes (GET /api/analysis).
type AnalysisReportDTO struct {
	Period           string                   `json:"period"` // "2006-01"
	Label            string                   `json:"label"`  // "Marzo 2025"
	Year             int                      `json:"year"`
	Month            int                      `json:"month"`
	Income           decimal.Decimal          `json:"income"`
	Outcome          decimal.Decimal          `json:"outcome"`
	Profit           decimal.Decimal          `json:"profit"`
	ProfitLabel      string                   `json:"profit_label"` // Ganancia|Pérdida
	Positive         bool                     `json:"positive"`
	MarginPct        decimal.Decimal          `json:"margin_pct"` // ganancia / egresos × 100
	SalesCount       int                      `json:"sales_count"`
	PurchaseCount    int                      `json:"purchase_count"`
	AverageSaleValue decimal.Decimal          `json:"average_sale_value"`
	Categories       []CategoryPerformanceDTO `json:"categories"` // solo categorías con movimiento
	Breakdown        []CategoryPerformanceDTO `json:"breakdown"`  // todas las categorías conocidas
	Best             *CategoryPerformanceDTO  `json:"best,omitempty"`
	Insights         []string                 `json:"insights"`
	Complete         bool                     `json:"complete"`
	Warnings         []string                 `json:"warnings,omitempty"`
}

// MonthOptionDTO opción del selector de mes.
type MonthOptionDTO struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// MonthOptionsDTO valores seleccionables para el análisis.
type MonthOptionsDTO struct {
	Months       []MonthOptionDTO `json:"months"`
	Years        []int            `json:"years"`
	CurrentMonth int              `json:"current_month"`
	CurrentYear  int              `json:"current_year"`
}

// ── Dashboard ───────────────────────────────────────────────────────────────

// DashboardSummaryDTO acumulados de todo el histórico y actividad reciente.
type DashboardSummaryDTO struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	Profit          decimal.Decimal `json:"profit"`
	ProfitLabel     string          `json:"profit_label"`
	SalesCount      int             `json:"sales_count"`
	PurchaseCount   int             `json:"purchase_count"`
	CategoryCount   int             `json:"category_count"`
	TotalStock      int             `json:"total_stock"`
	RecentPurchases []PurchaseDTO   `json:"recent_purchases"`
	RecentSales     []SaleDTO       `json:"recent_sales"`
	Complete        bool            `json:"complete"`
	Warnings        []string        `json:"warnings,omitempty"`
	DateLabel       string          `json:"date_label"` // "Marzo 2025"
}
