package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
	"github.com/jhoicas/pos-bale/pkg/money"
)

// Etiquetas del resultado del período.
const (
	LabelProfit = "Ganancia"
	LabelLoss   = "Pérdida"
)

// ReportUseCase arma los reportes de inventario y de análisis mensual.
type ReportUseCase struct {
	source   LedgerSource
	observer StockObserver
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. observer puede ser nil.
func NewReportUseCase(source LedgerSource, observer StockObserver) *ReportUseCase {
	return &ReportUseCase{source: source, observer: observer, now: time.Now}
}

// WithClock reemplaza el reloj que define el mes actual (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// ── Inventario ──

// Inventory devuelve una fila por categoría conocida con su valorización, los totales y
// las listas de aviso (stock bajo, agotado, sobrevendido).
func (uc *ReportUseCase) Inventory(ctx context.Context) (*dto.InventoryReportDTO, error) {
	complete, warnings, err := ensureLoaded(ctx, uc.source)
	if err != nil {
		return nil, fmt.Errorf("inventario: %w", err)
	}
	snap := uc.source.Snapshot()

	out := &dto.InventoryReportDTO{
		Rows:        []dto.InventoryRowDTO{},
		LowStock:    []dto.InventoryRowDTO{},
		OutOfStock:  []dto.InventoryRowDTO{},
		Oversold:    []dto.InventoryRowDTO{},
		Complete:    complete,
		Warnings:    warnings,
		GeneratedAt: uc.now().UTC(),
	}
	totalCost, totalSelling := decimal.Zero, decimal.Zero
	for _, stock := range snap.Stocks() {
		row := inventoryRow(stock)
		out.Rows = append(out.Rows, row)
		out.TotalStock += stock.Remaining
		totalCost = totalCost.Add(stock.Valuation.CostValue)
		totalSelling = totalSelling.Add(stock.Valuation.SellingValue)

		switch stock.Status {
		case inventory.StatusLowStock:
			out.LowStock = append(out.LowStock, row)
		case inventory.StatusOutOfStock:
			out.OutOfStock = append(out.OutOfStock, row)
		case inventory.StatusOversold:
			out.Oversold = append(out.Oversold, row)
		}
		if uc.observer != nil {
			uc.observer.SetStock(stock.Name, stock.Remaining)
		}
	}
	out.TotalCostValue = totalCost.Round(2)
	out.TotalSellingValue = totalSelling.Round(2)
	return out, nil
}

func inventoryRow(s inventory.CategoryStock) dto.InventoryRowDTO {
	return dto.InventoryRowDTO{
		CategoryID:       s.CategoryID,
		Name:             s.Name,
		TotalPurchased:   s.TotalPurchased,
		TotalSold:        s.TotalSold,
		Remaining:        s.Remaining,
		AvgCostPerItem:   s.Valuation.AvgCostPerItem.Round(2),
		AvgSellingPrice:  s.Valuation.AvgSellingPrice.Round(2),
		AvgRealizedPrice: s.Valuation.AvgRealizedPrice.Round(2),
		CostValue:        s.Valuation.CostValue.Round(2),
		SellingValue:     s.Valuation.SellingValue.Round(2),
		Status:           string(s.Status),
		Alert:            s.Status.IsAlert(),
	}
}

// ── Análisis mensual ──

// Analysis resume el mes indicado. year o month en 0 toman el valor del mes actual.
func (uc *ReportUseCase) Analysis(ctx context.Context, year, month int) (*dto.AnalysisReportDTO, error) {
	period, err := uc.period(year, month)
	if err != nil {
		return nil, err
	}
	complete, warnings, err := ensureLoaded(ctx, uc.source)
	if err != nil {
		return nil, fmt.Errorf("análisis: %w", err)
	}
	summary := uc.source.Snapshot().PeriodSummary(period)

	out := &dto.AnalysisReportDTO{
		Period:           period.String(),
		Label:            period.Label(),
		Year:             period.Year,
		Month:            int(period.Month),
		Income:           summary.Income.Round(2),
		Outcome:          summary.Outcome.Round(2),
		Profit:           summary.Profit.Round(2),
		ProfitLabel:      profitLabel(summary.Profit),
		Positive:         !summary.Profit.IsNegative(),
		MarginPct:        summary.MarginPct().Round(1),
		SalesCount:       summary.SalesCount,
		PurchaseCount:    summary.PurchaseCount,
		AverageSaleValue: summary.AverageSaleValue().Round(2),
		Categories:       []dto.CategoryPerformanceDTO{},
		Breakdown:        make([]dto.CategoryPerformanceDTO, 0, len(summary.Breakdown)),
		Complete:         complete,
		Warnings:         warnings,
	}
	for _, perf := range summary.Breakdown {
		row := performanceRow(summary, perf)
		out.Breakdown = append(out.Breakdown, row)
		if perf.Active() {
			out.Categories = append(out.Categories, row)
		}
	}
	// Solo se destaca una categoría si realmente dejó ganancia.
	if summary.Best != nil && summary.Best.Profit.IsPositive() {
		best := performanceRow(summary, *summary.Best)
		out.Best = &best
	}
	out.Insights = Insights(summary)
	return out, nil
}

func (uc *ReportUseCase) period(year, month int) (inventory.Period, error) {
	current := inventory.PeriodOf(uc.now())
	if year == 0 {
		year = current.Year
	}
	if month == 0 {
		month = int(current.Month)
	}
	if month < 1 || month > 12 {
		return inventory.Period{}, domain.NewValidationError("month", "range")
	}
	period, err := inventory.NewPeriod(year, time.Month(month))
	if err != nil {
		return inventory.Period{}, domain.NewValidationError("year", "range")
	}
	return period, nil
}

func performanceRow(s inventory.Summary, perf inventory.CategoryPerformance) dto.CategoryPerformanceDTO {
	return dto.CategoryPerformanceDTO{
		CategoryID:     perf.CategoryID,
		Name:           perf.Name,
		Revenue:        perf.Revenue.Round(2),
		Cost:           perf.Cost.Round(2),
		Profit:         perf.Profit.Round(2),
		QuantitySold:   perf.QuantitySold,
		ProfitSharePct: s.ProfitShare(perf).Round(1),
		Positive:       !perf.Profit.IsNegative(),
	}
}

// Insights observaciones del mes, en este orden: resultado, mes sin movimiento, mejor
// categoría (si dejó ganancia) y valor promedio de venta (si hubo ventas).
func Insights(s inventory.Summary) []string {
	out := []string{}
	switch {
	case s.Profit.IsPositive():
		out = append(out, fmt.Sprintf("Mes rentable: ganaste %s.", money.Format(s.Profit)))
	case s.Profit.IsNegative():
		out = append(out, "Pérdida este mes. Considera reducir costos o aumentar las ventas.")
	}
	if s.IsEmpty() {
		out = append(out, "Todavía no hay transacciones registradas para este mes.")
	}
	if s.Best != nil && s.Best.Profit.IsPositive() {
		out = append(out, fmt.Sprintf("%s es tu categoría con mejor desempeño.", s.Best.Name))
	}
	if s.SalesCount > 0 {
		out = append(out, fmt.Sprintf("Valor promedio de venta: %s.", money.Format(s.AverageSaleValue())))
	}
	return out
}

// MonthOptions meses del año y años seleccionables (dos atrás y uno adelante del actual).
func (uc *ReportUseCase) MonthOptions() dto.MonthOptionsDTO {
	now := uc.now()
	out := dto.MonthOptionsDTO{
		Months:       make([]dto.MonthOptionDTO, 0, 12),
		Years:        make([]int, 0, 4),
		CurrentMonth: int(now.Month()),
		CurrentYear:  now.Year(),
	}
	for m := time.January; m <= time.December; m++ {
		out.Months = append(out.Months, dto.MonthOptionDTO{Value: int(m), Label: inventory.MonthName(m)})
	}
	for y := now.Year() - 2; y <= now.Year()+1; y++ {
		out.Years = append(out.Years, y)
	}
	return out
}

// ── Helpers ──

func profitLabel(profit decimal.Decimal) string {
	if profit.IsNegative() {
		return LabelLoss
	}
	return LabelProfit
}

// ensureLoaded carga las colecciones pendientes. Un fallo remoto no impide el reporte: se
// arma con lo disponible y se informa en warnings. Solo la cancelación del contexto es error.
func ensureLoaded(ctx context.Context, source LedgerSource) (bool, []string, error) {
	_ = source.EnsureLoaded(ctx)
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	state := source.State()
	return state.Loaded(), collectionWarnings(state), nil
}

func collectionWarnings(state ledger.State) []string {
	var out []string
	for _, c := range []struct {
		name  string
		state ledger.CollectionState
	}{
		{ledger.CollectionCategories, state.Categories},
		{ledger.CollectionPurchases, state.Purchases},
		{ledger.CollectionSales, state.Sales},
	} {
		switch c.state.Status {
		case ledger.StatusFailed:
			out = append(out, c.name+": "+c.state.Error)
		case ledger.StatusIdle, ledger.StatusLoading:
			out = append(out, c.name+": "+string(c.state.Status))
		}
	}
	return out
}
