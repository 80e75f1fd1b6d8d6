// Package analytics arma las vistas de reporte del POS: inventario, análisis mensual
// y tablero. Todo se recalcula desde el Snapshot del ledger en cada llamada.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

const dashboardRecent = 3 // compras y ventas recientes en el tablero

// DashboardUseCase genera el resumen histórico del tablero.
type DashboardUseCase struct {
	source LedgerSource
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(source LedgerSource) *DashboardUseCase {
	return &DashboardUseCase{source: source, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// Summary construye el DashboardSummaryDTO.
//
// Los acumulados de compras y ventas cubren todos los registros, incluidos los de categorías
// eliminadas; el stock total solo las categorías conocidas.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	complete, warnings, err := ensureLoaded(ctx, uc.source)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	snap := uc.source.Snapshot()
	totals := snap.Totals()

	recentPurchases := make([]dto.PurchaseDTO, 0, dashboardRecent)
	for _, p := range snap.RecentPurchases(dashboardRecent) {
		recentPurchases = append(recentPurchases, dto.PurchaseFromEntity(p))
	}
	recentSales := make([]dto.SaleDTO, 0, dashboardRecent)
	for _, s := range snap.RecentSales(dashboardRecent) {
		recentSales = append(recentSales, dto.SaleFromEntity(s))
	}

	return &dto.DashboardSummaryDTO{
		TotalSales:      totals.SalesValue.Round(2),
		TotalPurchases:  totals.PurchaseValue.Round(2),
		Profit:          totals.Profit.Round(2),
		ProfitLabel:     profitLabel(totals.Profit),
		SalesCount:      len(snap.Sales),
		PurchaseCount:   len(snap.Purchases),
		CategoryCount:   len(snap.Categories),
		TotalStock:      totals.Stock,
		RecentPurchases: recentPurchases,
		RecentSales:     recentSales,
		Complete:        complete,
		Warnings:        warnings,
		DateLabel:       inventory.PeriodOf(uc.now()).Label(),
	}, nil
}
