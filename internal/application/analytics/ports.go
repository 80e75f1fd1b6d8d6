package analytics

import (
	"context"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

// LedgerSource lectura del ledger.Store que necesitan los reportes.
type LedgerSource interface {
	EnsureLoaded(ctx context.Context) error
	Snapshot() inventory.Snapshot
	State() ledger.State
}

var _ LedgerSource = (*ledger.Store)(nil)

// StockObserver recibe el stock restante por categoría al armar el inventario (métricas).
type StockObserver interface {
	SetStock(category string, remaining int)
}

// AnalysisRenderer genera el documento imprimible del análisis mensual (infrastructure/pdf).
type AnalysisRenderer interface {
	GenerateAnalysisPDF(ctx context.Context, report *dto.AnalysisReportDTO) ([]byte, error)
}
