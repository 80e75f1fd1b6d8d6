package inventory

// LowStockThreshold cantidad restante a partir de la cual (inclusive) se avisa stock bajo.
const LowStockThreshold = 10

// StockStatus clasificación del stock restante de una categoría.
type StockStatus string

const (
	StatusHealthy        StockStatus = "healthy"         // restante > 10
	StatusLowStock       StockStatus = "low_stock"       // 1..10
	StatusOutOfStock     StockStatus = "out_of_stock"    // 0 habiendo comprado
	StatusNeverPurchased StockStatus = "never_purchased" // nunca se compró (no aplica)
	StatusOversold       StockStatus = "oversold"        // negativo: ventas por encima de compras
)

// Classify aplica la política fija de stock. Un restante negativo siempre es alerta,
// aunque no existan compras (ventas sobre una compra eliminada).
func Classify(remaining, totalPurchased int) StockStatus {
	switch {
	case remaining < 0:
		return StatusOversold
	case totalPurchased == 0:
		return StatusNeverPurchased
	case remaining > LowStockThreshold:
		return StatusHealthy
	case remaining > 0:
		return StatusLowStock
	default:
		return StatusOutOfStock
	}
}

// IsAlert indica si el estado requiere atención (stock bajo, agotado o sobrevendido).
func (s StockStatus) IsAlert() bool {
	return s == StatusLowStock || s == StatusOutOfStock || s == StatusOversold
}
