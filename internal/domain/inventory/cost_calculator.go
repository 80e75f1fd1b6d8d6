package inventory

import "github.com/shopspring/decimal"

// AverageCost implementa el costo promedio simple por unidad (servicio de dominio).
// CostoPromedio = CostoTotalComprado / CantidadComprada; 0 si no hay cantidad comprada.
func AverageCost(totalCost decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(int64(quantity)))
}

// Mean promedio aritmético de sum sobre n elementos; 0 si n es 0.
func Mean(sum decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}
