package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CategoryPerformance resultado de una categoría dentro de un período.
type CategoryPerformance struct {
	CategoryID   string
	Name         string
	Revenue      decimal.Decimal
	Cost         decimal.Decimal
	Profit       decimal.Decimal
	QuantitySold int
}

// Active indica si la categoría tuvo movimiento en el período (ventas o compras con costo).
func (c CategoryPerformance) Active() bool {
	return c.QuantitySold > 0 || c.Cost.GreaterThan(decimal.Zero)
}

// Summary resultado de un mes calendario.
//
// Breakdown incluye todas las categorías conocidas, también las de valores en cero, para que
// los totales por categoría estén completos. Best es la de mayor ganancia (la primera en caso
// de empate) y es nil solo si no hay categorías.
type Summary struct {
	Period        Period
	Income        decimal.Decimal
	Outcome       decimal.Decimal
	Profit        decimal.Decimal
	SalesCount    int
	PurchaseCount int
	Breakdown     []CategoryPerformance
	Best          *CategoryPerformance
}

// PeriodSummary filtra compras y ventas por la fecha propia de cada registro y agrega
// ingresos (Σ TotalAmount), egresos (Σ TotalCost) y ganancia (ingresos − egresos).
func (s Snapshot) PeriodSummary(p Period) Summary {
	out := Summary{Period: p}

	byCategory := make(map[string]*CategoryPerformance, len(s.Categories))
	breakdown := make([]CategoryPerformance, len(s.Categories))
	for i, c := range s.Categories {
		breakdown[i] = CategoryPerformance{CategoryID: c.ID, Name: c.Name}
		if _, dup := byCategory[c.ID]; !dup {
			byCategory[c.ID] = &breakdown[i]
		}
	}

	for _, sale := range s.Sales {
		if !p.Contains(sale.Date) {
			continue
		}
		out.SalesCount++
		out.Income = out.Income.Add(sale.TotalAmount)
		if perf, ok := byCategory[sale.CategoryID]; ok {
			perf.Revenue = perf.Revenue.Add(sale.TotalAmount)
			perf.QuantitySold += sale.Quantity
		}
	}
	for _, purchase := range s.Purchases {
		if !p.Contains(purchase.Date) {
			continue
		}
		out.PurchaseCount++
		out.Outcome = out.Outcome.Add(purchase.TotalCost)
		if perf, ok := byCategory[purchase.CategoryID]; ok {
			perf.Cost = perf.Cost.Add(purchase.TotalCost)
		}
	}
	out.Profit = out.Income.Sub(out.Outcome)

	for i := range breakdown {
		breakdown[i].Profit = breakdown[i].Revenue.Sub(breakdown[i].Cost)
	}
	if len(breakdown) > 0 {
		best := breakdown[0]
		for _, perf := range breakdown[1:] {
			if perf.Profit.GreaterThan(best.Profit) {
				best = perf
			}
		}
		out.Best = &best
	}
	out.Breakdown = breakdown
	return out
}

// ActiveBreakdown categorías con movimiento en el período, en el orden del desglose.
func (s Summary) ActiveBreakdown() []CategoryPerformance {
	out := make([]CategoryPerformance, 0, len(s.Breakdown))
	for _, perf := range s.Breakdown {
		if perf.Active() {
			out = append(out, perf)
		}
	}
	return out
}

// MarginPct ganancia sobre egresos en porcentaje; 0 si no hubo egresos.
func (s Summary) MarginPct() decimal.Decimal {
	if !s.Outcome.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return s.Profit.Div(s.Outcome).Mul(hundred)
}

// AverageSaleValue ingreso promedio por venta; 0 si no hubo ventas.
func (s Summary) AverageSaleValue() decimal.Decimal {
	return Mean(s.Income, s.SalesCount)
}

// IsEmpty indica que el período no tiene compras ni ventas.
func (s Summary) IsEmpty() bool {
	return s.SalesCount == 0 && s.PurchaseCount == 0
}

// ProfitShare porcentaje |ganancia de la categoría / ingresos del período| acotado a 100;
// 0 si no hubo ingresos.
func (s Summary) ProfitShare(perf CategoryPerformance) decimal.Decimal {
	if s.Income.IsZero() {
		return decimal.Zero
	}
	share := perf.Profit.Div(s.Income).Mul(hundred).Abs()
	if share.GreaterThan(hundred) {
		return hundred
	}
	return share
}
