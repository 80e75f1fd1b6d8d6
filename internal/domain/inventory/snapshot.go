// Package inventory contiene el motor de conciliación: funciones puras que, a partir de
// las colecciones de categorías, compras y ventas, derivan stock, valorización y
// resultados por período.
//
// El motor no guarda estado ni muta sus entradas: cada llamada recalcula desde el
// Snapshot recibido. No devuelve errores; toda división está protegida contra cero y
// los identificadores desconocidos producen valores en cero.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// Snapshot vista inmutable de las tres colecciones del ledger en un instante.
// El orden de las colecciones solo importa para las vistas de "recientes" (más nuevo primero).
type Snapshot struct {
	Categories []entity.Category
	Purchases  []entity.Purchase
	Sales      []entity.Sale
}

// Valuation valorización del stock restante de una categoría.
//
// AvgSellingPrice es el promedio del precio de venta previsto en las compras (no el
// realizado en ventas); AvgRealizedPrice se expone aparte y no participa en SellingValue.
// Con stock negativo CostValue y SellingValue son negativos (se reporta la "deuda").
type Valuation struct {
	CostValue        decimal.Decimal
	SellingValue     decimal.Decimal
	AvgCostPerItem   decimal.Decimal
	AvgSellingPrice  decimal.Decimal
	AvgRealizedPrice decimal.Decimal
}

// CategoryStock fila de inventario por categoría.
type CategoryStock struct {
	CategoryID     string
	Name           string
	TotalPurchased int
	TotalSold      int
	Remaining      int
	Valuation      Valuation
	Status         StockStatus
}

// Totals acumulados globales. PurchaseValue, SalesValue y Profit cubren todos los registros
// (incluidos los huérfanos de categorías eliminadas); Stock, CostValue y SellingValue solo
// las categorías conocidas.
type Totals struct {
	PurchaseValue decimal.Decimal
	SalesValue    decimal.Decimal
	Profit        decimal.Decimal
	Stock         int
	CostValue     decimal.Decimal
	SellingValue  decimal.Decimal
}

// categoryTotals acumulado de una categoría en una pasada.
type categoryTotals struct {
	purchased     int
	sold          int
	purchaseCount int
	saleCount     int
	totalCost     decimal.Decimal
	intendedSum   decimal.Decimal
	realizedSum   decimal.Decimal
}

func (t categoryTotals) valuation() Valuation {
	stock := decimal.NewFromInt(int64(t.purchased - t.sold))
	avgCost := AverageCost(t.totalCost, t.purchased)
	avgSelling := Mean(t.intendedSum, t.purchaseCount)
	return Valuation{
		CostValue:        stock.Mul(avgCost),
		SellingValue:     stock.Mul(avgSelling),
		AvgCostPerItem:   avgCost,
		AvgSellingPrice:  avgSelling,
		AvgRealizedPrice: Mean(t.realizedSum, t.saleCount),
	}
}

// totalsFor reduce ambas colecciones para una sola categoría.
func (s Snapshot) totalsFor(categoryID string) categoryTotals {
	var t categoryTotals
	for _, p := range s.Purchases {
		if p.CategoryID != categoryID {
			continue
		}
		t.add(p)
	}
	for _, sale := range s.Sales {
		if sale.CategoryID != categoryID {
			continue
		}
		t.addSale(sale)
	}
	return t
}

// totalsByCategory reduce ambas colecciones agrupando por categoría en una sola pasada.
func (s Snapshot) totalsByCategory() map[string]*categoryTotals {
	out := make(map[string]*categoryTotals, len(s.Categories))
	get := func(id string) *categoryTotals {
		t, ok := out[id]
		if !ok {
			t = &categoryTotals{}
			out[id] = t
		}
		return t
	}
	for _, p := range s.Purchases {
		get(p.CategoryID).add(p)
	}
	for _, sale := range s.Sales {
		get(sale.CategoryID).addSale(sale)
	}
	return out
}

func (t *categoryTotals) add(p entity.Purchase) {
	t.purchased += p.Quantity
	t.purchaseCount++
	t.totalCost = t.totalCost.Add(p.TotalCost)
	t.intendedSum = t.intendedSum.Add(p.SellingPricePerItem)
}

func (t *categoryTotals) addSale(s entity.Sale) {
	t.sold += s.Quantity
	t.saleCount++
	t.realizedSum = t.realizedSum.Add(s.SellingPricePerItem)
}

// TotalPurchased suma de cantidades compradas de la categoría, sin filtro de fecha.
func (s Snapshot) TotalPurchased(categoryID string) int {
	total := 0
	for _, p := range s.Purchases {
		if p.CategoryID == categoryID {
			total += p.Quantity
		}
	}
	return total
}

// TotalSold suma de cantidades vendidas de la categoría, sin filtro de fecha.
func (s Snapshot) TotalSold(categoryID string) int {
	total := 0
	for _, sale := range s.Sales {
		if sale.CategoryID == categoryID {
			total += sale.Quantity
		}
	}
	return total
}

// StockLevel stock actual = comprado − vendido. Puede ser negativo si se sobrevendió;
// el llamador debe tratarlo como alerta, no recortarlo.
func (s Snapshot) StockLevel(categoryID string) int {
	return s.TotalPurchased(categoryID) - s.TotalSold(categoryID)
}

// AvailableStockCheck indica si requested ≤ StockLevel. No es atómico con el registro
// posterior de la venta.
func (s Snapshot) AvailableStockCheck(categoryID string, requested int) bool {
	return requested <= s.StockLevel(categoryID)
}

// Valuation valoriza el stock restante de la categoría.
func (s Snapshot) Valuation(categoryID string) Valuation {
	return s.totalsFor(categoryID).valuation()
}

// CategoryName devuelve el nombre actual de la categoría (join por ID).
func (s Snapshot) CategoryName(categoryID string) (string, bool) {
	for _, c := range s.Categories {
		if c.ID == categoryID {
			return c.Name, true
		}
	}
	return "", false
}

// Category busca una categoría conocida por ID.
func (s Snapshot) Category(categoryID string) (entity.Category, bool) {
	for _, c := range s.Categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return entity.Category{}, false
}

// Stocks devuelve una fila por categoría conocida, en el orden de Categories.
func (s Snapshot) Stocks() []CategoryStock {
	byCategory := s.totalsByCategory()
	out := make([]CategoryStock, 0, len(s.Categories))
	for _, c := range s.Categories {
		var t categoryTotals
		if agg, ok := byCategory[c.ID]; ok {
			t = *agg
		}
		remaining := t.purchased - t.sold
		out = append(out, CategoryStock{
			CategoryID:     c.ID,
			Name:           c.Name,
			TotalPurchased: t.purchased,
			TotalSold:      t.sold,
			Remaining:      remaining,
			Valuation:      t.valuation(),
			Status:         Classify(remaining, t.purchased),
		})
	}
	return out
}

// Totals acumulados globales para el tablero.
func (s Snapshot) Totals() Totals {
	var out Totals
	for _, p := range s.Purchases {
		out.PurchaseValue = out.PurchaseValue.Add(p.TotalCost)
	}
	for _, sale := range s.Sales {
		out.SalesValue = out.SalesValue.Add(sale.TotalAmount)
	}
	out.Profit = out.SalesValue.Sub(out.PurchaseValue)
	for _, row := range s.Stocks() {
		out.Stock += row.Remaining
		out.CostValue = out.CostValue.Add(row.Valuation.CostValue)
		out.SellingValue = out.SellingValue.Add(row.Valuation.SellingValue)
	}
	return out
}

// RecentPurchases devuelve hasta n compras más recientes (orden de llegada, más nuevo primero).
func (s Snapshot) RecentPurchases(n int) []entity.Purchase {
	if n > len(s.Purchases) {
		n = len(s.Purchases)
	}
	if n <= 0 {
		return []entity.Purchase{}
	}
	out := make([]entity.Purchase, n)
	copy(out, s.Purchases[:n])
	return out
}

// RecentSales devuelve hasta n ventas más recientes (orden de llegada, más nuevo primero).
func (s Snapshot) RecentSales(n int) []entity.Sale {
	if n > len(s.Sales) {
		n = len(s.Sales)
	}
	if n <= 0 {
		return []entity.Sale{}
	}
	out := make([]entity.Sale, n)
	copy(out, s.Sales[:n])
	return out
}
