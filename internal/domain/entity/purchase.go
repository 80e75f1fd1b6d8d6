package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una entrada de stock: mercadería adquirida a un costo con un precio de reventa previsto.
// CategoryName es copia del nombre de la categoría al momento de registrar (no se reescribe al renombrar).
// CostPerItem se deriva una sola vez al crear (TotalCost / Quantity) y no se recalcula.
type Purchase struct {
	ID                  string
	Date                time.Time // día calendario, 00:00 UTC
	CategoryID          string
	CategoryName        string
	Quantity            int
	TotalCost           decimal.Decimal
	CostPerItem         decimal.Decimal
	SellingPricePerItem decimal.Decimal
	Supplier            string
	CreatedAt           time.Time
}

// UnitCost devuelve TotalCost / Quantity, o 0 si Quantity no es positiva.
func UnitCost(totalCost decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(int64(quantity)))
}
