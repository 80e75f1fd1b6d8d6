package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una salida de stock vendida a un precio realizado.
// TotalAmount se deriva una sola vez al crear (Quantity × SellingPricePerItem).
type Sale struct {
	ID                  string
	Date                time.Time // día calendario, 00:00 UTC
	CategoryID          string
	CategoryName        string
	Quantity            int
	SellingPricePerItem decimal.Decimal
	TotalAmount         decimal.Decimal
	CreatedAt           time.Time
}

// LineTotal devuelve Quantity × price.
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
