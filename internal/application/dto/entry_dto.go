package dto

import "github.com/shopspring/decimal"

// PurchaseEntry body para POST /api/purchases del POS. Date vacío = hoy.
// CategoryName no se acepta: se copia del nombre actual de la categoría.
// Los importes son NullDecimal para distinguir un campo ausente de un 0 explícito.
type PurchaseEntry struct {
	Date                string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID          string              `json:"categoryId" validate:"required"`
	Quantity            int                 `json:"quantity" validate:"gt=0"`
	TotalCost           decimal.NullDecimal `json:"totalCost" validate:"required,min=0"`
	SellingPricePerItem decimal.NullDecimal `json:"sellingPricePerItem" validate:"required,min=0"`
	Supplier            string              `json:"supplier,omitempty" validate:"max=120"`
}

// SaleEntry body para POST /api/sales del POS. Date vacío = hoy.
type SaleEntry struct {
	Date                string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID          string              `json:"categoryId" validate:"required"`
	Quantity            int                 `json:"quantity" validate:"gt=0"`
	SellingPricePerItem decimal.NullDecimal `json:"sellingPricePerItem" validate:"required,min=0"`
}

// CategoryEntry body para POST /api/categories del POS.
type CategoryEntry struct {
	Name string `json:"name" validate:"required,max=80"`
}

// StockCheckDTO respuesta de GET /api/inventory/stock/:categoryId.
type StockCheckDTO struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name,omitempty"`
	Known      bool   `json:"known"`
	Stock      int    `json:"stock"`
	Requested  int    `json:"requested,omitempty"`
	Available  bool   `json:"available"`
}
