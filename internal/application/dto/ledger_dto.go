package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Registros del ledger remoto (GET /categories, /purchases, /sales)
// ──────────────────────────────────────────────────────────────────────────────

// CategoryDTO categoría tal como viaja en el contrato del ledger.
type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PurchaseDTO compra tal como viaja en el contrato del ledger.
type PurchaseDTO struct {
	ID                  string          `json:"id"`
	Date                string          `json:"date"`
	CategoryID          string          `json:"categoryId"`
	CategoryName        string          `json:"categoryName"`
	Quantity            int             `json:"quantity"`
	TotalCost           decimal.Decimal `json:"totalCost"`
	CostPerItem         decimal.Decimal `json:"costPerItem"`
	SellingPricePerItem decimal.Decimal `json:"sellingPricePerItem"`
	Supplier            string          `json:"supplier,omitempty"`
	CreatedAt           *time.Time      `json:"createdAt,omitempty"`

	invalid error // registro remoto mal formado; ToEntity lo rechaza
}

// SaleDTO venta tal como viaja en el contrato del ledger.
type SaleDTO struct {
	ID                  string          `json:"id"`
	Date                string          `json:"date"`
	CategoryID          string          `json:"categoryId"`
	CategoryName        string          `json:"categoryName"`
	Quantity            int             `json:"quantity"`
	SellingPricePerItem decimal.Decimal `json:"sellingPricePerItem"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	CreatedAt           *time.Time      `json:"createdAt,omitempty"`

	invalid error // registro remoto mal formado; ToEntity lo rechaza
}

// ── Normalización de la respuesta remota ──
//
// El servicio remoto puede devolver el identificador como "_id" o "id", la categoría
// de una transacción como string o como objeto embebido, y los números como números
// JSON o strings numéricos. Los campos derivados ausentes se recalculan.

type wireID struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
}

func (w wireID) value() string {
	if w.MongoID != "" {
		return w.MongoID
	}
	return w.ID
}

// categoryRef acepta "categoryId": "abc" o "categoryId": {"_id": "abc", "name": "Jeans"}.
type categoryRef struct {
	ID   string
	Name string
}

func (c *categoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &c.ID)
	case '{':
		var obj struct {
			wireID
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		c.ID, c.Name = obj.value(), obj.Name
		return nil
	default:
		c.ID = string(data)
		return nil
	}
}

// flexInt acepta 5, 5.0 o "5". Un valor no entero o ilegible no corta la decodificación
// de la lista: queda en err y el registro se descarta al mapearlo.
type flexInt struct {
	n   int
	err error
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var d decimal.NullDecimal
	if err := d.UnmarshalJSON(data); err != nil {
		f.err = fmt.Errorf("cantidad inválida %s: %w", data, err)
		return nil
	}
	if !d.Decimal.Equal(d.Decimal.Truncate(0)) {
		f.err = fmt.Errorf("cantidad no entera %s", d.Decimal)
		return nil
	}
	f.n = int(d.Decimal.IntPart())
	return nil
}

// wireDate normaliza cualquier fecha aceptada a "2006-01-02"; si no se reconoce se conserva tal cual.
func wireDate(s string) string {
	if t, err := entity.ParseDate(s); err == nil {
		return t.Format(entity.DateLayout)
	}
	return s
}

func wireTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func (c *CategoryDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		wireID
		Name      string `json:"name"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.value()
	c.Name = raw.Name
	c.CreatedAt = time.Time{}
	if t := wireTime(raw.CreatedAt); t != nil {
		c.CreatedAt = *t
	}
	return nil
}

func (p *PurchaseDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		wireID
		Date                string              `json:"date"`
		Category            categoryRef         `json:"categoryId"`
		CategoryName        string              `json:"categoryName"`
		Quantity            flexInt             `json:"quantity"`
		TotalCost           decimal.NullDecimal `json:"totalCost"`
		CostPerItem         decimal.NullDecimal `json:"costPerItem"`
		SellingPricePerItem decimal.NullDecimal `json:"sellingPricePerItem"`
		Supplier            string              `json:"supplier"`
		CreatedAt           string              `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PurchaseDTO{
		ID:                  raw.value(),
		Date:                wireDate(raw.Date),
		CategoryID:          raw.Category.ID,
		CategoryName:        firstNonEmpty(raw.CategoryName, raw.Category.Name),
		Quantity:            raw.Quantity.n,
		TotalCost:           raw.TotalCost.Decimal,
		SellingPricePerItem: raw.SellingPricePerItem.Decimal,
		Supplier:            raw.Supplier,
		CreatedAt:           wireTime(raw.CreatedAt),
		invalid:             raw.Quantity.err,
	}
	if raw.CostPerItem.Valid {
		p.CostPerItem = raw.CostPerItem.Decimal
	} else {
		p.CostPerItem = entity.UnitCost(p.TotalCost, p.Quantity)
	}
	return nil
}

func (s *SaleDTO) UnmarshalJSON(data []byte) error {
	var raw struct {
		wireID
		Date                string              `json:"date"`
		Category            categoryRef         `json:"categoryId"`
		CategoryName        string              `json:"categoryName"`
		Quantity            flexInt             `json:"quantity"`
		SellingPricePerItem decimal.NullDecimal `json:"sellingPricePerItem"`
		TotalAmount         decimal.NullDecimal `json:"totalAmount"`
		CreatedAt           string              `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SaleDTO{
		ID:                  raw.value(),
		Date:                wireDate(raw.Date),
		CategoryID:          raw.Category.ID,
		CategoryName:        firstNonEmpty(raw.CategoryName, raw.Category.Name),
		Quantity:            raw.Quantity.n,
		SellingPricePerItem: raw.SellingPricePerItem.Decimal,
		CreatedAt:           wireTime(raw.CreatedAt),
		invalid:             raw.Quantity.err,
	}
	if raw.TotalAmount.Valid {
		s.TotalAmount = raw.TotalAmount.Decimal
	} else {
		s.TotalAmount = entity.LineTotal(s.Quantity, s.SellingPricePerItem)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ── Mapeo DTO ↔ entidad ──

// ToEntity convierte la categoría remota; sin createdAt usa now.
func (c CategoryDTO) ToEntity(now time.Time) entity.Category {
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}
	return entity.Category{ID: c.ID, Name: c.Name, CreatedAt: created}
}

// ToEntity convierte la compra remota; la fecha debe ser un día calendario válido y la
// cantidad un entero.
func (p PurchaseDTO) ToEntity() (entity.Purchase, error) {
	if p.invalid != nil {
		return entity.Purchase{}, fmt.Errorf("compra %s: %w", p.ID, p.invalid)
	}
	date, err := entity.ParseDate(p.Date)
	if err != nil {
		return entity.Purchase{}, fmt.Errorf("compra %s: %w", p.ID, err)
	}
	out := entity.Purchase{
		ID:                  p.ID,
		Date:                date,
		CategoryID:          p.CategoryID,
		CategoryName:        p.CategoryName,
		Quantity:            p.Quantity,
		TotalCost:           p.TotalCost,
		CostPerItem:         p.CostPerItem,
		SellingPricePerItem: p.SellingPricePerItem,
		Supplier:            p.Supplier,
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	return out, nil
}

// ToEntity convierte la venta remota; la fecha debe ser un día calendario válido y la
// cantidad un entero.
func (s SaleDTO) ToEntity() (entity.Sale, error) {
	if s.invalid != nil {
		return entity.Sale{}, fmt.Errorf("venta %s: %w", s.ID, s.invalid)
	}
	date, err := entity.ParseDate(s.Date)
	if err != nil {
		return entity.Sale{}, fmt.Errorf("venta %s: %w", s.ID, err)
	}
	out := entity.Sale{
		ID:                  s.ID,
		Date:                date,
		CategoryID:          s.CategoryID,
		CategoryName:        s.CategoryName,
		Quantity:            s.Quantity,
		SellingPricePerItem: s.SellingPricePerItem,
		TotalAmount:         s.TotalAmount,
	}
	if s.CreatedAt != nil {
		out.CreatedAt = *s.CreatedAt
	}
	return out, nil
}

// CategoryFromEntity construye el DTO de salida.
func CategoryFromEntity(c entity.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// PurchaseFromEntity construye el DTO de salida.
func PurchaseFromEntity(p entity.Purchase) PurchaseDTO {
	out := PurchaseDTO{
		ID:                  p.ID,
		Date:                p.Date.Format(entity.DateLayout),
		CategoryID:          p.CategoryID,
		CategoryName:        p.CategoryName,
		Quantity:            p.Quantity,
		TotalCost:           p.TotalCost,
		CostPerItem:         p.CostPerItem,
		SellingPricePerItem: p.SellingPricePerItem,
		Supplier:            p.Supplier,
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

// SaleFromEntity construye el DTO de salida.
func SaleFromEntity(s entity.Sale) SaleDTO {
	out := SaleDTO{
		ID:                  s.ID,
		Date:                s.Date.Format(entity.DateLayout),
		CategoryID:          s.CategoryID,
		CategoryName:        s.CategoryName,
		Quantity:            s.Quantity,
		SellingPricePerItem: s.SellingPricePerItem,
		TotalAmount:         s.TotalAmount,
	}
	if !s.CreatedAt.IsZero() {
		created := s.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuerpos de creación (POST)
// ──────────────────────────────────────────────────────────────────────────────

// CreateCategoryRequest body para POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreatePurchaseRequest body para POST /purchases.
type CreatePurchaseRequest struct {
	Date                string          `json:"date" validate:"required,datetime=2006-01-02"`
	CategoryID          string          `json:"categoryId" validate:"required"`
	CategoryName        string          `json:"categoryName"`
	Quantity            int             `json:"quantity" validate:"gt=0"`
	TotalCost           decimal.Decimal `json:"totalCost" validate:"min=0"`
	SellingPricePerItem decimal.Decimal `json:"sellingPricePerItem" validate:"min=0"`
	Supplier            string          `json:"supplier,omitempty"`
}

// CreateSaleRequest body para POST /sales.
type CreateSaleRequest struct {
	Date                string          `json:"date" validate:"required,datetime=2006-01-02"`
	CategoryID          string          `json:"categoryId" validate:"required"`
	CategoryName        string          `json:"categoryName"`
	Quantity            int             `json:"quantity" validate:"gt=0"`
	SellingPricePerItem decimal.Decimal `json:"sellingPricePerItem" validate:"min=0"`
}

// Los importes viajan como números JSON, no como strings.

func (r CreatePurchaseRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date                string      `json:"date"`
		CategoryID          string      `json:"categoryId"`
		CategoryName        string      `json:"categoryName"`
		Quantity            int         `json:"quantity"`
		TotalCost           json.Number `json:"totalCost"`
		SellingPricePerItem json.Number `json:"sellingPricePerItem"`
		Supplier            string      `json:"supplier,omitempty"`
	}{
		Date:                r.Date,
		CategoryID:          r.CategoryID,
		CategoryName:        r.CategoryName,
		Quantity:            r.Quantity,
		TotalCost:           json.Number(r.TotalCost.String()),
		SellingPricePerItem: json.Number(r.SellingPricePerItem.String()),
		Supplier:            r.Supplier,
	})
}

func (r CreateSaleRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date                string      `json:"date"`
		CategoryID          string      `json:"categoryId"`
		CategoryName        string      `json:"categoryName"`
		Quantity            int         `json:"quantity"`
		SellingPricePerItem json.Number `json:"sellingPricePerItem"`
	}{
		Date:                r.Date,
		CategoryID:          r.CategoryID,
		CategoryName:        r.CategoryName,
		Quantity:            r.Quantity,
		SellingPricePerItem: json.Number(r.SellingPricePerItem.String()),
	})
}
