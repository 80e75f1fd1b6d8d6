package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/dto"
)

func TestPurchaseDTO_NormalizesMongoShape(t *testing.T) {
	body := `{
		"_id": "665f1",
		"date": "2025-03-02T00:00:00.000Z",
		"categoryId": {"_id": "c-1", "name": "Jeans"},
		"quantity": "150",
		"totalCost": "40000",
		"sellingPricePerItem": 500,
		"supplier": "Bale Lanka"
	}`

	var p dto.PurchaseDTO
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "665f1", p.ID)
	assert.Equal(t, "2025-03-02", p.Date)
	assert.Equal(t, "c-1", p.CategoryID)
	assert.Equal(t, "Jeans", p.CategoryName, "sin categoryName se usa el nombre del objeto embebido")
	assert.Equal(t, 150, p.Quantity)
	assert.True(t, p.TotalCost.Equal(decimal.NewFromInt(40000)))
	assert.True(t, p.SellingPricePerItem.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "266.67", p.CostPerItem.StringFixed(2), "costPerItem ausente se deriva de totalCost/quantity")
	assert.Equal(t, "Bale Lanka", p.Supplier)
}

func TestPurchaseDTO_PlainShapeKeepsServerFields(t *testing.T) {
	body := `{"id":"p1","date":"2025-03-02","categoryId":"c-1","categoryName":"Denim",
		"quantity":10,"totalCost":100,"costPerItem":9.5,"sellingPricePerItem":15}`

	var p dto.PurchaseDTO
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "c-1", p.CategoryID)
	assert.Equal(t, "Denim", p.CategoryName)
	assert.True(t, p.CostPerItem.Equal(decimal.RequireFromString("9.5")), "el valor del servidor no se recalcula")
}

func TestPurchaseDTO_ZeroQuantityFallbackIsZero(t *testing.T) {
	var p dto.PurchaseDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p","date":"2025-01-01","categoryId":"c","quantity":0,"totalCost":50}`), &p))
	assert.True(t, p.CostPerItem.IsZero())
}

func TestSaleDTO_TotalAmountFallback(t *testing.T) {
	var s dto.SaleDTO
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"s1","date":"2025-03-10","categoryId":{"id":"c-1"},"quantity":20,"sellingPricePerItem":"550"}`), &s))

	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "c-1", s.CategoryID)
	assert.Empty(t, s.CategoryName)
	assert.True(t, s.TotalAmount.Equal(decimal.NewFromInt(11000)))

	entity, err := s.ToEntity()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), entity.Date)
}

func TestSaleDTO_InvalidDateFailsOnMapping(t *testing.T) {
	var s dto.SaleDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","date":"ayer","categoryId":"c","quantity":1,"sellingPricePerItem":1}`), &s))
	_, err := s.ToEntity()
	assert.Error(t, err)
}

func TestPurchaseDTO_QuantityMustBeWhole(t *testing.T) {
	var p dto.PurchaseDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","date":"2025-03-02","categoryId":"c","quantity":"5.0","totalCost":50}`), &p))
	_, err := p.ToEntity()
	require.NoError(t, err, "5.0 es un entero")
	assert.Equal(t, 5, p.Quantity)

	for _, qty := range []string{`2.5`, `"2.5"`, `"diez"`, `true`} {
		var bad dto.PurchaseDTO
		require.NoError(t, json.Unmarshal([]byte(`{"id":"p2","date":"2025-03-02","categoryId":"c","quantity":`+qty+`,"totalCost":50}`), &bad),
			"una cantidad mala no corta la decodificación: %s", qty)
		_, err := bad.ToEntity()
		assert.Error(t, err, "cantidad %s", qty)
	}
}

func TestSaleDTO_FractionalQuantityFailsOnMapping(t *testing.T) {
	var s dto.SaleDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","date":"2025-03-10","categoryId":"c","quantity":2.5,"sellingPricePerItem":1}`), &s))
	_, err := s.ToEntity()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cantidad no entera 2.5")
}

func TestCategoryDTO_IDAndCreatedAt(t *testing.T) {
	var c dto.CategoryDTO
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c9","name":"T-Shirt"}`), &c))
	assert.Equal(t, "c9", c.ID)

	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now, c.ToEntity(now).CreatedAt, "sin createdAt se usa el instante de lectura")

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c9","name":"T-Shirt","createdAt":"2024-11-02T08:30:00Z"}`), &c))
	assert.Equal(t, 2024, c.ToEntity(now).CreatedAt.Year())
}

func TestCreatePurchaseRequest_MoneyAsJSONNumbers(t *testing.T) {
	req := dto.CreatePurchaseRequest{
		Date:                "2025-03-02",
		CategoryID:          "c-1",
		CategoryName:        "Jeans",
		Quantity:            3,
		TotalCost:           decimal.RequireFromString("1500.50"),
		SellingPricePerItem: decimal.NewFromInt(700),
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, 1500.5, generic["totalCost"])
	assert.Equal(t, float64(700), generic["sellingPricePerItem"])
	assert.NotContains(t, generic, "supplier")

	var back dto.CreatePurchaseRequest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.TotalCost.Equal(req.TotalCost))
}

func TestNewListResponse_NeverNull(t *testing.T) {
	raw, err := json.Marshal(dto.NewListResponse[dto.SaleDTO](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(raw))
}
