package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/validation"
	"github.com/jhoicas/pos-bale/internal/domain"
)

func TestStruct_ValidPurchase(t *testing.T) {
	req := dto.CreatePurchaseRequest{
		Date:                "2025-03-02",
		CategoryID:          "c-1",
		Quantity:            1,
		TotalCost:           decimal.Zero,
		SellingPricePerItem: decimal.NewFromInt(10),
	}
	assert.NoError(t, validation.Struct(req))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	req := dto.CreatePurchaseRequest{
		Date:                "02/03/2025",
		Quantity:            0,
		TotalCost:           decimal.NewFromInt(-1),
		SellingPricePerItem: decimal.NewFromInt(5),
	}
	err := validation.Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"date":       "datetime",
		"categoryId": "required",
		"quantity":   "gt",
		"totalCost":  "min",
	}, verr.Fields)
}

func TestStruct_CategoryName(t *testing.T) {
	err := validation.Struct(dto.CreateCategoryRequest{})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["name"])
}

func TestStruct_NullDecimalPresence(t *testing.T) {
	missing := dto.SaleEntry{CategoryID: "c-1", Quantity: 1}
	var verr *domain.ValidationError
	require.True(t, errors.As(validation.Struct(missing), &verr))
	assert.Equal(t, map[string]string{"sellingPricePerItem": "required"}, verr.Fields)

	zero := dto.SaleEntry{CategoryID: "c-1", Quantity: 1, SellingPricePerItem: decimal.NewNullDecimal(decimal.Zero)}
	assert.NoError(t, validation.Struct(zero), "un 0 explícito es un precio válido")

	negative := dto.SaleEntry{CategoryID: "c-1", Quantity: 1, SellingPricePerItem: decimal.NewNullDecimal(decimal.NewFromInt(-1))}
	require.True(t, errors.As(validation.Struct(negative), &verr))
	assert.Equal(t, "min", verr.Fields["sellingPricePerItem"])
}
