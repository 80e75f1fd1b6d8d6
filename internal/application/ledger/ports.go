package ledger

import (
	"context"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// Remote puerto hacia el servicio de persistencia del ledger (contrato HTTP /categories, /purchases, /sales).
// Las implementaciones devuelven errores que cumplen errors.Is(err, domain.ErrRemote) cuando el servicio
// responde con un estado no exitoso o no responde.
type Remote interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListPurchases(ctx context.Context) ([]entity.Purchase, error)
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (entity.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error

	ListSales(ctx context.Context) ([]entity.Sale, error)
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (entity.Sale, error)
	DeleteSale(ctx context.Context, id string) error
}
