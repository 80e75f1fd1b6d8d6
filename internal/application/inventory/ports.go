package inventory

import (
	"context"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

var _ LedgerStore = (*ledger.Store)(nil)

// LedgerStore lo que la captura de transacciones necesita del ledger.Store.
type LedgerStore interface {
	EnsureLoaded(ctx context.Context) error
	Snapshot() inventory.Snapshot
	State() ledger.State

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (entity.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (entity.Sale, error)
	DeleteSale(ctx context.Context, id string) error
}
