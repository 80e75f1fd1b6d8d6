// Package repository define los puertos de persistencia del servicio de ledger.
package repository

import (
	"context"

	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// CategoryRepository persistencia de categorías.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// List ordena por creación, más nueva primero.
	List(ctx context.Context) ([]entity.Category, error)
	// Delete devuelve domain.ErrNotFound si el id no existe.
	Delete(ctx context.Context, id string) error
}

// PurchaseRepository persistencia de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	List(ctx context.Context) ([]entity.Purchase, error)
	Delete(ctx context.Context, id string) error
}

// SaleRepository persistencia de ventas.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	List(ctx context.Context) ([]entity.Sale, error)
	Delete(ctx context.Context, id string) error
}
