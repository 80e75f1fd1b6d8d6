// Package memory implementa los repositorios del ledger en memoria (LEDGER_STORE=memory).
// Los datos se pierden al reiniciar el proceso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
)

// table colección en orden de inserción; List la devuelve invertida (más nueva primero).
type table[T any] struct {
	mu    sync.RWMutex
	rows  []T
	keyOf func(T) string
}

func (t *table[T]) insert(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, v)
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.rows {
		if t.keyOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for i := len(t.rows) - 1; i >= 0; i-- {
		out = append(out, t.rows[i])
	}
	return out
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rows {
		if t.keyOf(r) == id {
			t.rows = append(t.rows[:i:i], t.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Categorías ──

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ t table[entity.Category] }

// NewCategoryRepository construye el repositorio vacío.
func NewCategoryRepository() *CategoryRepo {
	return &CategoryRepo{t: table[entity.Category]{keyOf: func(c entity.Category) string { return c.ID }}}
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.t.insert(*c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) List(context.Context) ([]entity.Category, error) { return r.t.list(), nil }

func (r *CategoryRepo) Delete(_ context.Context, id string) error { return r.t.delete(id) }

// ── Compras ──

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ t table[entity.Purchase] }

// NewPurchaseRepository construye el repositorio vacío.
func NewPurchaseRepository() *PurchaseRepo {
	return &PurchaseRepo{t: table[entity.Purchase]{keyOf: func(p entity.Purchase) string { return p.ID }}}
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.t.insert(*p)
	return nil
}

func (r *PurchaseRepo) List(context.Context) ([]entity.Purchase, error) { return r.t.list(), nil }

func (r *PurchaseRepo) Delete(_ context.Context, id string) error { return r.t.delete(id) }

// ── Ventas ──

// SaleRepo ventas en memoria.
type SaleRepo struct{ t table[entity.Sale] }

// NewSaleRepository construye el repositorio vacío.
func NewSaleRepository() *SaleRepo {
	return &SaleRepo{t: table[entity.Sale]{keyOf: func(s entity.Sale) string { return s.ID }}}
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.t.insert(*s)
	return nil
}

func (r *SaleRepo) List(context.Context) ([]entity.Sale, error) { return r.t.list(), nil }

func (r *SaleRepo) Delete(_ context.Context, id string) error { return r.t.delete(id) }
