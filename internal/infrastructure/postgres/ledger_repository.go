package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
)

// ── Categorías ──

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	db Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(db Querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("id", "unique")
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID; nil, nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List devuelve todas las categorías, la más nueva primero.
func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := []entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina la categoría. Las transacciones que la referencian se conservan.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "categories", id)
}

// ── Compras ──

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	db Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras.
func NewPurchaseRepository(db Querier) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// Create persiste una compra con su costPerItem ya derivado.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, date, category_id, category_name, quantity, total_cost,
			cost_per_item, selling_price_per_item, supplier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Date, p.CategoryID, p.CategoryName, p.Quantity, p.TotalCost,
		p.CostPerItem, p.SellingPricePerItem, p.Supplier, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("id", "unique")
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// List devuelve todas las compras, la más nueva primero.
func (r *PurchaseRepo) List(ctx context.Context) ([]entity.Purchase, error) {
	query := `
		SELECT id, date, category_id, category_name, quantity, total_cost,
			cost_per_item, selling_price_per_item, supplier, created_at
		FROM purchases ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	list := []entity.Purchase{}
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.Date, &p.CategoryID, &p.CategoryName, &p.Quantity, &p.TotalCost,
			&p.CostPerItem, &p.SellingPricePerItem, &p.Supplier, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Date = entity.CalendarDate(p.Date)
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina la compra por ID.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "purchases", id)
}

// ── Ventas ──

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	db Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(db Querier) *SaleRepo {
	return &SaleRepo{db: db}
}

// Create persiste una venta con su totalAmount ya derivado.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, date, category_id, category_name, quantity,
			selling_price_per_item, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.Date, s.CategoryID, s.CategoryName, s.Quantity,
		s.SellingPricePerItem, s.TotalAmount, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("id", "unique")
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List devuelve todas las ventas, la más nueva primero.
func (r *SaleRepo) List(ctx context.Context) ([]entity.Sale, error) {
	query := `
		SELECT id, date, category_id, category_name, quantity,
			selling_price_per_item, total_amount, created_at
		FROM sales ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	list := []entity.Sale{}
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Date, &s.CategoryID, &s.CategoryName, &s.Quantity,
			&s.SellingPricePerItem, &s.TotalAmount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Date = entity.CalendarDate(s.Date)
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina la venta por ID.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "sales", id)
}

// deleteByID table es siempre una constante del paquete, nunca entrada del usuario.
func deleteByID(ctx context.Context, db Querier, table, id string) error {
	cmd, err := db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}
	return nil
}
