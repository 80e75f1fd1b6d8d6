package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/validation"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/repository"
)

// ── Compras ──

// PurchaseUseCase alta, listado y baja de compras. costPerItem se deriva al crear.
type PurchaseUseCase struct {
	repo       repository.PurchaseRepository
	categories repository.CategoryRepository
	ids
}

// NewPurchaseUseCase construye el caso de uso. categories se usa solo para completar
// categoryName cuando el cliente no lo envía.
func NewPurchaseUseCase(repo repository.PurchaseRepository, categories repository.CategoryRepository, opts ...Option) *PurchaseUseCase {
	return &PurchaseUseCase{repo: repo, categories: categories, ids: buildIDs(opts)}
}

// Create registra la compra. No valida que la categoría exista.
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseDTO, error) {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(in.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "datetime")
	}
	name, err := categoryName(ctx, uc.categories, in.CategoryID, in.CategoryName)
	if err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ID:                  uc.newID(),
		Date:                date,
		CategoryID:          in.CategoryID,
		CategoryName:        name,
		Quantity:            in.Quantity,
		TotalCost:           in.TotalCost,
		CostPerItem:         entity.UnitCost(in.TotalCost, in.Quantity),
		SellingPricePerItem: in.SellingPricePerItem,
		Supplier:            strings.TrimSpace(in.Supplier),
		CreatedAt:           uc.now(),
	}
	if err := uc.repo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	out := dto.PurchaseFromEntity(*purchase)
	return &out, nil
}

// List devuelve las compras, la más nueva primero.
func (uc *PurchaseUseCase) List(ctx context.Context) ([]dto.PurchaseDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PurchaseFromEntity(p))
	}
	return out, nil
}

// Delete elimina la compra.
func (uc *PurchaseUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.repo.Delete(ctx, id)
}

// ── Ventas ──

// SaleUseCase alta, listado y baja de ventas. totalAmount se deriva al crear; el servicio
// no controla stock (última escritura gana).
type SaleUseCase struct {
	repo       repository.SaleRepository
	categories repository.CategoryRepository
	ids
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(repo repository.SaleRepository, categories repository.CategoryRepository, opts ...Option) *SaleUseCase {
	return &SaleUseCase{repo: repo, categories: categories, ids: buildIDs(opts)}
}

// Create registra la venta.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleDTO, error) {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(in.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "datetime")
	}
	name, err := categoryName(ctx, uc.categories, in.CategoryID, in.CategoryName)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:                  uc.newID(),
		Date:                date,
		CategoryID:          in.CategoryID,
		CategoryName:        name,
		Quantity:            in.Quantity,
		SellingPricePerItem: in.SellingPricePerItem,
		TotalAmount:         entity.LineTotal(in.Quantity, in.SellingPricePerItem),
		CreatedAt:           uc.now(),
	}
	if err := uc.repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	out := dto.SaleFromEntity(*sale)
	return &out, nil
}

// List devuelve las ventas, la más nueva primero.
func (uc *SaleUseCase) List(ctx context.Context) ([]dto.SaleDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SaleFromEntity(s))
	}
	return out, nil
}

// Delete elimina la venta.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.repo.Delete(ctx, id)
}

// categoryName devuelve given si viene informado; si no, el nombre actual de la categoría
// (vacío si no existe).
func categoryName(ctx context.Context, repo repository.CategoryRepository, id, given string) (string, error) {
	if given = strings.TrimSpace(given); given != "" || repo == nil {
		return given, nil
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.Name, nil
}
