// Package inventory contiene la captura de transacciones del POS: valida la entrada,
// aplica el control de stock antes de vender y envía los registros por el ledger.Store.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/validation"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

// InsufficientStockError venta rechazada por falta de stock. errors.Is(err, domain.ErrInsufficientStock).
type InsufficientStockError struct {
	CategoryID string
	Available  int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", domain.ErrInsufficientStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == domain.ErrInsufficientStock }

// EntryUseCase registra categorías, compras y ventas.
//
// El control de stock y el alta de la venta son dos pasos separados: otra terminal puede
// vender entre ambos. No hay bloqueo; el ledger remoto acepta la última escritura.
type EntryUseCase struct {
	store LedgerStore
	now   func() time.Time
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(store LedgerStore) *EntryUseCase {
	return &EntryUseCase{store: store, now: time.Now}
}

// WithClock reemplaza el reloj que define "hoy" (tests).
func (uc *EntryUseCase) WithClock(now func() time.Time) *EntryUseCase {
	uc.now = now
	return uc
}

// ── Categorías ──

// RegisterCategory crea una categoría. El nombre se recorta; la unicidad no se impone.
func (uc *EntryUseCase) RegisterCategory(ctx context.Context, in dto.CategoryEntry) (entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return entity.Category{}, err
	}
	return uc.store.CreateCategory(ctx, dto.CreateCategoryRequest{Name: in.Name})
}

// DeleteCategory elimina la categoría. Las transacciones que la referencian se conservan
// con su nombre copiado.
func (uc *EntryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.store.DeleteCategory(ctx, id)
}

// ResolveCategory busca una categoría por ID o, si no coincide, por nombre sin distinguir
// mayúsculas/acentos compuestos (case folding). Devuelve la primera coincidencia.
func (uc *EntryUseCase) ResolveCategory(ctx context.Context, ref string) (entity.Category, error) {
	if err := uc.store.EnsureLoaded(ctx); err != nil {
		return entity.Category{}, fmt.Errorf("cargar categorías: %w", err)
	}
	return uc.resolve(uc.store.Snapshot(), ref)
}

func (uc *EntryUseCase) resolve(snap inventory.Snapshot, ref string) (entity.Category, error) {
	ref = strings.TrimSpace(ref)
	if c, ok := snap.Category(ref); ok {
		return c, nil
	}
	// cases.Caser no es seguro entre goroutines: uno por llamada.
	fold := cases.Fold()
	want := fold.String(ref)
	for _, c := range snap.Categories {
		if fold.String(strings.TrimSpace(c.Name)) == want {
			return c, nil
		}
	}
	return entity.Category{}, fmt.Errorf("categoría %q: %w", ref, domain.ErrNotFound)
}

// ── Compras ──

// RegisterPurchase valida y registra una compra. La categoría debe existir; su nombre actual
// se copia en el registro.
func (uc *EntryUseCase) RegisterPurchase(ctx context.Context, in dto.PurchaseEntry) (entity.Purchase, error) {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if err := validation.Struct(in); err != nil {
		return entity.Purchase{}, err
	}
	category, err := uc.knownCategory(ctx, in.CategoryID)
	if err != nil {
		return entity.Purchase{}, err
	}
	return uc.store.CreatePurchase(ctx, dto.CreatePurchaseRequest{
		Date:                uc.dateOrToday(in.Date),
		CategoryID:          category.ID,
		CategoryName:        category.Name,
		Quantity:            in.Quantity,
		TotalCost:           in.TotalCost.Decimal,
		SellingPricePerItem: in.SellingPricePerItem.Decimal,
		Supplier:            in.Supplier,
	})
}

// DeletePurchase elimina la compra sin recalcular ventas: el stock puede quedar negativo.
func (uc *EntryUseCase) DeletePurchase(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.store.DeletePurchase(ctx, id)
}

// ── Ventas ──

// RegisterSale valida, verifica stock (comprado − vendido, sin filtro de fecha) y registra la venta.
// Con stock insuficiente devuelve *InsufficientStockError sin llamar al ledger.
func (uc *EntryUseCase) RegisterSale(ctx context.Context, in dto.SaleEntry) (entity.Sale, error) {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := validation.Struct(in); err != nil {
		return entity.Sale{}, err
	}
	category, err := uc.knownCategory(ctx, in.CategoryID)
	if err != nil {
		return entity.Sale{}, err
	}

	snap := uc.store.Snapshot()
	if !snap.AvailableStockCheck(category.ID, in.Quantity) {
		return entity.Sale{}, &InsufficientStockError{
			CategoryID: category.ID,
			Available:  snap.StockLevel(category.ID),
			Requested:  in.Quantity,
		}
	}

	return uc.store.CreateSale(ctx, dto.CreateSaleRequest{
		Date:                uc.dateOrToday(in.Date),
		CategoryID:          category.ID,
		CategoryName:        category.Name,
		Quantity:            in.Quantity,
		SellingPricePerItem: in.SellingPricePerItem.Decimal,
	})
}

// DeleteSale elimina la venta.
func (uc *EntryUseCase) DeleteSale(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.store.DeleteSale(ctx, id)
}

// StockCheck consulta el stock disponible de una categoría para requested unidades.
func (uc *EntryUseCase) StockCheck(ctx context.Context, categoryID string, requested int) (dto.StockCheckDTO, error) {
	if err := uc.store.EnsureLoaded(ctx); err != nil {
		return dto.StockCheckDTO{}, fmt.Errorf("cargar ledger: %w", err)
	}
	snap := uc.store.Snapshot()
	name, known := snap.CategoryName(categoryID)
	return dto.StockCheckDTO{
		CategoryID: categoryID,
		Name:       name,
		Known:      known,
		Stock:      snap.StockLevel(categoryID),
		Requested:  requested,
		Available:  snap.AvailableStockCheck(categoryID, requested),
	}, nil
}

// knownCategory exige que las tres colecciones estén cargadas y que la categoría exista por ID.
func (uc *EntryUseCase) knownCategory(ctx context.Context, id string) (entity.Category, error) {
	if err := uc.store.EnsureLoaded(ctx); err != nil {
		return entity.Category{}, fmt.Errorf("cargar ledger: %w", err)
	}
	if state := uc.store.State(); !state.Loaded() {
		return entity.Category{}, fmt.Errorf("ledger incompleto, sincronizar antes de registrar: %w", domain.ErrRemote)
	}
	c, ok := uc.store.Snapshot().Category(id)
	if !ok {
		return entity.Category{}, domain.NewValidationError("categoryId", "unknown")
	}
	return c, nil
}

func (uc *EntryUseCase) dateOrToday(date string) string {
	if date == "" {
		return entity.CalendarDate(uc.now()).Format(entity.DateLayout)
	}
	return date
}
