package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
)

// InventoryHandler maneja el alta, listado y baja de categorías, compras y ventas del POS.
type InventoryHandler struct {
	entries *inventory.EntryUseCase
	store   *ledger.Store
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(entries *inventory.EntryUseCase, store *ledger.Store) *InventoryHandler {
	return &InventoryHandler{entries: entries, store: store}
}

// loaded carga la réplica y falla con ErrRemote si la colección pedida no está disponible.
func (h *InventoryHandler) loaded(c *fiber.Ctx, pick func(ledger.State) ledger.CollectionState) error {
	_ = h.store.EnsureLoaded(c.Context())
	col := pick(h.store.State())
	switch col.Status {
	case ledger.StatusSucceeded:
		return nil
	case ledger.StatusFailed:
		return fmt.Errorf("%s: %w", col.Error, domain.ErrRemote)
	default:
		return fmt.Errorf("colección en estado %s: %w", col.Status, domain.ErrRemote)
	}
}

// ── Categorías ──

// ListCategories godoc
// @Summary      Listar categorías (más nueva primero)
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.CategoryDTO]
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/categories [get]
func (h *InventoryHandler) ListCategories(c *fiber.Ctx) error {
	if err := h.loaded(c, func(s ledger.State) ledger.CollectionState { return s.Categories }); err != nil {
		return writeError(c, err)
	}
	snap := h.store.Snapshot()
	out := make([]dto.CategoryDTO, 0, len(snap.Categories))
	for _, cat := range snap.Categories {
		out = append(out, dto.CategoryFromEntity(cat))
	}
	return c.JSON(dto.NewListResponse(out))
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryEntry  true  "name"
// @Success      201   {object}  dto.CategoryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryEntry
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	created, err := h.entries.RegisterCategory(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CategoryFromEntity(created))
}

// DeleteCategory godoc
// @Summary      Eliminar categoría (sus transacciones se conservan)
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.entries.DeleteCategory(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "categoría eliminada"})
}

// ── Compras ──

// ListPurchases godoc
// @Summary      Listar compras (más nueva primero)
// @Tags         purchases
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.PurchaseDTO]
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *InventoryHandler) ListPurchases(c *fiber.Ctx) error {
	if err := h.loaded(c, func(s ledger.State) ledger.CollectionState { return s.Purchases }); err != nil {
		return writeError(c, err)
	}
	snap := h.store.Snapshot()
	out := make([]dto.PurchaseDTO, 0, len(snap.Purchases))
	for _, p := range snap.Purchases {
		out = append(out, dto.PurchaseFromEntity(p))
	}
	return c.JSON(dto.NewListResponse(out))
}

// CreatePurchase godoc
// @Summary      Registrar compra
// @Description  date vacío = hoy. El nombre de la categoría se copia del actual.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseEntry  true  "categoryId, quantity, totalCost, sellingPricePerItem, supplier"
// @Success      201   {object}  dto.PurchaseDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.PurchaseEntry
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	created, err := h.entries.RegisterPurchase(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseFromEntity(created))
}

// DeletePurchase godoc
// @Summary      Eliminar compra (el stock puede quedar negativo)
// @Tags         purchases
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *InventoryHandler) DeletePurchase(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.entries.DeletePurchase(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "compra eliminada"})
}

// ── Ventas ──

// ListSales godoc
// @Summary      Listar ventas (más nueva primero)
// @Tags         sales
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.SaleDTO]
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	if err := h.loaded(c, func(s ledger.State) ledger.CollectionState { return s.Sales }); err != nil {
		return writeError(c, err)
	}
	snap := h.store.Snapshot()
	out := make([]dto.SaleDTO, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		out = append(out, dto.SaleFromEntity(s))
	}
	return c.JSON(dto.NewListResponse(out))
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Rechaza con 409 si la cantidad supera el stock (comprado − vendido).
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleEntry  true  "categoryId, quantity, sellingPricePerItem"
// @Success      201   {object}  dto.SaleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.SaleEntry
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	created, err := h.entries.RegisterSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleFromEntity(created))
}

// DeleteSale godoc
// @Summary      Eliminar venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *InventoryHandler) DeleteSale(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.entries.DeleteSale(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "venta eliminada"})
}

// ── Stock ──

// StockCheck godoc
// @Summary      Stock disponible de una categoría
// @Tags         inventory
// @Produce      json
// @Param        categoryId  path   string  true   "ID de la categoría"
// @Param        quantity    query  int     false  "Cantidad a vender (default 0)"
// @Success      200  {object}  dto.StockCheckDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{categoryId} [get]
func (h *InventoryHandler) StockCheck(c *fiber.Ctx) error {
	requested, err := queryInt(c, "quantity")
	if err != nil {
		return writeError(c, err)
	}
	if requested < 0 {
		return writeError(c, domain.NewValidationError("quantity", "min"))
	}
	out, err := h.entries.StockCheck(c.Context(), c.Params("categoryId"), requested)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryInt lee un entero opcional del query string; ausente = 0.
func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "numeric")
	}
	return n, nil
}
