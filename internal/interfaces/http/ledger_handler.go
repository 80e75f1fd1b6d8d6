package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/usecase"
)

// LedgerHandler lado servidor del contrato del ledger (/categories, /purchases, /sales).
// Los listados se devuelven como arreglo JSON sin envoltorio.
type LedgerHandler struct {
	categories *usecase.CategoryUseCase
	purchases  *usecase.PurchaseUseCase
	sales      *usecase.SaleUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(categories *usecase.CategoryUseCase, purchases *usecase.PurchaseUseCase, sales *usecase.SaleUseCase) *LedgerHandler {
	return &LedgerHandler{categories: categories, purchases: purchases, sales: sales}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /api/categories [get]
func (h *LedgerHandler) ListCategories(c *fiber.Ctx) error {
	list, err := h.categories.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(nonNil(list))
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "name"
// @Success      201   {object}  dto.CategoryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *LedgerHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.categories.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *LedgerHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.categories.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "Category deleted"})
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PurchaseDTO
// @Router       /api/purchases [get]
func (h *LedgerHandler) ListPurchases(c *fiber.Ctx) error {
	list, err := h.purchases.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(nonNil(list))
}

// CreatePurchase godoc
// @Summary      Registrar compra (costPerItem se deriva)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "date, categoryId, categoryName, quantity, totalCost, sellingPricePerItem, supplier"
// @Success      201   {object}  dto.PurchaseDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *LedgerHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.purchases.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeletePurchase godoc
// @Summary      Eliminar compra
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *LedgerHandler) DeletePurchase(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.purchases.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "Purchase deleted"})
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleDTO
// @Router       /api/sales [get]
func (h *LedgerHandler) ListSales(c *fiber.Ctx) error {
	list, err := h.sales.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(nonNil(list))
}

// CreateSale godoc
// @Summary      Registrar venta (totalAmount se deriva, sin control de stock)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "date, categoryId, categoryName, quantity, sellingPricePerItem"
// @Success      201   {object}  dto.SaleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *LedgerHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.sales.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteSale godoc
// @Summary      Eliminar venta
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *LedgerHandler) DeleteSale(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.sales.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{ID: id, Message: "Sale deleted"})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
