package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-bale/internal/application/analytics"
)

// DashboardHandler maneja el resumen del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  Totales de todo el histórico (ventas, compras, resultado, stock) y las tres
//
//	compras y ventas más recientes. complete=false si alguna colección no cargó.
//
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
