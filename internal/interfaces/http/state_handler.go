package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-bale/internal/application/ledger"
)

// StateHandler expone el estado de carga de la réplica y la resincronización.
type StateHandler struct {
	store *ledger.Store
}

// NewStateHandler construye el handler.
func NewStateHandler(store *ledger.Store) *StateHandler {
	return &StateHandler{store: store}
}

// SyncResponse resultado de POST /api/sync.
type SyncResponse struct {
	State    ledger.State `json:"state"`
	Complete bool         `json:"complete"`
	Error    string       `json:"error,omitempty"`
}

// State godoc
// @Summary      Estado de carga de categorías, compras y ventas
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  ledger.State
// @Router       /api/state [get]
func (h *StateHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.store.State())
}

// Sync godoc
// @Summary      Recargar las tres colecciones desde el servicio remoto
// @Description  Las colecciones que fallan conservan sus registros previos. Responde 502 si alguna falló.
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  SyncResponse
// @Failure      502  {object}  SyncResponse
// @Router       /api/sync [post]
func (h *StateHandler) Sync(c *fiber.Ctx) error {
	err := h.store.Refresh(c.Context())
	state := h.store.State()
	out := SyncResponse{State: state, Complete: state.Loaded()}
	if err != nil {
		out.Error = err.Error()
		return c.Status(fiber.StatusBadGateway).JSON(out)
	}
	return c.JSON(out)
}
