package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/infrastructure/excel"
)

// AnalyticsHandler maneja el inventario valorizado, el análisis mensual y sus exportaciones.
type AnalyticsHandler struct {
	reports  *appanalytics.ReportUseCase
	renderer appanalytics.AnalysisRenderer
	store    *ledger.Store
}

// NewAnalyticsHandler construye el handler. renderer puede ser nil (sin PDF).
func NewAnalyticsHandler(reports *appanalytics.ReportUseCase, renderer appanalytics.AnalysisRenderer, store *ledger.Store) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, renderer: renderer, store: store}
}

// GetInventory godoc
// @Summary      Inventario por categoría
// @Description  Stock restante, costo y precio promedio, valorización y avisos de stock bajo,
//
//	agotado y sobreventa.
//
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.InventoryReportDTO
// @Router       /api/inventory [get]
func (h *AnalyticsHandler) GetInventory(c *fiber.Ctx) error {
	report, err := h.reports.Inventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetAnalysis godoc
// @Summary      Análisis mensual de ingresos, egresos y ganancia
// @Tags         analysis
// @Produce      json
// @Param        month  query  int  false  "Mes 1-12 (default: mes actual)"
// @Param        year   query  int  false  "Año (default: año actual)"
// @Success      200  {object}  dto.AnalysisReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analysis [get]
func (h *AnalyticsHandler) GetAnalysis(c *fiber.Ctx) error {
	year, month, err := periodQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.reports.Analysis(c.Context(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetMonthOptions godoc
// @Summary      Meses y años seleccionables para el análisis
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  dto.MonthOptionsDTO
// @Router       /api/analysis/options [get]
func (h *AnalyticsHandler) GetMonthOptions(c *fiber.Ctx) error {
	return c.JSON(h.reports.MonthOptions())
}

// ── Exportaciones ──

// InventoryXLSX godoc
// @Summary      Inventario en Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/reports/inventory.xlsx [get]
func (h *AnalyticsHandler) InventoryXLSX(c *fiber.Ctx) error {
	report, err := h.reports.Inventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := excel.WriteInventory(&buf, report); err != nil {
		return writeError(c, err)
	}
	return attachment(c, excel.ContentType, "inventario-"+entity.Today().Format(entity.DateLayout)+".xlsx", buf.Bytes())
}

// LedgerXLSX godoc
// @Summary      Categorías, compras y ventas en Excel (re-importable)
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reports/ledger.xlsx [get]
func (h *AnalyticsHandler) LedgerXLSX(c *fiber.Ctx) error {
	_ = h.store.EnsureLoaded(c.Context())
	if state := h.store.State(); !state.Loaded() {
		return writeError(c, fmt.Errorf("ledger incompleto: %w", domain.ErrRemote))
	}
	var buf bytes.Buffer
	if err := excel.WriteLedger(&buf, h.store.Snapshot()); err != nil {
		return writeError(c, err)
	}
	return attachment(c, excel.ContentType, "ledger-"+entity.Today().Format(entity.DateLayout)+".xlsx", buf.Bytes())
}

// AnalysisPDF godoc
// @Summary      Análisis mensual en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        month  query  int  false  "Mes 1-12 (default: mes actual)"
// @Param        year   query  int  false  "Año (default: año actual)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/analysis.pdf [get]
func (h *AnalyticsHandler) AnalysisPDF(c *fiber.Ctx) error {
	if h.renderer == nil {
		return c.SendStatus(fiber.StatusNotImplemented)
	}
	year, month, err := periodQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.reports.Analysis(c.Context(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.renderer.GenerateAnalysisPDF(c.Context(), report)
	if err != nil {
		return writeError(c, err)
	}
	return attachment(c, "application/pdf", "analisis-"+report.Period+".pdf", doc)
}

func periodQuery(c *fiber.Ctx) (year, month int, err error) {
	if month, err = queryInt(c, "month"); err != nil {
		return 0, 0, err
	}
	if year, err = queryInt(c, "year"); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func attachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
