// Package pdf genera el reporte mensual de análisis en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + "Análisis mensual"  │  Mes + fecha emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos | Egresos | Ganancia/Pérdida (margen)     │
//	│  MEJOR CATEGORÍA (si dejó ganancia)                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría | Vendidas | Ingresos | Costo | Resultado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OBSERVACIONES                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGain    = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorLoss    = &props.Color{Red: 194, Green: 65, Blue: 12}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.AnalysisRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator genera el PDF de análisis mensual con Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
	now      func() time.Time
}

// NewMarotoPDFGenerator construye el generador; shopName va en el encabezado.
func NewMarotoPDFGenerator(shopName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{shopName: shopName, now: time.Now}
}

// GenerateAnalysisPDF genera el PDF del mes y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateAnalysisPDF(_ context.Context, report *dto.AnalysisReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Análisis mensual "+report.Label, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.shopName, report, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	if report.Best != nil {
		m.AddRows(bestRow(report.Best))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Categories) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New("Sin movimiento en el mes.", props.Text{
			Size: 8, Top: 1, Color: colorGray, Align: align.Center,
		}))))
	}
	m.AddRows(tableDetailRows(report.Categories)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(insightRows(report.Insights)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(shop string, report *dto.AnalysisReportDTO, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shop, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Ingresos, egresos y resultado del mes", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ANÁLISIS MENSUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Label, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *dto.AnalysisReportDTO) core.Row {
	card := func(label, value, note string, color *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: color, Top: 7}),
			text.New(note, props.Text{Size: 7, Color: colorGray, Top: 14}),
		)
	}
	resultColor := colorGain
	if !r.Positive {
		resultColor = colorLoss
	}
	return row.New(22).Add(
		card("Ingresos", money.Format(r.Income), fmt.Sprintf("%d ventas", r.SalesCount), colorPrimary),
		card("Egresos", money.Format(r.Outcome), fmt.Sprintf("%d compras", r.PurchaseCount), colorPrimary),
		card(r.ProfitLabel, money.FormatAbs(r.Profit), "Margen "+money.Percent(r.MarginPct), resultColor),
	)
}

func bestRow(best *dto.CategoryPerformanceDTO) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Mejor categoría: %s (ganancia %s)", best.Name, money.Format(best.Profit)), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorGain, Top: 2,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Categoría", 3, align.Left),
		h("Vendidas", 1, align.Center),
		h("Ingresos", 2, align.Right),
		h("Costo", 2, align.Right),
		h("Resultado", 2, align.Right),
		h("% ingresos", 2, align.Right),
	)
}

func tableDetailRows(categories []dto.CategoryPerformanceDTO) []core.Row {
	result := make([]core.Row, 0, len(categories))
	for _, c := range categories {
		color := colorGain
		if !c.Positive {
			color = colorLoss
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(c.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(c.QuantitySold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.Amount(c.Revenue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Amount(c.Cost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Amount(c.Profit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: color})),
			col.New(2).Add(text.New(money.Percent(c.ProfitSharePct), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func insightRows(insights []string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("OBSERVACIONES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, s := range insights {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("- "+s, props.Text{Size: 8, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}
