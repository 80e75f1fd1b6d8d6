package cli

import (
	"fmt"
	"strings"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
	"github.com/jhoicas/pos-bale/pkg/money"
)

var statusLabels = map[string]string{
	string(inventory.StatusHealthy):        "OK",
	string(inventory.StatusLowStock):       "Stock bajo",
	string(inventory.StatusOutOfStock):     "Agotado",
	string(inventory.StatusNeverPurchased): "Sin compras",
	string(inventory.StatusOversold):       "Sobrevendido",
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// cell escapa el separador de columnas de las tablas markdown.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeWarnings(b *strings.Builder, complete bool, warnings []string) {
	if complete {
		return
	}
	fmt.Fprintln(b, "> **Datos incompletos.** Ejecutá `posctl sync` para reintentar.")
	for _, w := range warnings {
		fmt.Fprintf(b, "> - %s\n", w)
	}
	fmt.Fprintln(b)
}

// CategoriesMarkdown lista las categorías con su stock actual.
func CategoriesMarkdown(snap inventory.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Categorías\n\n")
	if len(snap.Categories) == 0 {
		fmt.Fprintln(&b, "Todavía no hay categorías.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Categoría | ID | Stock |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, c := range snap.Categories {
		fmt.Fprintf(&b, "| %s | `%s` | %d |\n", cell(c.Name), c.ID, snap.StockLevel(c.ID))
	}
	return b.String()
}

// PurchasesMarkdown tabla de compras en el orden dado.
func PurchasesMarkdown(purchases []dto.PurchaseDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Compras\n\n")
	if len(purchases) == 0 {
		fmt.Fprintln(&b, "Todavía no hay compras registradas.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Fecha | Categoría | Cantidad | Costo total | Costo unitario | Precio venta | Proveedor | ID |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|:---|:---|")
	for _, p := range purchases {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | `%s` |\n",
			p.Date, cell(p.CategoryName), p.Quantity,
			money.Format(p.TotalCost), money.Format(p.CostPerItem), money.Format(p.SellingPricePerItem),
			cell(p.Supplier), p.ID)
	}
	return b.String()
}

// SalesMarkdown tabla de ventas en el orden dado.
func SalesMarkdown(sales []dto.SaleDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ventas\n\n")
	if len(sales) == 0 {
		fmt.Fprintln(&b, "Todavía no hay ventas registradas.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Fecha | Categoría | Cantidad | Precio | Total | ID |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|:---|")
	for _, s := range sales {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | `%s` |\n",
			s.Date, cell(s.CategoryName), s.Quantity,
			money.Format(s.SellingPricePerItem), money.Format(s.TotalAmount), s.ID)
	}
	return b.String()
}

// InventoryMarkdown tablero de inventario: tabla por categoría, totales y alertas.
func InventoryMarkdown(r *dto.InventoryReportDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inventario\n\n")
	writeWarnings(&b, r.Complete, r.Warnings)

	fmt.Fprintln(&b, "| Categoría | Comprado | Vendido | Restante | Costo prom. | Precio prom. | Valor costo | Valor venta | Estado |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|:---|")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s | %s | %s | %s |\n",
			cell(row.Name), row.TotalPurchased, row.TotalSold, row.Remaining,
			money.Format(row.AvgCostPerItem), money.Format(row.AvgSellingPrice),
			money.Format(row.CostValue), money.Format(row.SellingValue), statusLabel(row.Status))
	}
	fmt.Fprintf(&b, "\n**Stock total:** %d unidades · **Valor a costo:** %s · **Valor a venta:** %s\n",
		r.TotalStock, money.Format(r.TotalCostValue), money.Format(r.TotalSellingValue))

	alerts := []struct {
		title string
		rows  []dto.InventoryRowDTO
	}{
		{"Sobrevendido", r.Oversold},
		{"Agotado", r.OutOfStock},
		{"Stock bajo", r.LowStock},
	}
	header := false
	for _, a := range alerts {
		if len(a.rows) == 0 {
			continue
		}
		if !header {
			fmt.Fprintf(&b, "\n## Alertas\n\n")
			header = true
		}
		for _, row := range a.rows {
			fmt.Fprintf(&b, "- **%s:** %s (%d)\n", a.title, row.Name, row.Remaining)
		}
	}
	return b.String()
}

// DashboardMarkdown resumen del tablero.
func DashboardMarkdown(d *dto.DashboardSummaryDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tablero · %s\n\n", d.DateLabel)
	writeWarnings(&b, d.Complete, d.Warnings)

	fmt.Fprintln(&b, "| Ventas | Compras | Resultado | Stock | Categorías |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s (%d) | %s (%d) | %s: %s | %d | %d |\n",
		money.Format(d.TotalSales), d.SalesCount,
		money.Format(d.TotalPurchases), d.PurchaseCount,
		d.ProfitLabel, money.FormatAbs(d.Profit), d.TotalStock, d.CategoryCount)

	fmt.Fprintf(&b, "\n## Compras recientes\n\n")
	if len(d.RecentPurchases) == 0 {
		fmt.Fprintln(&b, "Sin compras.")
	}
	for _, p := range d.RecentPurchases {
		fmt.Fprintf(&b, "- %s · %s × %d · %s\n", p.Date, p.CategoryName, p.Quantity, money.Format(p.TotalCost))
	}
	fmt.Fprintf(&b, "\n## Ventas recientes\n\n")
	if len(d.RecentSales) == 0 {
		fmt.Fprintln(&b, "Sin ventas.")
	}
	for _, s := range d.RecentSales {
		fmt.Fprintf(&b, "- %s · %s × %d · %s\n", s.Date, s.CategoryName, s.Quantity, money.Format(s.TotalAmount))
	}
	return b.String()
}

// AnalysisMarkdown análisis mensual con desglose por categoría y observaciones.
func AnalysisMarkdown(r *dto.AnalysisReportDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Análisis · %s\n\n", r.Label)
	writeWarnings(&b, r.Complete, r.Warnings)

	fmt.Fprintln(&b, "| Ingresos | Egresos | Resultado | Margen |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s: %s | %s |\n",
		money.Format(r.Income), money.Format(r.Outcome), r.ProfitLabel, money.FormatAbs(r.Profit), money.Percent(r.MarginPct))
	fmt.Fprintf(&b, "\n%d ventas · %d compras · venta promedio %s\n", r.SalesCount, r.PurchaseCount, money.Format(r.AverageSaleValue))

	if r.Best != nil {
		fmt.Fprintf(&b, "\n**Mejor categoría:** %s (%s)\n", r.Best.Name, money.Format(r.Best.Profit))
	}

	if len(r.Categories) > 0 {
		fmt.Fprintf(&b, "\n## Por categoría\n\n")
		fmt.Fprintln(&b, "| Categoría | Vendidas | Ingresos | Costo | Resultado | Participación |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
		for _, c := range r.Categories {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
				cell(c.Name), c.QuantitySold, money.Format(c.Revenue), money.Format(c.Cost),
				money.Format(c.Profit), money.Percent(c.ProfitSharePct))
		}
	}

	if len(r.Insights) > 0 {
		fmt.Fprintf(&b, "\n## Observaciones\n\n")
		for _, s := range r.Insights {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}
