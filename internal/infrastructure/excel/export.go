// Package excel exporta reportes y el ledger a xlsx y lee libros de ledger para importar.
package excel

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/inventory"
)

// Nombres de hoja del libro de ledger.
const (
	SheetInventory  = "Inventario"
	SheetCategories = "Categorías"
	SheetPurchases  = "Compras"
	SheetSales      = "Ventas"
)

// ContentType tipo MIME de los xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	inventoryHeader = []string{"Categoría", "Comprado", "Vendido", "Restante", "Costo promedio", "Precio promedio", "Valor costo", "Valor venta", "Estado"}
	categoryHeader  = []string{"id", "name", "created_at"}
	purchaseHeader  = []string{"id", "date", "category_id", "category", "quantity", "total_cost", "cost_per_item", "selling_price_per_item", "supplier"}
	saleHeader      = []string{"id", "date", "category_id", "category", "quantity", "selling_price_per_item", "total_amount"}
)

// WriteInventory escribe el reporte de inventario en una hoja con fila de totales.
func WriteInventory(w io.Writer, report *dto.InventoryReportDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	sheet := newSheetWriter(f, SheetInventory)
	sheet.header(inventoryHeader)
	for _, r := range report.Rows {
		sheet.row(r.Name, r.TotalPurchased, r.TotalSold, r.Remaining,
			num(r.AvgCostPerItem), num(r.AvgSellingPrice), num(r.CostValue), num(r.SellingValue), r.Status)
	}
	sheet.row("TOTAL", nil, nil, report.TotalStock, nil, nil, num(report.TotalCostValue), num(report.TotalSellingValue), nil)
	_ = f.SetColWidth(SheetInventory, "A", "A", 24)
	_ = f.SetColWidth(SheetInventory, "B", "I", 15)
	if sheet.err != nil {
		return sheet.err
	}
	return write(f, w)
}

// WriteLedger escribe las tres colecciones, una por hoja. El libro se puede volver a leer
// con ParseLedger.
func WriteLedger(w io.Writer, snap inventory.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCategories); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetPurchases, SheetSales} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("excel: crear hoja %s: %w", name, err)
		}
	}

	cats := newSheetWriter(f, SheetCategories)
	cats.header(categoryHeader)
	for _, c := range snap.Categories {
		cats.row(c.ID, c.Name, c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}

	purchases := newSheetWriter(f, SheetPurchases)
	purchases.header(purchaseHeader)
	for _, p := range snap.Purchases {
		purchases.row(p.ID, p.Date.Format(entity.DateLayout), p.CategoryID, p.CategoryName, p.Quantity,
			num(p.TotalCost), num(p.CostPerItem), num(p.SellingPricePerItem), p.Supplier)
	}

	sales := newSheetWriter(f, SheetSales)
	sales.header(saleHeader)
	for _, s := range snap.Sales {
		sales.row(s.ID, s.Date.Format(entity.DateLayout), s.CategoryID, s.CategoryName, s.Quantity,
			num(s.SellingPricePerItem), num(s.TotalAmount))
	}

	for _, sw := range []*sheetWriter{cats, purchases, sales} {
		if sw.err != nil {
			return sw.err
		}
	}
	return write(f, w)
}

// sheetWriter escribe filas consecutivas; el primer error se conserva y corta las siguientes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, next: 1}
}

func (s *sheetWriter) header(cols []string) {
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	start := s.next
	s.row(values...)
	if s.err != nil {
		return
	}
	style, err := s.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		s.err = fmt.Errorf("excel: estilo: %w", err)
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, start)
	last, _ := excelize.CoordinatesToCellName(len(cols), start)
	if err := s.f.SetCellStyle(s.sheet, first, last, style); err != nil {
		s.err = fmt.Errorf("excel: estilo encabezado: %w", err)
	}
}

func (s *sheetWriter) row(values ...any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(s.sheet, cell, &values); err != nil {
		s.err = fmt.Errorf("excel: %s fila %d: %w", s.sheet, s.next, err)
		return
	}
	s.next++
}

// num importe como número de celda (la hoja no conserva precisión decimal arbitraria).
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: escribir libro: %w", err)
	}
	return nil
}
