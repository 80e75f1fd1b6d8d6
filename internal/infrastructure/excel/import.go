package excel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// CategoryRow categoría leída del libro. ID puede venir vacío.
type CategoryRow struct {
	Row  int
	ID   string
	Name string
}

// PurchaseRow compra leída del libro. CategoryID y Category identifican la categoría
// original (al menos uno presente).
type PurchaseRow struct {
	Row                 int
	Date                time.Time
	CategoryID          string
	Category            string
	Quantity            int
	TotalCost           decimal.Decimal
	SellingPricePerItem decimal.Decimal
	Supplier            string
}

// SaleRow venta leída del libro.
type SaleRow struct {
	Row                 int
	Date                time.Time
	CategoryID          string
	Category            string
	Quantity            int
	SellingPricePerItem decimal.Decimal
}

// Workbook contenido de un libro de ledger.
type Workbook struct {
	Categories []CategoryRow
	Purchases  []PurchaseRow
	Sales      []SaleRow
}

// sheetAliases nombres aceptados por hoja (normalizados).
var sheetAliases = map[string][]string{
	SheetCategories: {"categorías", "categorias", "categories"},
	SheetPurchases:  {"compras", "purchases"},
	SheetSales:      {"ventas", "sales"},
}

var headerAliases = map[string]string{
	"id":                     "id",
	"_id":                    "id",
	"name":                   "name",
	"nombre":                 "name",
	"date":                   "date",
	"fecha":                  "date",
	"category id":            "category_id",
	"categoryid":             "category_id",
	"category":               "category",
	"category name":          "category",
	"categoryname":           "category",
	"categoría":              "category",
	"categoria":              "category",
	"quantity":               "quantity",
	"qty":                    "quantity",
	"cantidad":               "quantity",
	"total cost":             "total_cost",
	"totalcost":              "total_cost",
	"costo total":            "total_cost",
	"selling price per item": "selling_price",
	"sellingpriceperitem":    "selling_price",
	"selling price":          "selling_price",
	"precio venta":           "selling_price",
	"precio de venta":        "selling_price",
	"supplier":               "supplier",
	"proveedor":              "supplier",
}

// ParseLedger lee las hojas de categorías, compras y ventas. Las hojas ausentes se tratan
// como vacías; las filas sin categoría ni cantidad se saltan. El primer valor inválido
// corta la lectura con la hoja y la fila en el mensaje.
func ParseLedger(r io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer file.Close()

	sheets := matchSheets(file.GetSheetList())
	if len(sheets) == 0 {
		return nil, errors.New("el libro no tiene hojas de categorías, compras ni ventas")
	}

	out := &Workbook{}
	if name, ok := sheets[SheetCategories]; ok {
		rows, err := readRows(file, name)
		if err != nil {
			return nil, err
		}
		if out.Categories, err = parseCategories(name, rows); err != nil {
			return nil, err
		}
	}
	if name, ok := sheets[SheetPurchases]; ok {
		rows, err := readRows(file, name)
		if err != nil {
			return nil, err
		}
		if out.Purchases, err = parsePurchases(name, rows); err != nil {
			return nil, err
		}
	}
	if name, ok := sheets[SheetSales]; ok {
		rows, err := readRows(file, name)
		if err != nil {
			return nil, err
		}
		if out.Sales, err = parseSales(name, rows); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func matchSheets(list []string) map[string]string {
	out := make(map[string]string, 3)
	for _, name := range list {
		normalized := normalizeHeader(name)
		for canonical, aliases := range sheetAliases {
			for _, alias := range aliases {
				if normalized == alias {
					if _, dup := out[canonical]; !dup {
						out[canonical] = name
					}
				}
			}
		}
	}
	return out
}

// readRows usa valores crudos: las fechas llegan como número de serie de Excel.
func readRows(file *excelize.File, sheet string) ([][]string, error) {
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	return rows, nil
}

func parseCategories(sheet string, rows [][]string) ([]CategoryRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := mapColumns(rows[0])
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("hoja %s: falta la columna name", sheet)
	}
	out := make([]CategoryRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		name := strings.TrimSpace(readCell(rows[i], cols, "name"))
		if name == "" {
			continue
		}
		out = append(out, CategoryRow{Row: i + 1, ID: strings.TrimSpace(readCell(rows[i], cols, "id")), Name: name})
	}
	return out, nil
}

func parsePurchases(sheet string, rows [][]string) ([]PurchaseRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := mapColumns(rows[0])
	if err := requireColumns(sheet, cols, "date", "quantity", "total_cost"); err != nil {
		return nil, err
	}
	out := make([]PurchaseRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		cells := rows[i]
		categoryID := strings.TrimSpace(readCell(cells, cols, "category_id"))
		category := strings.TrimSpace(readCell(cells, cols, "category"))
		if categoryID == "" && category == "" {
			continue
		}
		at := fmt.Sprintf("hoja %s fila %d", sheet, i+1)

		date, err := parseDate(readCell(cells, cols, "date"))
		if err != nil {
			return nil, fmt.Errorf("%s: fecha: %w", at, err)
		}
		qty, err := parseInt(readCell(cells, cols, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("%s: cantidad: %w", at, err)
		}
		cost, err := parseDecimal(readCell(cells, cols, "total_cost"))
		if err != nil {
			return nil, fmt.Errorf("%s: costo total: %w", at, err)
		}
		price, err := optionalDecimal(readCell(cells, cols, "selling_price"))
		if err != nil {
			return nil, fmt.Errorf("%s: precio de venta: %w", at, err)
		}
		out = append(out, PurchaseRow{
			Row:                 i + 1,
			Date:                date,
			CategoryID:          categoryID,
			Category:            category,
			Quantity:            qty,
			TotalCost:           cost,
			SellingPricePerItem: price,
			Supplier:            strings.TrimSpace(readCell(cells, cols, "supplier")),
		})
	}
	return out, nil
}

func parseSales(sheet string, rows [][]string) ([]SaleRow, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := mapColumns(rows[0])
	if err := requireColumns(sheet, cols, "date", "quantity", "selling_price"); err != nil {
		return nil, err
	}
	out := make([]SaleRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		cells := rows[i]
		categoryID := strings.TrimSpace(readCell(cells, cols, "category_id"))
		category := strings.TrimSpace(readCell(cells, cols, "category"))
		if categoryID == "" && category == "" {
			continue
		}
		at := fmt.Sprintf("hoja %s fila %d", sheet, i+1)

		date, err := parseDate(readCell(cells, cols, "date"))
		if err != nil {
			return nil, fmt.Errorf("%s: fecha: %w", at, err)
		}
		qty, err := parseInt(readCell(cells, cols, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("%s: cantidad: %w", at, err)
		}
		price, err := parseDecimal(readCell(cells, cols, "selling_price"))
		if err != nil {
			return nil, fmt.Errorf("%s: precio de venta: %w", at, err)
		}
		out = append(out, SaleRow{
			Row:                 i + 1,
			Date:                date,
			CategoryID:          categoryID,
			Category:            category,
			Quantity:            qty,
			SellingPricePerItem: price,
		})
	}
	return out, nil
}

// ── Helpers ──

func requireColumns(sheet string, cols map[string]int, names ...string) error {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return fmt.Errorf("hoja %s: falta la columna %s", sheet, n)
		}
	}
	if _, ok := cols["category_id"]; !ok {
		if _, ok := cols["category"]; !ok {
			return fmt.Errorf("hoja %s: falta la columna category o category_id", sheet)
		}
	}
	return nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\uFEFF")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseDate acepta un número de serie de Excel o un texto que entity.ParseDate entienda.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return entity.CalendarDate(t), nil
	}
	return entity.ParseDate(value)
}

func parseInt(raw string) (int, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, errors.New("valor vacío")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("no es un número: %q", raw)
	}
	if math.Mod(f, 1) != 0 {
		return 0, fmt.Errorf("debe ser entero: %q", raw)
	}
	return int(f), nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return decimal.Zero, errors.New("valor vacío")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no es un número: %q", raw)
	}
	return d, nil
}

func optionalDecimal(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(raw)
}
