package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
)

// decimalValue flag.Value para importes; acepta separador de miles ("40,000").
// Un flag no informado deja el NullDecimal sin valor y la validación lo rechaza.
type decimalValue struct{ d *decimal.NullDecimal }

func (v decimalValue) String() string {
	if v.d == nil || !v.d.Valid {
		return ""
	}
	return v.d.Decimal.String()
}

func (v decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return fmt.Errorf("importe inválido %q", s)
	}
	*v.d = decimal.NewNullDecimal(d)
	return nil
}

// ── ledger ──

type syncCmd struct{ app *App }

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "recarga categorías, compras y ventas del ledger remoto" }
func (*syncCmd) Usage() string {
	return `posctl sync

  Vuelve a pedir las tres colecciones al ledger y muestra su estado.
`
}
func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := c.app.Store.Refresh(ctx)
	state := c.app.Store.State()

	var b strings.Builder
	fmt.Fprintln(&b, "| Colección | Estado | Error |")
	fmt.Fprintln(&b, "|:---|:---|:---|")
	for _, row := range []struct {
		name string
		col  ledger.CollectionState
	}{
		{"categories", state.Categories},
		{"purchases", state.Purchases},
		{"sales", state.Sales},
	} {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.name, row.col.Status, cell(row.col.Error))
	}
	c.app.printMarkdown(b.String())

	if err != nil {
		return c.app.fail("sincronizando", err)
	}
	return subcommands.ExitSuccess
}

type categoriesCmd struct{ app *App }

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "lista las categorías con su stock" }
func (*categoriesCmd) Usage() string    { return "posctl categories\n" }
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.Store.EnsureLoaded(ctx); err != nil {
		return c.app.fail("cargando el ledger", err)
	}
	c.app.printMarkdown(CategoriesMarkdown(c.app.Store.Snapshot()))
	return subcommands.ExitSuccess
}

type addCategoryCmd struct {
	app  *App
	name string
}

func (*addCategoryCmd) Name() string     { return "add-category" }
func (*addCategoryCmd) Synopsis() string { return "crea una categoría" }
func (*addCategoryCmd) Usage() string    { return "posctl add-category -name <nombre>\n" }

func (c *addCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "nombre de la categoría")
}

func (c *addCategoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.Entries.RegisterCategory(ctx, dto.CategoryEntry{Name: c.name})
	if err != nil {
		return c.app.fail("creando la categoría", err)
	}
	fmt.Fprintf(c.app.Out, "Categoría %q creada (%s)\n", cat.Name, cat.ID)
	return subcommands.ExitSuccess
}

type deleteCmd struct{ app *App }

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "elimina una categoría, compra o venta" }
func (*deleteCmd) Usage() string {
	return `posctl delete <category|purchase|sale> <id>

  Las categorías también se aceptan por nombre. Borrar una compra no recalcula ventas:
  el stock puede quedar negativo.
`
}
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	kind, id := f.Arg(0), f.Arg(1)

	var err error
	switch kind {
	case "category":
		var cat entity.Category
		if cat, err = c.app.Entries.ResolveCategory(ctx, id); err == nil {
			err = c.app.Entries.DeleteCategory(ctx, cat.ID)
			id = cat.ID
		}
	case "purchase":
		err = c.app.Entries.DeletePurchase(ctx, id)
	case "sale":
		err = c.app.Entries.DeleteSale(ctx, id)
	default:
		fmt.Fprintf(c.app.Err, "Tipo desconocido %q\n%s", kind, c.Usage())
		return subcommands.ExitUsageError
	}
	if err != nil {
		return c.app.fail("eliminando", err)
	}
	fmt.Fprintf(c.app.Out, "%s %s eliminado\n", kind, id)
	return subcommands.ExitSuccess
}

// ── transactions ──

type buyCmd struct {
	app      *App
	category string
	date     string
	quantity int
	cost     decimal.NullDecimal
	price    decimal.NullDecimal
	supplier string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "registra la compra de un fardo" }
func (*buyCmd) Usage() string {
	return `posctl buy -c <categoría> -q <cantidad> -cost <costo total> -price <precio de venta> [-d <fecha>] [-supplier <proveedor>]

  La categoría se acepta por ID o por nombre. Sin -d se usa la fecha de hoy.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "categoría (ID o nombre)")
	f.StringVar(&c.date, "d", "", "fecha de la compra (YYYY-MM-DD)")
	f.IntVar(&c.quantity, "q", 0, "cantidad de unidades")
	f.Var(decimalValue{&c.cost}, "cost", "costo total del fardo")
	f.Var(decimalValue{&c.price}, "price", "precio de venta previsto por unidad")
	f.StringVar(&c.supplier, "supplier", "", "proveedor")
}

func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.Entries.ResolveCategory(ctx, c.category)
	if err != nil {
		return c.app.fail("buscando la categoría", err)
	}
	p, err := c.app.Entries.RegisterPurchase(ctx, dto.PurchaseEntry{
		Date:                c.date,
		CategoryID:          cat.ID,
		Quantity:            c.quantity,
		TotalCost:           c.cost,
		SellingPricePerItem: c.price,
		Supplier:            c.supplier,
	})
	if err != nil {
		return c.app.fail("registrando la compra", err)
	}
	c.app.printMarkdown(PurchasesMarkdown([]dto.PurchaseDTO{dto.PurchaseFromEntity(p)}))
	return subcommands.ExitSuccess
}

type sellCmd struct {
	app      *App
	category string
	date     string
	quantity int
	price    decimal.NullDecimal
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "registra una venta si hay stock" }
func (*sellCmd) Usage() string {
	return `posctl sell -c <categoría> -q <cantidad> -price <precio por unidad> [-d <fecha>]

  La venta se rechaza si la cantidad supera el stock de la categoría.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "categoría (ID o nombre)")
	f.StringVar(&c.date, "d", "", "fecha de la venta (YYYY-MM-DD)")
	f.IntVar(&c.quantity, "q", 0, "cantidad de unidades")
	f.Var(decimalValue{&c.price}, "price", "precio de venta por unidad")
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := c.app.Entries.ResolveCategory(ctx, c.category)
	if err != nil {
		return c.app.fail("buscando la categoría", err)
	}
	s, err := c.app.Entries.RegisterSale(ctx, dto.SaleEntry{
		Date:                c.date,
		CategoryID:          cat.ID,
		Quantity:            c.quantity,
		SellingPricePerItem: c.price,
	})
	if err != nil {
		return c.app.fail("registrando la venta", err)
	}
	c.app.printMarkdown(SalesMarkdown([]dto.SaleDTO{dto.SaleFromEntity(s)}))
	return subcommands.ExitSuccess
}

type purchasesCmd struct {
	app   *App
	limit int
}

func (*purchasesCmd) Name() string     { return "purchases" }
func (*purchasesCmd) Synopsis() string { return "lista las compras, más nueva primero" }
func (*purchasesCmd) Usage() string    { return "posctl purchases [-n <cantidad>]\n" }

func (c *purchasesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "cantidad máxima de compras a mostrar")
}

func (c *purchasesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.Store.EnsureLoaded(ctx); err != nil {
		return c.app.fail("cargando compras", err)
	}
	recent := c.app.Store.Snapshot().RecentPurchases(c.limit)
	out := make([]dto.PurchaseDTO, 0, len(recent))
	for _, p := range recent {
		out = append(out, dto.PurchaseFromEntity(p))
	}
	c.app.printMarkdown(PurchasesMarkdown(out))
	return subcommands.ExitSuccess
}

type salesCmd struct {
	app   *App
	limit int
}

func (*salesCmd) Name() string     { return "sales" }
func (*salesCmd) Synopsis() string { return "lista las ventas, más nueva primero" }
func (*salesCmd) Usage() string    { return "posctl sales [-n <cantidad>]\n" }

func (c *salesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "cantidad máxima de ventas a mostrar")
}

func (c *salesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.Store.EnsureLoaded(ctx); err != nil {
		return c.app.fail("cargando ventas", err)
	}
	recent := c.app.Store.Snapshot().RecentSales(c.limit)
	out := make([]dto.SaleDTO, 0, len(recent))
	for _, s := range recent {
		out = append(out, dto.SaleFromEntity(s))
	}
	c.app.printMarkdown(SalesMarkdown(out))
	return subcommands.ExitSuccess
}

// ── reports ──

type inventoryCmd struct{ app *App }

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "muestra el stock y la valuación por categoría" }
func (*inventoryCmd) Usage() string    { return "posctl inventory\n" }
func (*inventoryCmd) SetFlags(*flag.FlagSet) {}

func (c *inventoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.app.Reports.Inventory(ctx)
	if err != nil {
		return c.app.fail("generando el inventario", err)
	}
	c.app.printMarkdown(InventoryMarkdown(report))
	return subcommands.ExitSuccess
}

type dashboardCmd struct{ app *App }

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "resumen de ventas, compras y actividad reciente" }
func (*dashboardCmd) Usage() string    { return "posctl dashboard\n" }
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	summary, err := c.app.Dashboard.Summary(ctx)
	if err != nil {
		return c.app.fail("generando el tablero", err)
	}
	c.app.printMarkdown(DashboardMarkdown(summary))
	return subcommands.ExitSuccess
}

type analysisCmd struct {
	app   *App
	month int
	year  int
}

func (*analysisCmd) Name() string     { return "analysis" }
func (*analysisCmd) Synopsis() string { return "ingresos, egresos y resultado de un mes" }
func (*analysisCmd) Usage() string {
	return `posctl analysis [-m <mes>] [-y <año>]

  Sin flags se analiza el mes en curso.
`
}

func (c *analysisCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.month, "m", 0, "mes (1-12)")
	f.IntVar(&c.year, "y", 0, "año")
}

func (c *analysisCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := c.app.Reports.Analysis(ctx, c.year, c.month)
	if err != nil {
		return c.app.fail("generando el análisis", err)
	}
	c.app.printMarkdown(AnalysisMarkdown(report))
	return subcommands.ExitSuccess
}
