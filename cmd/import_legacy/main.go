// import_legacy sube al ledger un libro Excel con hojas de categorías, compras y ventas
// (por ejemplo el exportado por GET /api/reports/ledger.xlsx o una planilla previa al POS).
//
// Uso: go run ./cmd/import_legacy [-dry-run] [-allow-oversold] libro.xlsx
//
// No detecta duplicados: importar dos veces el mismo libro duplica las transacciones.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/infrastructure/excel"
	"github.com/jhoicas/pos-bale/internal/infrastructure/ledgerclient"
	"github.com/jhoicas/pos-bale/pkg/config"
	"github.com/jhoicas/pos-bale/pkg/jwt"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "solo valida el libro, no envía nada")
	allowOversold := flag.Bool("allow-oversold", false, "envía también las ventas que superan el stock")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import_legacy [-dry-run] [-allow-oversold] libro.xlsx")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir libro: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	book, err := excel.ParseLedger(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer libro: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Libro: %d categorías, %d compras, %d ventas\n", len(book.Categories), len(book.Purchases), len(book.Sales))
	if *dryRun {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	decimal.MarshalJSONWithoutQuotes = true
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	opts := []ledgerclient.Option{ledgerclient.WithLogger(log)}
	if cfg.Ledger.AuthEnabled() {
		opts = append(opts, ledgerclient.WithTokenSource(
			jwt.NewSource(cfg.Ledger.JWTSecret, cfg.Ledger.TerminalID, jwt.ScopeWrite, cfg.JWT.Issuer, cfg.JWT.Expiration),
		))
	}
	store := ledger.NewStore(ledgerclient.New(cfg.Ledger.BaseURL, cfg.Ledger.Timeout, opts...), log, nil)

	res, err := newImporter(store, log, *allowOversold).run(context.Background(), book)
	fmt.Printf("Categorías: %d creadas, %d existentes. Compras: %d. Ventas: %d (%d sobre stock, %d omitidas)\n",
		res.CategoriesCreated, res.CategoriesMatched, res.Purchases, res.Sales, res.Oversold, res.Skipped)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
}
