// posctl registra compras y ventas contra el ledger remoto y muestra los reportes del POS.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/infrastructure/ledgerclient"
	"github.com/jhoicas/pos-bale/internal/interfaces/cli"
	"github.com/jhoicas/pos-bale/pkg/config"
	"github.com/jhoicas/pos-bale/pkg/jwt"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

var (
	plain = flag.Bool("plain", false, "imprime markdown sin formato")
	width = flag.Int("width", 100, "ancho de línea de la salida formateada")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := &cli.App{Out: os.Stdout, Err: os.Stderr}
	cli.Register(commander, app)

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando configuración: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
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

	app.Store = store
	app.Entries = inventory.NewEntryUseCase(store)
	app.Reports = analytics.NewReportUseCase(store, nil)
	app.Dashboard = analytics.NewDashboardUseCase(store)
	if !*plain {
		if r, err := cli.NewRenderer(*width); err == nil {
			app.Renderer = r
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}
