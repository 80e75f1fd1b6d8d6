package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/infrastructure/ledgerclient"
	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pos-bale/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/pos-bale/internal/interfaces/http"
	"github.com/jhoicas/pos-bale/pkg/config"
	"github.com/jhoicas/pos-bale/pkg/jwt"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ledger", cfg.Ledger.BaseURL).
		Msg("iniciando POS")

	m := metrics.New("pos")

	opts := []ledgerclient.Option{ledgerclient.WithMetrics(m), ledgerclient.WithLogger(log)}
	if cfg.Ledger.AuthEnabled() {
		opts = append(opts, ledgerclient.WithTokenSource(
			jwt.NewSource(cfg.Ledger.JWTSecret, cfg.Ledger.TerminalID, jwt.ScopeWrite, cfg.JWT.Issuer, cfg.JWT.Expiration),
		))
	}
	client := ledgerclient.New(cfg.Ledger.BaseURL, cfg.Ledger.Timeout, opts...)

	store := ledger.NewStore(client, log, m)
	entries := inventory.NewEntryUseCase(store)
	reports := analytics.NewReportUseCase(store, m)
	dashboard := analytics.NewDashboardUseCase(store)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	// Carga inicial en segundo plano; una colección fallida queda en error hasta /api/sync.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.Timeout)
		defer cancel()
		if err := store.EnsureLoaded(ctx); err != nil {
			log.Warn().Err(err).Msg("carga inicial del ledger incompleta")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Ledger.Timeout + time.Second*10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "POS Bale API",
		}))
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:     store,
		Entries:   entries,
		Reports:   reports,
		Dashboard: dashboard,
		Renderer:  pdfGenerator,
		Metrics:   m,
		Logger:    log,
		Service:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("POS detenido")
}
