// ledgerd sirve el contrato REST del ledger (categorías, compras, ventas) sobre
// PostgreSQL o, con LEDGER_STORE=memory, sobre repositorios en memoria.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-bale/internal/application/usecase"
	"github.com/jhoicas/pos-bale/internal/domain/repository"
	"github.com/jhoicas/pos-bale/internal/infrastructure/memory"
	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-bale/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-bale/internal/interfaces/http"
	"github.com/jhoicas/pos-bale/pkg/config"
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
		Str("store", cfg.Ledger.Store).
		Bool("auth", cfg.Ledger.AuthEnabled()).
		Msg("iniciando ledgerd")

	var (
		categories repository.CategoryRepository
		purchases  repository.PurchaseRepository
		sales      repository.SaleRepository
	)
	switch cfg.Ledger.Store {
	case "memory":
		categories = memory.NewCategoryRepository()
		purchases = memory.NewPurchaseRepository()
		sales = memory.NewSaleRepository()
	default:
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		applied, err := postgres.RunMigrations(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if len(applied) > 0 {
			log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
		}
		categories = postgres.NewCategoryRepository(pool)
		purchases = postgres.NewPurchaseRepository(pool)
		sales = postgres.NewSaleRepository(pool)
	}

	app := fiber.New(fiber.Config{
		AppName:      "ledgerd",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.LedgerRouter(app, httpRouter.LedgerRouterDeps{
		Categories: usecase.NewCategoryUseCase(categories),
		Purchases:  usecase.NewPurchaseUseCase(purchases, categories),
		Sales:      usecase.NewSaleUseCase(sales, categories),
		JWTSecret:  cfg.Ledger.JWTSecret,
		Metrics:    metrics.New("ledgerd"),
		Logger:     log,
		Service:    "ledgerd",
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
	log.Info().Msg("ledgerd detenido")
}
