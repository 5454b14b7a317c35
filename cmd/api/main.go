package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/auth"
	"github.com/taller3d/printforge-api/internal/application/catalog"
	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/application/orders"
	"github.com/taller3d/printforge-api/internal/application/quotes"
	infrapdf "github.com/taller3d/printforge-api/internal/infrastructure/pdf"
	"github.com/taller3d/printforge-api/internal/infrastructure/postgres"
	httpRouter "github.com/taller3d/printforge-api/internal/interfaces/http"
	"github.com/taller3d/printforge-api/pkg/config"
	"github.com/taller3d/printforge-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: logger.LevelInfo,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Los márgenes vienen de config como string para no perder precisión.
	safetyMargin, err := decimal.NewFromString(cfg.Pricing.SafetyMargin)
	if err != nil {
		log.Fatal().Err(err).Msg("PRICING_SAFETY_MARGIN inválido")
	}
	markup, err := decimal.NewFromString(cfg.Pricing.DefaultMarkup)
	if err != nil {
		log.Fatal().Err(err).Msg("PRICING_DEFAULT_MARKUP inválido")
	}

	userRepo := postgres.NewUserRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	filamentRepo := postgres.NewFilamentRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	modelRepo := postgres.NewModelRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	itemRepo := postgres.NewLineItemRepository(pool)
	shippingRepo := postgres.NewShippingRepository(pool)
	fulfillmentRepo := postgres.NewFulfillmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(materialRepo, filamentRepo, supplierRepo, modelRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, lotRepo, ledgerRepo, supplierRepo, filamentRepo, safetyMargin)
	allocationUC := inventory.NewAllocationUseCase(txRunner, modelRepo, lotRepo, safetyMargin, markup)
	ordersUC := orders.NewUseCase(orderRepo, itemRepo, shippingRepo, fulfillmentRepo)

	quotePDF := infrapdf.NewMarotoQuoteGenerator()
	quotesUC := quotes.NewUseCase(modelRepo, filamentRepo, lotRepo, ledgerRepo, quotePDF, safetyMargin, markup)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PrintForge API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		LedgerUC:     ledgerUC,
		AllocationUC: allocationUC,
		OrdersUC:     ordersUC,
		QuotesUC:     quotesUC,
		JWTSecret:    cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
