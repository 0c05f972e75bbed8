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
	appoutbound "github.com/jhoicas/salidas-api/internal/application/outbound"
	"github.com/jhoicas/salidas-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/salidas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/salidas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/salidas-api/internal/interfaces/http"
	"github.com/jhoicas/salidas-api/pkg/config"
	"github.com/jhoicas/salidas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	stockRepo := postgres.NewStockItemRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	outboundRepo := postgres.NewOutboundRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	outboundUC := appoutbound.NewUseCase(txRunner, outboundRepo, stockRepo, unitRepo, userRepo, appoutbound.Config{
		EnforceUnitMatch: cfg.Outbound.EnforceUnitMatch,
		ConflictRetries:  cfg.Outbound.ConflictRetries,
	})
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := appoutbound.NewPDFUseCase(outboundUC, pdfGenerator)
	stockUC := usecase.NewStockUseCase(stockRepo, unitRepo)
	unitUC := usecase.NewUnitUseCase(unitRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en /docs, solo si el JSON generado está presente en el deploy
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Salidas API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado; UI de documentación deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:    stockUC,
		UnitUC:     unitUC,
		OutboundUC: outboundUC,
		PDFUC:      pdfUC,
		JWTSecret:  cfg.JWT.Secret,
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
