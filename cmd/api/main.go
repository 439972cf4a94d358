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

	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

//go:generate go run github.com/swaggo/swag/cmd/swag init -d ../../ -g cmd/api/main.go -o ../../docs --outputTypes json --parseInternal --overridesFile ../../.swaggo

// @title                       Inventario Ledger API
// @version                     1.0
// @description                 Ledger de stock con lotes FIFO, recepción de órdenes, ventas, reversiones y bitácora.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo "Bearer ".
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Bool("audit_strict", cfg.Ledger.AuditStrict).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner inventory.TxRunner
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.AutoMigrate {
			mg, err := postgres.NewMigrator(pool, log)
			if err != nil {
				log.Fatal().Err(err).Msg("crear migrador")
			}
			if err := mg.Up(); err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
			if err := mg.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar migrador")
			}
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMS)
	}

	clock := inventory.SystemClock(cfg.App.Location())
	audit := inventory.NewAuditWriter(cfg.Ledger.AuditStrict, log)

	orderUC := inventory.NewReceiveOrderUseCase(txRunner, audit, log)
	allocationUC := inventory.NewAllocationUseCase(txRunner, audit, log)
	productUC := inventory.NewProductUseCase(txRunner, audit, orderUC, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(txRunner)
	supplierUC := usecase.NewSupplierUseCase(txRunner, audit)
	categoryUC := usecase.NewCategoryUseCase(txRunner, audit)
	activityUC := usecase.NewActivityUseCase(txRunner)
	userUC := usecase.NewUserUseCase(txRunner)
	authUC := auth.NewAuthUseCase(txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clock)

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
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          userUC,
		SupplierUC:      supplierUC,
		CategoryUC:      categoryUC,
		ActivityUC:      activityUC,
		ProductUC:       productUC,
		OrderUC:         orderUC,
		AllocationUC:    allocationUC,
		ReplenishmentUC: replenishmentUC,
		Clock:           clock,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
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
