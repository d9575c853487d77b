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

	appforecast "github.com/AQIB050506/stockmaster/internal/application/forecast"
	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/internal/application/usecase"
	infracache "github.com/AQIB050506/stockmaster/internal/infrastructure/cache"
	infrakafka "github.com/AQIB050506/stockmaster/internal/infrastructure/kafka"
	infrapdf "github.com/AQIB050506/stockmaster/internal/infrastructure/pdf"
	"github.com/AQIB050506/stockmaster/internal/infrastructure/postgres"
	httpRouter "github.com/AQIB050506/stockmaster/internal/interfaces/http"
	"github.com/AQIB050506/stockmaster/pkg/config"
	"github.com/AQIB050506/stockmaster/pkg/logger"
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

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificador de cambios de stock: Kafka si hay broker, noop si no.
	var notifier ledger.Notifier = ledger.NoopNotifier{}
	if cfg.Kafka.Broker != "" {
		kafkaNotifier := infrakafka.NewStockNotifier(cfg.Kafka.Broker, cfg.Kafka.Topic, log)
		defer func() { _ = kafkaNotifier.Close() }()
		notifier = kafkaNotifier
		log.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("productor Kafka habilitado")
	}

	// Caché de pronósticos: Redis si hay addr, noop si no.
	var forecastCache appforecast.Cache
	if cfg.Redis.Addr != "" {
		redisCache := infracache.NewRedisForecastCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible; caché de pronósticos desactivado")
		} else {
			defer func() { _ = redisCache.Close() }()
			forecastCache = redisCache
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitado")
		}
	}

	transactionUC := ledger.NewTransactionUseCase(
		txRunner, transactionRepo, stockRepo, productRepo, warehouseRepo, notifier, log,
	).WithDocumentGenerator(infrapdf.NewMarotoDocumentGenerator())

	productUC := usecase.NewProductUseCase(productRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	stockUC := usecase.NewStockUseCase(stockRepo, productRepo)
	forecastUC := appforecast.NewForecastUseCase(stockRepo, transactionRepo, nil, forecastCache, 30*time.Second)

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
		Title:    "StockMaster API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		WarehouseUC:   warehouseUC,
		StockUC:       stockUC,
		TransactionUC: transactionUC,
		ForecastUC:    forecastUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
