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
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/redisevents"
	httpRouter "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
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

	// Notifier: Redis pub/sub si está configurado; si no, log estructurado.
	var (
		notifier    ledger.Notifier
		eventPinger httpRouter.Pinger
	)
	if cfg.Redis.URL != "" {
		publisher, err := redisevents.New(cfg.Redis.URL, log.Component("events"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer publisher.Close()
		notifier = publisher
		eventPinger = publisher
		log.Info().Msg("eventos por Redis pub/sub")
	} else {
		notifier = redisevents.NewLogNotifier(log.Component("events"))
		log.Info().Msg("eventos al log (REDIS_URL no definido)")
	}

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	proposeUC := ledger.NewProposeMovementUseCase(txRunner, itemRepo, locationRepo, notifier)
	balanceUC := ledger.NewBalanceUseCase(txRunner, balanceRepo, movementRepo)
	approvalUC := ledger.NewApprovalUseCase(txRunner, proposeUC, requestRepo)

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
		Title:    "Stock Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProposeUC:    proposeUC,
		BalanceUC:    balanceUC,
		ApprovalUC:   approvalUC,
		ItemRepo:     itemRepo,
		LocationRepo: locationRepo,
		Pool:         pool,
		EventPinger:  eventPinger,
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
