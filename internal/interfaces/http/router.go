package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Pinger health check del broker de eventos (nil si Redis no está configurado).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProposeUC    *ledger.ProposeMovementUseCase
	BalanceUC    *ledger.BalanceUseCase
	ApprovalUC   *ledger.ApprovalUseCase
	ItemRepo     repository.ItemRepository
	LocationRepo repository.LocationRepository
	Pool         *pgxpool.Pool
	EventPinger  Pinger
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Motor de movimientos (protegido)
	inv := protected.Group("/inventory")
	movementHandler := NewMovementHandler(deps.ProposeUC, deps.BalanceUC)
	inv.Post("/movements", movementHandler.ProposeMovement)
	inv.Get("/movements", movementHandler.ListMovements)

	balanceHandler := NewBalanceHandler(deps.BalanceUC)
	inv.Post("/balances/rebuild", RequireRole("admin"), balanceHandler.Rebuild)
	inv.Get("/balances/:item/:location", balanceHandler.GetBalance)
	inv.Get("/balances/:location", balanceHandler.ListLocationBalances)

	// Solicitudes de stock (protegido)
	requestHandler := NewRequestHandler(deps.ApprovalUC)
	inv.Post("/requests", requestHandler.CreateRequest)
	inv.Get("/requests", requestHandler.ListRequests)
	inv.Get("/requests/:id", requestHandler.GetRequest)
	inv.Post("/requests/:id/approve", RequireRole("admin", "aprobador"), requestHandler.ApproveRequest)
	inv.Post("/requests/:id/reject", RequireRole("admin", "aprobador"), requestHandler.RejectRequest)

	// Catálogo, solo lectura (protegido)
	catalogHandler := NewCatalogHandler(deps.ItemRepo, deps.LocationRepo)
	items := protected.Group("/items")
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	protected.Get("/locations", catalogHandler.ListLocations)
}

// healthHandler reporta el estado de la BD y del broker de eventos.
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := dto.HealthResponse{Status: "ok", DB: "ok"}
		if err := deps.Pool.Ping(c.Context()); err != nil {
			resp.Status = "degraded"
			resp.DB = "down"
		}
		if deps.EventPinger != nil {
			resp.Redis = "ok"
			if err := deps.EventPinger.Ping(c.Context()); err != nil {
				resp.Status = "degraded"
				resp.Redis = "down"
			}
		}
		status := fiber.StatusOK
		if resp.Status != "ok" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(resp)
	}
}
