package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MovementCommittedEvent se emite por cada entrada confirmada del libro.
type MovementCommittedEvent struct {
	EntryID          string          `json:"entry_id"`
	ProposalID       string          `json:"proposal_id"`
	ItemID           string          `json:"item_id"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`
	SourceLocationID string          `json:"source_location_id,omitempty"`
	DestLocationID   string          `json:"dest_location_id,omitempty"`
	ActorID          string          `json:"actor_id"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// LowStockEvent se emite cuando el disponible cruza hacia abajo el nivel
// mínimo configurado del artículo.
type LowStockEvent struct {
	ItemID       string          `json:"item_id"`
	LocationID   string          `json:"location_id"`
	Available    decimal.Decimal `json:"available"`
	MinimumLevel decimal.Decimal `json:"minimum_level"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// Notifier puerto hacia el subsistema de notificaciones (externo).
// Fire-and-forget y best-effort: se invoca DESPUÉS del commit, nunca dentro
// de la transacción ni sosteniendo el lock de saldo; un error de entrega
// jamás revierte un movimiento ya confirmado.
type Notifier interface {
	MovementCommitted(ctx context.Context, ev MovementCommittedEvent)
	LowStock(ctx context.Context, ev LowStockEvent)
}

// NopNotifier implementación nula para tests y despliegues sin notificaciones.
type NopNotifier struct{}

func (NopNotifier) MovementCommitted(context.Context, MovementCommittedEvent) {}
func (NopNotifier) LowStock(context.Context, LowStockEvent)                   {}
