package redisevents

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

var _ ledger.Notifier = (*LogNotifier)(nil)

// LogNotifier deja los eventos en el log estructurado cuando no hay Redis
// configurado (despliegues chicos o desarrollo local).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notifier de respaldo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) MovementCommitted(_ context.Context, ev ledger.MovementCommittedEvent) {
	n.log.Info().
		Str("entry_id", ev.EntryID).
		Str("item_id", ev.ItemID).
		Str("kind", ev.Kind).
		Str("quantity", ev.Quantity.String()).
		Str("actor_id", ev.ActorID).
		Msg("movimiento confirmado")
}

func (n *LogNotifier) LowStock(_ context.Context, ev ledger.LowStockEvent) {
	n.log.Warn().
		Str("item_id", ev.ItemID).
		Str("location_id", ev.LocationID).
		Str("available", ev.Available.String()).
		Str("minimum_level", ev.MinimumLevel.String()).
		Msg("stock bajo el nivel mínimo")
}
