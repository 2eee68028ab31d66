// Package redisevents publica los eventos del motor de movimientos por
// Redis pub/sub para el subsistema de notificaciones (externo).
// Best-effort: un fallo de publicación se registra y se descarta; jamás
// afecta un movimiento ya confirmado.
package redisevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// Canales de publicación.
const (
	ChannelMovements = "stock.movements"
	ChannelLowStock  = "stock.low_stock"
)

var _ ledger.Notifier = (*Publisher)(nil)

// Publisher implementación del Notifier sobre Redis pub/sub.
type Publisher struct {
	client *redis.Client
	log    *logger.Logger
}

// New construye el publisher desde la URL de Redis (redis://host:puerto/db).
func New(redisURL string, log *logger.Logger) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: redis.NewClient(opts), log: log}, nil
}

// Ping verifica la conexión (health check).
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// MovementCommitted publica el evento de movimiento confirmado.
func (p *Publisher) MovementCommitted(ctx context.Context, ev ledger.MovementCommittedEvent) {
	p.publish(ctx, ChannelMovements, ev)
}

// LowStock publica el cruce del nivel mínimo.
func (p *Publisher) LowStock(ctx context.Context, ev ledger.LowStockEvent) {
	p.publish(ctx, ChannelLowStock, ev)
}

func (p *Publisher) publish(ctx context.Context, channel string, ev any) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("channel", channel).Msg("serializar evento")
		return
	}
	// Timeout corto propio: el caller ya confirmó su transacción y no debe
	// quedarse esperando al broker.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.client.Publish(pubCtx, channel, payload).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Msg("publicar evento (descartado)")
	}
}
