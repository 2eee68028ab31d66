package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// MovementFilter criterios para consultas de rango sobre el libro (reportes).
type MovementFilter struct {
	ItemID     string
	LocationID string // coincide contra origen o destino
	ActorID    string
	Kind       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no existe Update ni Delete.
type MovementRepository interface {
	// Append agrega una entrada inmutable. Falla si el par (proposal_id, ubicación)
	// ya fue aplicado (clave de idempotencia).
	Append(entry *entity.MovementEntry) error
	// GetByProposalID devuelve las entradas ya escritas para una propuesta,
	// vacío si la propuesta nunca se aplicó. Usado para detectar replays.
	GetByProposalID(proposalID string) ([]*entity.MovementEntry, error)
	GetByID(id string) (*entity.MovementEntry, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementEntry, error)
	// ReplayAscending recorre TODO el libro en orden ascendente de timestamp
	// (y de id como desempate), invocando fn por cada entrada. Es el camino
	// de reconstrucción de las proyecciones.
	ReplayAscending(ctx context.Context, fn func(*entity.MovementEntry) error) error
}
