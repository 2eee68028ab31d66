package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// BalanceRepository define el puerto para la proyección de saldos por
// artículo+ubicación. Usado dentro de transacciones para garantizar
// consistencia con la escritura del libro.
type BalanceRepository interface {
	// Get devuelve el saldo actual; si la fila no existe devuelve un snapshot
	// en cero SIN crear la fila (las filas nacen con la primera escritura).
	Get(itemID, locationID string) (*entity.BalanceSnapshot, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE),
	// materializándola en cero si no existe para que el lock tenga efecto
	// en la primera escritura del par. Solo se llama dentro de la
	// transacción de escritura.
	GetForUpdate(itemID, locationID string) (*entity.BalanceSnapshot, error)
	Upsert(b *entity.BalanceSnapshot) error
	ListByLocation(ctx context.Context, locationID string) ([]*entity.BalanceSnapshot, error)
	// DeleteAll vacía la proyección; solo lo usa la reconstrucción por replay.
	DeleteAll() error
}
