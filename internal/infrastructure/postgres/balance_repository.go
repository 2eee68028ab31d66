package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de la proyección de saldos sobre PostgreSQL
// (tabla balance_snapshots, usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `item_id, location_id, on_hand, reserved, last_entry_id, updated_at`

// Get obtiene el saldo actual; snapshot en cero si la fila no existe (no la crea).
func (r *BalanceRepo) Get(itemID, locationID string) (*entity.BalanceSnapshot, error) {
	return r.get(itemID, locationID, false)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// La serialización por (artículo, ubicación) del motor descansa en este lock.
//
// Si la fila no existe todavía se materializa en cero ANTES del lock: un
// FOR UPDATE sobre una fila inexistente no bloquea nada, y dos primeras
// escrituras concurrentes sobre el mismo par leerían ambas el snapshot en
// cero y la segunda pisaría el upsert de la primera. Se llama solo dentro
// de la transacción de escritura, así que un rollback también revierte la
// fila en cero: las lecturas siguen sin crear filas.
func (r *BalanceRepo) GetForUpdate(itemID, locationID string) (*entity.BalanceSnapshot, error) {
	ensure := `
		INSERT INTO balance_snapshots (item_id, location_id, on_hand, reserved, last_entry_id, updated_at)
		VALUES ($1, $2, 0, 0, NULL, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), ensure, itemID, locationID); err != nil {
		return nil, fmt.Errorf("%w: ensure balance row: %v", domain.ErrPersistenceFailure, err)
	}
	return r.get(itemID, locationID, true)
}

func (r *BalanceRepo) get(itemID, locationID string, forUpdate bool) (*entity.BalanceSnapshot, error) {
	query := `SELECT ` + balanceColumns + ` FROM balance_snapshots WHERE item_id = $1 AND location_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b entity.BalanceSnapshot
	var lastEntry *string
	err := r.q.QueryRow(context.Background(), query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.OnHand, &b.Reserved, &lastEntry, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BalanceSnapshot{
				ItemID:     itemID,
				LocationID: locationID,
				OnHand:     decimal.Zero,
				Reserved:   decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("%w: get balance: %v", domain.ErrPersistenceFailure, err)
	}
	b.LastEntryID = deref(lastEntry)
	return &b, nil
}

// Upsert inserta o actualiza el saldo (por artículo y ubicación). El guard
// last_entry_id <> EXCLUDED.last_entry_id evita la doble aplicación de la
// misma entrada al reintentar.
func (r *BalanceRepo) Upsert(b *entity.BalanceSnapshot) error {
	query := `
		INSERT INTO balance_snapshots (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved,
			last_entry_id = EXCLUDED.last_entry_id, updated_at = now()
		WHERE balance_snapshots.last_entry_id IS DISTINCT FROM EXCLUDED.last_entry_id`
	_, err := r.q.Exec(context.Background(), query,
		b.ItemID, b.LocationID, b.OnHand, b.Reserved, nullable(b.LastEntryID),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert balance: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// ListByLocation lista los saldos existentes de una ubicación.
func (r *BalanceRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.BalanceSnapshot, error) {
	query := `SELECT ` + balanceColumns + ` FROM balance_snapshots WHERE location_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: list balances: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	var list []*entity.BalanceSnapshot
	for rows.Next() {
		var b entity.BalanceSnapshot
		var lastEntry *string
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.OnHand, &b.Reserved, &lastEntry, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan balance: %v", domain.ErrPersistenceFailure, err)
		}
		b.LastEntryID = deref(lastEntry)
		list = append(list, &b)
	}
	return list, rows.Err()
}

// DeleteAll vacía la proyección. Solo la reconstrucción por replay lo usa,
// dentro de la misma transacción que re-deriva los snapshots.
func (r *BalanceRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM balance_snapshots`); err != nil {
		return fmt.Errorf("%w: delete balances: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}
