package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot representa el saldo actual de un artículo en una ubicación
// (proyección materializada sobre MovementEntry, tabla balance_snapshots).
// No es fuente de verdad: siempre debe poder reconstruirse reproduciendo
// el libro en orden de timestamp.
//
// Invariantes tras cada movimiento confirmado:
//
//	Available() >= 0
//	OnHand >= Reserved
type BalanceSnapshot struct {
	ItemID     string
	LocationID string
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal
	// LastEntryID última entrada aplicada; protege contra doble aplicación
	// al reintentar la misma propuesta.
	LastEntryID string
	UpdatedAt   time.Time
}

// Available devuelve la cantidad elegible para nuevos ISSUE/RESERVE.
func (b *BalanceSnapshot) Available() decimal.Decimal {
	return b.OnHand.Sub(b.Reserved)
}

// Apply suma los deltas de una entrada al saldo y registra la entrada aplicada.
func (b *BalanceSnapshot) Apply(d BalanceDelta, entryID string, at time.Time) {
	b.OnHand = b.OnHand.Add(d.OnHand)
	b.Reserved = b.Reserved.Add(d.Reserved)
	b.LastEntryID = entryID
	b.UpdatedAt = at
}
