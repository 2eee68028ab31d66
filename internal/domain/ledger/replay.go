package ledger

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// BalanceKey identifica una proyección de saldo.
type BalanceKey struct {
	ItemID     string
	LocationID string
}

// Replay reconstruye las proyecciones de saldo desde cero aplicando las
// entradas en el orden recibido (deben venir en orden ascendente de
// timestamp). Es el oráculo de corrección del mantenimiento incremental:
// para cualquier secuencia de movimientos, el resultado del replay debe
// coincidir exactamente con los snapshots vivos.
func Replay(entries []*entity.MovementEntry) map[BalanceKey]*entity.BalanceSnapshot {
	balances := make(map[BalanceKey]*entity.BalanceSnapshot)
	for _, e := range entries {
		ApplyToProjection(balances, e)
	}
	return balances
}

// ApplyToProjection aplica una entrada sobre el mapa de proyecciones,
// creando el snapshot en cero si no existía.
func ApplyToProjection(balances map[BalanceKey]*entity.BalanceSnapshot, e *entity.MovementEntry) {
	for _, d := range e.BalanceDeltas() {
		key := BalanceKey{ItemID: e.ItemID, LocationID: d.LocationID}
		snap, ok := balances[key]
		if !ok {
			snap = &entity.BalanceSnapshot{ItemID: e.ItemID, LocationID: d.LocationID}
			balances[key] = snap
		}
		snap.Apply(d, e.ID, e.CreatedAt)
	}
}
