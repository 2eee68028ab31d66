package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro (conjunto cerrado).
const (
	MovementKindReceive  = "RECEIVE"  // entrada desde el exterior
	MovementKindIssue    = "ISSUE"    // salida hacia el exterior
	MovementKindReserve  = "RESERVE"  // apartar cantidad para un trabajo
	MovementKindRelease  = "RELEASE"  // liberar una reserva
	MovementKindAdjust   = "ADJUST"   // corrección / merma
	MovementKindTransfer = "TRANSFER" // traslado entre ubicaciones
	MovementKindReturn   = "RETURN"   // devolución asociada a un trabajo previo
)

// MovementKinds lista los tipos válidos, para validación y queries.
var MovementKinds = []string{
	MovementKindReceive,
	MovementKindIssue,
	MovementKindReserve,
	MovementKindRelease,
	MovementKindAdjust,
	MovementKindTransfer,
	MovementKindReturn,
}

// MovementEntry es un registro inmutable del libro de movimientos.
// Una vez escrito nunca se modifica ni se borra: las correcciones son
// nuevas entradas ADJUST. La cantidad siempre es positiva; la dirección
// la implica el tipo (y para ADJUST, cuál ubicación está presente).
type MovementEntry struct {
	ID         string
	ProposalID string // clave de idempotencia suministrada por el caller
	ItemID     string
	// SourceLocationID y DestLocationID son opcionales: vacío significa
	// "exterior" (recepción o despacho fuera del sistema).
	SourceLocationID string
	DestLocationID   string
	Kind             string
	Quantity         decimal.Decimal // magnitud, siempre > 0
	Unit             string
	Approximate      bool   // la cantidad proviene de una estimación flexi
	JobRef           string // referencia a trabajo (obligatoria en RETURN)
	ActorID          string
	Note             string
	CreatedAt        time.Time
}

// HasSource y HasDest indican si la entrada referencia ubicación interna.
func (m *MovementEntry) HasSource() bool { return m.SourceLocationID != "" }
func (m *MovementEntry) HasDest() bool   { return m.DestLocationID != "" }

// BalanceDeltas devuelve los efectos de la entrada sobre las proyecciones
// de saldo, como lista de (ubicación, delta onHand, delta reserved).
// Es la única definición de la semántica por tipo: tanto la aplicación
// incremental como la reconstrucción por replay pasan por aquí.
func (m *MovementEntry) BalanceDeltas() []BalanceDelta {
	q := m.Quantity
	switch m.Kind {
	case MovementKindReceive:
		return []BalanceDelta{{LocationID: m.DestLocationID, OnHand: q}}
	case MovementKindIssue:
		return []BalanceDelta{{LocationID: m.SourceLocationID, OnHand: q.Neg()}}
	case MovementKindReserve:
		return []BalanceDelta{{LocationID: m.SourceLocationID, Reserved: q}}
	case MovementKindRelease:
		return []BalanceDelta{{LocationID: m.SourceLocationID, Reserved: q.Neg()}}
	case MovementKindAdjust:
		if m.HasDest() {
			return []BalanceDelta{{LocationID: m.DestLocationID, OnHand: q}}
		}
		return []BalanceDelta{{LocationID: m.SourceLocationID, OnHand: q.Neg()}}
	case MovementKindTransfer:
		return []BalanceDelta{
			{LocationID: m.SourceLocationID, OnHand: q.Neg()},
			{LocationID: m.DestLocationID, OnHand: q},
		}
	case MovementKindReturn:
		// La devolución solo acredita el destino; el origen queda como
		// dato de auditoría (de dónde volvió) y nunca se debita.
		return []BalanceDelta{{LocationID: m.DestLocationID, OnHand: q}}
	}
	return nil
}

// BalanceDelta efecto de una entrada sobre el saldo de una ubicación.
type BalanceDelta struct {
	LocationID string
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal
}
