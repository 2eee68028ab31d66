package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Modos de estimación para artículos flexi.
const (
	EstimateModePercentFull       = "PERCENT_FULL"       // porcentaje de llenado del contenedor
	EstimateModeContainerFraction = "CONTAINER_FRACTION" // fracción (ej. 3/4 de tambor)
	EstimateModeManual            = "MANUAL"             // cifra estimada a ojo
)

// Estimate entrada de estimación para un movimiento aproximado.
// Value se interpreta según Mode: porcentaje 0-100, fracción 0-1, o cantidad directa.
type Estimate struct {
	Mode  string
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ResolveEstimate convierte una estimación flexi en cantidad concreta usando
// la capacidad de contenedor configurada del artículo (servicio de dominio).
// Se resuelve UNA sola vez, al proponer el movimiento: la entrada del libro
// guarda la cifra concreta más la bandera approximate, de modo que el replay
// nunca dependa de parámetros de conversión que cambien después.
func ResolveEstimate(item *entity.Item, est Estimate) (decimal.Decimal, error) {
	switch est.Mode {
	case EstimateModePercentFull:
		if est.Value.LessThan(decimal.Zero) || est.Value.GreaterThan(hundred) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if item.ContainerCapacity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return item.ContainerCapacity.Mul(est.Value).Div(hundred), nil
	case EstimateModeContainerFraction:
		if est.Value.LessThan(decimal.Zero) || est.Value.GreaterThan(decimal.NewFromInt(1)) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if item.ContainerCapacity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return item.ContainerCapacity.Mul(est.Value), nil
	case EstimateModeManual:
		if est.Value.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return est.Value, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}
