package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de unidad de un artículo.
const (
	UnitTypeUnit      = "UNIT"      // unidad discreta (piezas)
	UnitTypeLength    = "LENGTH"    // metros, rollos por longitud
	UnitTypeMass      = "MASS"      // kilogramos
	UnitTypeVolume    = "VOLUME"    // litros
	UnitTypeContainer = "CONTAINER" // cajas, tambores, cilindros
	UnitTypeFlexi     = "FLEXI"     // cantidad aproximada/estimada
)

// Item representa un artículo del catálogo. La identidad es inmutable;
// los campos descriptivos los administra el módulo de artículos (externo),
// aquí solo se leen para validar movimientos.
type Item struct {
	ID           string
	SKU          string
	Name         string
	UnitType     string          // UNIT, LENGTH, MASS, VOLUME, CONTAINER, FLEXI
	MinimumLevel decimal.Decimal // umbral de stock bajo (0 = sin umbral)
	// ContainerCapacity cantidad concreta que representa un contenedor lleno.
	// Requerida para resolver estimaciones de artículos flexi (porcentaje o fracción).
	ContainerCapacity decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFlexi indica si el artículo se rastrea por cantidad estimada.
func (i *Item) IsFlexi() bool {
	return i.UnitType == UnitTypeFlexi || i.UnitType == UnitTypeContainer
}
