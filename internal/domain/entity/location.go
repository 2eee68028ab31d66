package entity

import "time"

// Clases de ubicación. El libro de movimientos NO distingue por clase:
// una camioneta es un nodo más del árbol, sin semántica especial.
const (
	LocationKindSite      = "SITE"      // raíz del árbol
	LocationKindWarehouse = "WAREHOUSE"
	LocationKindVan       = "VAN"
	LocationKindBin       = "BIN"
	LocationKindShelf     = "SHELF"
)

// Location representa un nodo del árbol de ubicaciones (sitio → bodega → estante...).
type Location struct {
	ID        string
	ParentID  string // vacío para la raíz (sitio)
	Kind      string
	Name      string
	CreatedAt time.Time
}
