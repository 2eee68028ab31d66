package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// LocationRepository puerto de lectura del árbol de ubicaciones.
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Location, error)
}
