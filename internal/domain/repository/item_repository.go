package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ItemRepository puerto de lectura del catálogo de artículos.
// El mantenimiento del catálogo es de otro módulo; el motor solo consulta.
type ItemRepository interface {
	GetByID(id string) (*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
