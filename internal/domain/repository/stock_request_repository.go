package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockRequestRepository puerto de persistencia de solicitudes de stock.
type StockRequestRepository interface {
	Create(req *entity.StockRequest) error
	GetByID(id string) (*entity.StockRequest, error)
	// GetForUpdate bloquea la fila para decidir la solicitud sin carreras
	// entre dos aprobadores.
	GetForUpdate(id string) (*entity.StockRequest, error)
	Update(req *entity.StockRequest) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.StockRequest, error)
}
