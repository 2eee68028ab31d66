package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo lectura del catálogo de artículos (el mantenimiento es de otro módulo).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, unit_type, minimum_level, container_capacity, created_at, updated_at`

// GetByID obtiene un artículo por ID. Devuelve nil sin error si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.SKU, &it.Name, &it.UnitType, &it.MinimumLevel,
		&it.ContainerCapacity, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get item: %v", domain.ErrPersistenceFailure, err)
	}
	return &it, nil
}

// List lista artículos con paginación.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.SKU, &it.Name, &it.UnitType, &it.MinimumLevel,
			&it.ContainerCapacity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", domain.ErrPersistenceFailure, err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
