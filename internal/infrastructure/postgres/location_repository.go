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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo lectura del árbol de ubicaciones.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, parent_id, kind, name, created_at`

// GetByID obtiene una ubicación por ID. Devuelve nil sin error si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get location: %v", domain.ErrPersistenceFailure, err)
	}
	return loc, nil
}

// List lista todas las ubicaciones del árbol.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name`
	return r.list(ctx, query)
}

// ListChildren lista los hijos directos de un nodo.
func (r *LocationRepo) ListChildren(ctx context.Context, parentID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE parent_id = $1 ORDER BY name`
	return r.list(ctx, query, parentID)
}

func (r *LocationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list locations: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan location: %v", domain.ErrPersistenceFailure, err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var loc entity.Location
	var parent *string
	if err := row.Scan(&loc.ID, &parent, &loc.Kind, &loc.Name, &loc.CreatedAt); err != nil {
		return nil, err
	}
	loc.ParentID = deref(parent)
	return &loc, nil
}
