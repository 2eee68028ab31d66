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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, proposal_id, item_id, source_location_id, dest_location_id,
	kind, quantity, unit, approximate, job_ref, actor_id, note, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla movement_entries es append-only: este
// adaptador no tiene UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append agrega una entrada inmutable. El índice único sobre proposal_id
// respalda la detección de replays: una violación se reporta como conflicto.
func (r *MovementRepo) Append(entry *entity.MovementEntry) error {
	query := `
		INSERT INTO movement_entries (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProposalID, entry.ItemID,
		nullable(entry.SourceLocationID), nullable(entry.DestLocationID),
		entry.Kind, entry.Quantity, entry.Unit, entry.Approximate,
		nullable(entry.JobRef), entry.ActorID, nullable(entry.Note), entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("%w: append movement: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// GetByProposalID devuelve las entradas escritas para una propuesta (vacío si ninguna).
func (r *MovementRepo) GetByProposalID(proposalID string) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE proposal_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("%w: get by proposal: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// GetByID obtiene una entrada por ID.
func (r *MovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get movement: %v", domain.ErrPersistenceFailure, err)
	}
	return m, nil
}

// List consulta de rango por fecha/artículo/ubicación/actor/tipo (reportes).
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (source_location_id = $%d OR dest_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list movements: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ReplayAscending recorre todo el libro en orden ascendente de timestamp
// (id como desempate) invocando fn por cada entrada.
func (r *MovementRepo) ReplayAscending(ctx context.Context, fn func(*entity.MovementEntry) error) error {
	query := `SELECT ` + movementColumns + ` FROM movement_entries ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: replay movements: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return fmt.Errorf("%w: scan movement: %v", domain.ErrPersistenceFailure, err)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	var source, dest, jobRef, note *string
	err := row.Scan(
		&m.ID, &m.ProposalID, &m.ItemID, &source, &dest,
		&m.Kind, &m.Quantity, &m.Unit, &m.Approximate, &jobRef, &m.ActorID, &note, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.SourceLocationID = deref(source)
	m.DestLocationID = deref(dest)
	m.JobRef = deref(jobRef)
	m.Note = deref(note)
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.MovementEntry, error) {
	var list []*entity.MovementEntry
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan movement: %v", domain.ErrPersistenceFailure, err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
