package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo persistencia de solicitudes de stock (usable con pool o tx).
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

const requestColumns = `id, item_id, from_location_id, to_location_id, requested_qty,
	approved_qty, status, job_ref, requested_by, decided_by, failure_reason, created_at, decided_at`

// Create persiste una solicitud nueva (estado PENDING).
func (r *StockRequestRepo) Create(req *entity.StockRequest) error {
	query := `
		INSERT INTO stock_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.ItemID, req.FromLocationID, req.ToLocationID, req.RequestedQty,
		req.ApprovedQty, req.Status, nullable(req.JobRef), req.RequestedBy,
		nullable(req.DecidedBy), nullable(req.FailureReason), req.CreatedAt, nullTime(req.DecidedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("%w: create stock request: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// GetByID obtiene una solicitud. Devuelve nil sin error si no existe.
func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la solicitud bloqueando la fila, para que dos
// aprobadores no decidan la misma solicitud a la vez.
func (r *StockRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	return r.get(id, true)
}

func (r *StockRequestRepo) get(id string, forUpdate bool) (*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get stock request: %v", domain.ErrPersistenceFailure, err)
	}
	return req, nil
}

// Update persiste la decisión sobre la solicitud.
func (r *StockRequestRepo) Update(req *entity.StockRequest) error {
	query := `
		UPDATE stock_requests
		SET approved_qty = $2, status = $3, decided_by = $4, failure_reason = $5, decided_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.ApprovedQty, req.Status, nullable(req.DecidedBy),
		nullable(req.FailureReason), nullTime(req.DecidedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: update stock request: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// ListByStatus lista solicitudes filtradas por estado (vacío = todas).
func (r *StockRequestRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.StockRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + requestColumns + ` FROM stock_requests`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list stock requests: %v", domain.ErrPersistenceFailure, err)
	}
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan stock request: %v", domain.ErrPersistenceFailure, err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func scanRequest(row pgx.Row) (*entity.StockRequest, error) {
	var req entity.StockRequest
	var jobRef, decidedBy, failureReason *string
	var decidedAt *time.Time
	if err := row.Scan(
		&req.ID, &req.ItemID, &req.FromLocationID, &req.ToLocationID, &req.RequestedQty,
		&req.ApprovedQty, &req.Status, &jobRef, &req.RequestedBy,
		&decidedBy, &failureReason, &req.CreatedAt, &decidedAt,
	); err != nil {
		return nil, err
	}
	req.JobRef = deref(jobRef)
	req.DecidedBy = deref(decidedBy)
	req.FailureReason = deref(failureReason)
	if decidedAt != nil {
		req.DecidedAt = *decidedAt
	}
	return &req, nil
}
