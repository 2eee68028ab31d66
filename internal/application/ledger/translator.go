package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ApprovalUseCase es el Translator: convierte una solicitud de stock aprobada
// en movimientos del libro. La aprobación pasa SIEMPRE por el Validator:
// que un humano ya haya aceptado la cantidad no exime el chequeo de
// disponibilidad, porque el stock físico pudo moverse desde que se pidió.
type ApprovalUseCase struct {
	txRunner  TxRunner
	proposeUC *ProposeMovementUseCase
	reqRepo   repository.StockRequestRepository
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(txRunner TxRunner, proposeUC *ProposeMovementUseCase, reqRepo repository.StockRequestRepository) *ApprovalUseCase {
	return &ApprovalUseCase{txRunner: txRunner, proposeUC: proposeUC, reqRepo: reqRepo}
}

// CreateRequestInput datos para levantar una solicitud de stock.
type CreateRequestInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	RequestedQty   decimal.Decimal
	JobRef         string
	RequestedBy    string
}

// CreateRequest registra la solicitud en estado PENDING.
func (uc *ApprovalUseCase) CreateRequest(ctx context.Context, in CreateRequestInput) (*entity.StockRequest, error) {
	if in.ItemID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if !in.RequestedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	req := &entity.StockRequest{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		RequestedQty:   in.RequestedQty,
		Status:         entity.RequestStatusPending,
		JobRef:         in.JobRef,
		RequestedBy:    in.RequestedBy,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.reqRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequest devuelve una solicitud por id.
func (uc *ApprovalUseCase) GetRequest(ctx context.Context, id string) (*entity.StockRequest, error) {
	req, err := uc.reqRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// ListRequests lista solicitudes por estado.
func (uc *ApprovalUseCase) ListRequests(ctx context.Context, status string, limit, offset int) ([]*entity.StockRequest, error) {
	return uc.reqRepo.ListByStatus(ctx, status, limit, offset)
}

// ApplyApproval aplica la decisión del aprobador: marca la solicitud como
// APPROVED o PARTIALLY_APPROVED y emite un TRANSFER bodega → solicitante por
// exactamente approvedQty, todo en una transacción. La aprobación parcial es
// válida y NO genera un segundo movimiento por el remanente.
//
// Si el Validator rechaza el movimiento (ej. el stock se movió debajo de la
// aprobación), la solicitud queda en FULFILLMENT_FAILED con el motivo y el
// error se devuelve al aprobador para re-decisión; nunca se reintenta en
// silencio. Una solicitud en FULFILLMENT_FAILED admite una nueva decisión.
// Reintentar una aprobación ya cumplida con la misma cantidad devuelve el
// resultado original (idempotente); con otra cantidad es conflicto.
func (uc *ApprovalUseCase) ApplyApproval(ctx context.Context, requestID string, approvedQty decimal.Decimal, actor string) (*entity.StockRequest, error) {
	if !approvedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var (
		req       *entity.StockRequest
		entry     *entity.MovementEntry
		crossings []LowStockEvent
		replayed  bool
		fulfilled bool  // reintento de una aprobación ya cumplida
		vErr      error // rechazo del Validator: se persiste el estado fallido y se devuelve
	)
	err := uc.txRunner.RunRequest(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
		reqRepo repository.StockRequestRepository,
	) error {
		var err error
		req, err = reqRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending && req.Status != entity.RequestStatusFulfillmentFailed {
			// Reintento de la misma decisión (respuesta perdida): devolver
			// el resultado original sin re-aplicar. Cualquier otra
			// re-decisión sobre una solicitud cerrada es conflicto.
			if req.Status == entity.RequestStatusFulfilled && req.ApprovedQty.Equal(approvedQty) {
				fulfilled = true
				return nil
			}
			return domain.ErrConflict
		}
		if approvedQty.GreaterThan(req.RequestedQty) {
			return domain.ErrApprovalExceedsRequest
		}

		now := time.Now().UTC()
		req.ApprovedQty = approvedQty
		req.DecidedBy = actor
		req.DecidedAt = now
		if approvedQty.LessThan(req.RequestedQty) {
			req.Status = entity.RequestStatusPartiallyApproved
		} else {
			req.Status = entity.RequestStatusApproved
		}

		entry, crossings, replayed, err = uc.proposeUC.ProposeMovementInTx(movRepo, balRepo, MovementInput{
			// ProposalID estable por solicitud: reintentar tras una falla de
			// persistencia no duplica el traslado.
			ProposalID:       "approval:" + req.ID,
			ItemID:           req.ItemID,
			Kind:             entity.MovementKindTransfer,
			Quantity:         approvedQty,
			SourceLocationID: req.FromLocationID,
			DestLocationID:   req.ToLocationID,
			JobRef:           req.JobRef,
			ActorID:          actor,
		})
		if err != nil {
			if errors.Is(err, domain.ErrPersistenceFailure) {
				return err
			}
			// Rechazo del Validator: la decisión se conserva como fallida.
			req.Status = entity.RequestStatusFulfillmentFailed
			req.FailureReason = err.Error()
			vErr = err
			return reqRepo.Update(req)
		}

		req.Status = entity.RequestStatusFulfilled
		return reqRepo.Update(req)
	})
	if err != nil {
		return nil, err
	}
	if vErr != nil {
		return req, vErr
	}

	if !fulfilled && !replayed {
		uc.proposeUC.Publish(ctx, entry, crossings)
	}
	return req, nil
}

// Reject marca la solicitud como rechazada sin generar movimientos.
func (uc *ApprovalUseCase) Reject(ctx context.Context, requestID, actor, reason string) (*entity.StockRequest, error) {
	var req *entity.StockRequest
	err := uc.txRunner.RunRequest(ctx, func(
		_ repository.MovementRepository,
		_ repository.BalanceRepository,
		reqRepo repository.StockRequestRepository,
	) error {
		var err error
		req, err = reqRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Decided() {
			return domain.ErrConflict
		}
		req.Status = entity.RequestStatusRejected
		req.DecidedBy = actor
		req.DecidedAt = time.Now().UTC()
		req.FailureReason = reason
		return reqRepo.Update(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}
