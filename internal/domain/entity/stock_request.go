package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de stock.
//
//	PENDING → {APPROVED, PARTIALLY_APPROVED, REJECTED}
//	APPROVED / PARTIALLY_APPROVED → FULFILLED | FULFILLMENT_FAILED
//
// FULFILLMENT_FAILED es terminal para esta aprobación: el aprobador debe
// re-decidir; nunca se reintenta en silencio.
const (
	RequestStatusPending           = "PENDING"
	RequestStatusApproved          = "APPROVED"
	RequestStatusPartiallyApproved = "PARTIALLY_APPROVED"
	RequestStatusRejected          = "REJECTED"
	RequestStatusFulfilled         = "FULFILLED"
	RequestStatusFulfillmentFailed = "FULFILLMENT_FAILED"
)

// StockRequest solicitud de material de una ubicación (camioneta, obra)
// contra una bodega. La aprobación genera movimientos vía el Translator.
type StockRequest struct {
	ID             string
	ItemID         string
	FromLocationID string // bodega que despacha
	ToLocationID   string // ubicación solicitante
	RequestedQty   decimal.Decimal
	ApprovedQty    decimal.Decimal // 0 hasta que se decide
	Status         string
	JobRef         string
	RequestedBy    string
	DecidedBy      string
	FailureReason  string // motivo cuando Status = FULFILLMENT_FAILED
	CreatedAt      time.Time
	DecidedAt      time.Time
}

// Decided indica si la solicitud ya salió de PENDING.
func (r *StockRequest) Decided() bool {
	return r.Status != RequestStatusPending
}
