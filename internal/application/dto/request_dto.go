package dto

import "github.com/shopspring/decimal"

// CreateStockRequestRequest body para POST /api/inventory/requests.
type CreateStockRequestRequest struct {
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	RequestedQty   decimal.Decimal `json:"requested_qty"`
	JobRef         string          `json:"job_ref,omitempty"`
}

// ApproveRequestRequest body para POST /api/inventory/requests/:id/approve.
// approved_qty puede ser menor que lo solicitado (aprobación parcial).
type ApproveRequestRequest struct {
	ApprovedQty decimal.Decimal `json:"approved_qty"`
}

// RejectRequestRequest body para POST /api/inventory/requests/:id/reject.
type RejectRequestRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StockRequestResponse solicitud de stock en respuestas.
type StockRequestResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	RequestedQty   decimal.Decimal `json:"requested_qty"`
	ApprovedQty    decimal.Decimal `json:"approved_qty"`
	Status         string          `json:"status"`
	JobRef         string          `json:"job_ref,omitempty"`
	RequestedBy    string          `json:"requested_by"`
	DecidedBy      string          `json:"decided_by,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      string          `json:"created_at"`
}
