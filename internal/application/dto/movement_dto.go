package dto

import "github.com/shopspring/decimal"

// EstimateDTO estimación flexi adjunta a una propuesta de movimiento.
// mode: PERCENT_FULL (0-100), CONTAINER_FRACTION (0-1) o MANUAL (cantidad directa).
type EstimateDTO struct {
	Mode  string          `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// ProposeMovementRequest body para POST /api/inventory/movements.
// quantity se omite cuando viene estimate (artículos flexi).
type ProposeMovementRequest struct {
	ProposalID       string          `json:"proposal_id,omitempty"`
	ItemID           string          `json:"item_id"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`
	SourceLocationID string          `json:"source_location_id,omitempty"`
	DestLocationID   string          `json:"dest_location_id,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	Estimate         *EstimateDTO    `json:"estimate,omitempty"`
	Correction       bool            `json:"correction_for_discrepancy,omitempty"`
	JobRef           string          `json:"job_ref,omitempty"`
	Note             string          `json:"note,omitempty"`
}

// MovementResponse entrada del libro en respuestas.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProposalID       string          `json:"proposal_id"`
	ItemID           string          `json:"item_id"`
	Kind             string          `json:"kind"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	Approximate      bool            `json:"approximate"`
	SourceLocationID string          `json:"source_location_id,omitempty"`
	DestLocationID   string          `json:"dest_location_id,omitempty"`
	JobRef           string          `json:"job_ref,omitempty"`
	ActorID          string          `json:"actor_id"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

// BalanceResponse saldo de un artículo en una ubicación.
type BalanceResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Reserved   decimal.Decimal `json:"reserved"`
	Available  decimal.Decimal `json:"available"`
}
