package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del motor de movimientos (protegido).
type MovementHandler struct {
	proposeUC *ledger.ProposeMovementUseCase
	balanceUC *ledger.BalanceUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(proposeUC *ledger.ProposeMovementUseCase, balanceUC *ledger.BalanceUseCase) *MovementHandler {
	return &MovementHandler{proposeUC: proposeUC, balanceUC: balanceUC}
}

// ProposeMovement godoc
// @Summary      Proponer un movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProposeMovementRequest  true  "item_id, kind, quantity (o estimate para flexi), ubicaciones según el tipo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) ProposeMovement(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ProposeMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := ledger.MovementInput{
		ProposalID:               in.ProposalID,
		ItemID:                   in.ItemID,
		Kind:                     in.Kind,
		Quantity:                 in.Quantity,
		SourceLocationID:         in.SourceLocationID,
		DestLocationID:           in.DestLocationID,
		Unit:                     in.Unit,
		CorrectionForDiscrepancy: in.Correction,
		JobRef:                   in.JobRef,
		ActorID:                  actorID,
		Note:                     in.Note,
	}
	if in.Estimate != nil {
		input.Estimate = &domledger.Estimate{Mode: in.Estimate.Mode, Value: in.Estimate.Value}
	}

	entry, err := h.proposeUC.ProposeMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(entry))
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Filtrar por artículo"
// @Param        location_id  query  string  false  "Filtrar por ubicación (origen o destino)"
// @Param        actor_id     query  string  false  "Filtrar por actor"
// @Param        kind         query  string  false  "Filtrar por tipo de movimiento"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	filter := repository.MovementFilter{
		ItemID:     c.Query("item_id"),
		LocationID: c.Query("location_id"),
		ActorID:    c.Query("actor_id"),
		Kind:       c.Query("kind"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida (RFC3339)"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida (RFC3339)"})
		}
		filter.To = &t
	}

	entries, err := h.balanceUC.Movements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toMovementResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

func toMovementResponse(e *entity.MovementEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               e.ID,
		ProposalID:       e.ProposalID,
		ItemID:           e.ItemID,
		Kind:             e.Kind,
		Quantity:         e.Quantity,
		Unit:             e.Unit,
		Approximate:      e.Approximate,
		SourceLocationID: e.SourceLocationID,
		DestLocationID:   e.DestLocationID,
		JobRef:           e.JobRef,
		ActorID:          e.ActorID,
		Note:             e.Note,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
	}
}
