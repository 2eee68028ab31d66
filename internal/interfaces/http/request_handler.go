package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RequestHandler maneja el flujo de solicitudes de stock (protegido).
type RequestHandler struct {
	approvalUC *ledger.ApprovalUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(approvalUC *ledger.ApprovalUseCase) *RequestHandler {
	return &RequestHandler{approvalUC: approvalUC}
}

// CreateRequest godoc
// @Summary      Levantar una solicitud de stock
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "item, bodega origen, ubicación destino, cantidad"
// @Success      201  {object}  dto.StockRequestResponse
// @Router       /api/inventory/requests [post]
func (h *RequestHandler) CreateRequest(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.approvalUC.CreateRequest(c.Context(), ledger.CreateRequestInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		RequestedQty:   in.RequestedQty,
		JobRef:         in.JobRef,
		RequestedBy:    actorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(req))
}

// GetRequest godoc
// @Summary      Consultar una solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Router       /api/inventory/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *fiber.Ctx) error {
	req, err := h.approvalUC.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRequestResponse(req))
}

// ListRequests godoc
// @Summary      Listar solicitudes por estado
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, APPROVED, FULFILLED, ..."
// @Success      200  {array}  dto.StockRequestResponse
// @Router       /api/inventory/requests [get]
func (h *RequestHandler) ListRequests(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.approvalUC.ListRequests(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRequestResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

// ApproveRequest godoc
// @Summary      Aprobar una solicitud (total o parcial)
// @Description  Genera el TRANSFER bodega → solicitante vía el Validator.
//	Si el stock ya no alcanza, la solicitud queda FULFILLMENT_FAILED
//	y el aprobador debe re-decidir.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ApproveRequestRequest  true  "approved_qty"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/requests/{id}/approve [post]
func (h *RequestHandler) ApproveRequest(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApproveRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.approvalUC.ApplyApproval(c.Context(), c.Params("id"), in.ApprovedQty, actorID)
	if err != nil {
		if req != nil && req.Status == entity.RequestStatusFulfillmentFailed {
			// La decisión quedó registrada como fallida; devolver ambos:
			// el estado y el motivo del rechazo del Validator.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"request": toRequestResponse(req),
				"error":   dto.ErrorResponse{Code: "FULFILLMENT_FAILED", Message: err.Error()},
			})
		}
		return writeError(c, err)
	}
	return c.JSON(toRequestResponse(req))
}

// RejectRequest godoc
// @Summary      Rechazar una solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectRequestRequest  false  "reason"
// @Success      200  {object}  dto.StockRequestResponse
// @Router       /api/inventory/requests/{id}/reject [post]
func (h *RequestHandler) RejectRequest(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectRequestRequest
	_ = c.BodyParser(&in)
	req, err := h.approvalUC.Reject(c.Context(), c.Params("id"), actorID, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRequestResponse(req))
}

func toRequestResponse(r *entity.StockRequest) dto.StockRequestResponse {
	return dto.StockRequestResponse{
		ID:             r.ID,
		ItemID:         r.ItemID,
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		RequestedQty:   r.RequestedQty,
		ApprovedQty:    r.ApprovedQty,
		Status:         r.Status,
		JobRef:         r.JobRef,
		RequestedBy:    r.RequestedBy,
		DecidedBy:      r.DecidedBy,
		FailureReason:  r.FailureReason,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}
