package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// writeError traduce un error de dominio al envelope {code, message}.
// Ningún error del motor es fatal para el proceso: el caller corrige la
// entrada o reconsulta el saldo.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidMovementShape):
		return respond(c, fiber.StatusBadRequest, "INVALID_MOVEMENT_SHAPE", err)
	case errors.Is(err, domain.ErrUnitMismatch):
		return respond(c, fiber.StatusBadRequest, "UNIT_MISMATCH", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrApprovalExceedsRequest):
		return respond(c, fiber.StatusBadRequest, "APPROVAL_EXCEEDS_REQUEST", err)
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrInsufficientAvailable):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_AVAILABLE", err)
	case errors.Is(err, domain.ErrInvalidReservationRelease):
		return respond(c, fiber.StatusConflict, "INVALID_RESERVATION_RELEASE", err)
	case errors.Is(err, domain.ErrNegativeOnHandRejected):
		return respond(c, fiber.StatusConflict, "NEGATIVE_ON_HAND_REJECTED", err)
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", err)
	case errors.Is(err, domain.ErrPersistenceFailure):
		return respond(c, fiber.StatusServiceUnavailable, "PERSISTENCE_FAILURE", err)
	}
	return respond(c, fiber.StatusInternalServerError, "INTERNAL", err)
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
