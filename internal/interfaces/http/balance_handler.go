package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// BalanceHandler expone la proyección de saldos y su reconstrucción (protegido).
type BalanceHandler struct {
	balanceUC *ledger.BalanceUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(balanceUC *ledger.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GetBalance godoc
// @Summary      Saldo de un artículo en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item      path  string  true  "ID del artículo"
// @Param        location  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/inventory/balances/{item}/{location} [get]
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	snap, err := h.balanceUC.CurrentBalance(c.Context(), c.Params("item"), c.Params("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBalanceResponse(snap))
}

// ListLocationBalances godoc
// @Summary      Saldos de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location  path  string  true  "ID de la ubicación"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/inventory/balances/{location} [get]
func (h *BalanceHandler) ListLocationBalances(c *fiber.Ctx) error {
	snaps, err := h.balanceUC.LocationBalances(c.Context(), c.Params("location"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toBalanceResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(out), "balances": out})
}

// Rebuild godoc
// @Summary      Reconstruir la proyección de saldos desde el libro
// @Description  Reproduce todas las entradas en orden de timestamp y re-deriva
//	cada snapshot desde cero. Usar cuando el snapshot store se
//	sospecha inconsistente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/inventory/balances/rebuild [post]
func (h *BalanceHandler) Rebuild(c *fiber.Ctx) error {
	n, err := h.balanceUC.Rebuild(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"rebuilt": n})
}

func toBalanceResponse(s *entity.BalanceSnapshot) dto.BalanceResponse {
	return dto.BalanceResponse{
		ItemID:     s.ItemID,
		LocationID: s.LocationID,
		OnHand:     s.OnHand,
		Reserved:   s.Reserved,
		Available:  s.Available(),
	}
}
