package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// CatalogHandler lecturas del catálogo de artículos y del árbol de ubicaciones.
// El mantenimiento de ambos es de otro módulo; aquí solo se consulta lo que
// el motor necesita para validar movimientos.
type CatalogHandler struct {
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(itemRepo repository.ItemRepository, locationRepo repository.LocationRepository) *CatalogHandler {
	return &CatalogHandler{itemRepo: itemRepo, locationRepo: locationRepo}
}

// GetItem devuelve un artículo por ID.
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemRepo.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if item == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(item)
}

// ListItems lista artículos con paginación.
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	items, err := h.itemRepo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// ListLocations lista el árbol de ubicaciones completo.
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locs, err := h.locationRepo.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(locs), "locations": locs})
}
