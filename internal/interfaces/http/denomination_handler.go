package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
)

// DenominationHandler maneja el CRUD de denominaciones de efectivo (protegido).
type DenominationHandler struct {
	uc *usecase.DenominationUseCase
}

// NewDenominationHandler construye el handler.
func NewDenominationHandler(uc *usecase.DenominationUseCase) *DenominationHandler {
	return &DenominationHandler{uc: uc}
}

// Create registra una denominación. Solo admin.
// POST /api/denominations
func (h *DenominationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDenominationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	denom, err := h.uc.Create(in)
	if err != nil {
		return mapCatalogError(c, err, "denominación")
	}
	return c.Status(fiber.StatusCreated).JSON(denom)
}

// List lista denominaciones de mayor a menor valor.
// GET /api/denominations
func (h *DenominationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	denoms, err := h.uc.List(page)
	if err != nil {
		return mapCatalogError(c, err, "denominación")
	}
	return c.JSON(denoms)
}

// GetByID obtiene una denominación.
// GET /api/denominations/:id
func (h *DenominationHandler) GetByID(c *fiber.Ctx) error {
	denom, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapCatalogError(c, err, "denominación")
	}
	return c.JSON(denom)
}

// Update cambia valor o estado de una denominación. Solo admin.
// PUT /api/denominations/:id
func (h *DenominationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDenominationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	denom, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return mapCatalogError(c, err, "denominación")
	}
	return c.JSON(denom)
}

// Delete elimina una denominación. Solo admin.
// DELETE /api/denominations/:id
func (h *DenominationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return mapCatalogError(c, err, "denominación")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
