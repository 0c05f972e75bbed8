package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/application/usecase"
)

// UnitHandler maneja las peticiones HTTP del registro de unidades (protegido).
type UnitHandler struct {
	uc *usecase.UnitUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *usecase.UnitUseCase) *UnitHandler {
	return &UnitHandler{uc: uc}
}

// Create registra una unidad de medida.
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(unit)
}

// GetByID obtiene una unidad por ID.
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	unit, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapEngineError(c, err)
	}
	if unit == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
	}
	return c.JSON(unit)
}

// Update edita una unidad.
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapEngineError(c, err)
	}
	if unit == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
	}
	return c.JSON(unit)
}

// List lista unidades.
func (h *UnitHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	units, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": units,
		"page":  fiber.Map{"limit": page.Limit, "offset": page.Offset},
	})
}
