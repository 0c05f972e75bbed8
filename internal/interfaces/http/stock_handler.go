package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/application/usecase"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del catálogo de artículos (protegido).
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un artículo del catálogo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "stock_no, name, unit_id, quantity inicial"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-items [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetByID godoc
// @Summary      Obtener un artículo por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapEngineError(c, err)
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	}
	return c.JSON(item)
}

// Update godoc
// @Summary      Actualizar campos de catálogo de un artículo (nunca la cantidad)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del artículo"
// @Param        body  body  dto.UpdateStockItemRequest  true  "campos de catálogo"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-items/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Update(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return mapEngineError(c, err)
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	}
	return c.JSON(item)
}

// List godoc
// @Summary      Buscar artículos por stock_no exacto o nombre parcial
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        stock_no  query  string  false  "Código externo exacto"
// @Param        name      query  string  false  "Nombre parcial (case-insensitive)"
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock-items [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	filter := repository.StockItemFilter{
		StockNo: c.Query("stock_no"),
		Name:    c.Query("name"),
	}
	items, err := h.uc.List(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  fiber.Map{"limit": page.Limit, "offset": page.Offset},
	})
}
