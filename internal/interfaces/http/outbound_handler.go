package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/application/outbound"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// OutboundHandler maneja las peticiones HTTP del motor de salidas (protegido).
type OutboundHandler struct {
	uc  *outbound.UseCase
	pdf *outbound.PDFUseCase
}

// NewOutboundHandler construye el handler.
func NewOutboundHandler(uc *outbound.UseCase, pdf *outbound.PDFUseCase) *OutboundHandler {
	return &OutboundHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear una salida de inventario
// @Tags         outbounds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutboundRequest  true  "customer, unit_id y date opcionales"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/outbounds [post]
func (h *OutboundHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.uc.CreateOutbound(c.Context(), outbound.CreateOutboundInput{
		Customer:    in.Customer,
		UnitID:      in.UnitID,
		ProcessedBy: userID,
		Date:        in.Date,
	})
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":              o.ID,
		"transaction_ref": o.TransactionRef,
	})
}

// AddItem godoc
// @Summary      Agregar un renglón a la salida (descuenta stock)
// @Tags         outbounds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la salida"
// @Param        body  body  dto.AddItemRequest  true  "stock_item_id y quantity (> 0)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/outbounds/{id}/items [post]
func (h *OutboundHandler) AddItem(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.AddItem(c.Context(), c.Params("id"), in.StockItemID, in.Quantity, userID)
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item_id": item.ID})
}

// RemoveItem godoc
// @Summary      Quitar un renglón de la salida (devuelve stock)
// @Tags         outbounds
// @Security     Bearer
// @Param        itemId  path  string  true  "ID del renglón"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbounds/items/{itemId} [delete]
func (h *OutboundHandler) RemoveItem(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.RemoveItem(c.Context(), c.Params("itemId"), userID); err != nil {
		return mapEngineError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar una salida completa (devuelve el stock de todos sus renglones)
// @Tags         outbounds
// @Security     Bearer
// @Param        id  path  string  true  "ID de la salida"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbounds/{id} [delete]
func (h *OutboundHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteOutbound(c.Context(), c.Params("id"), userID); err != nil {
		return mapEngineError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSummary godoc
// @Summary      Resumen de una salida
// @Tags         outbounds
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la salida"
// @Success      200  {object}  dto.OutboundSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbounds/{id} [get]
func (h *OutboundHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), c.Params("id"))
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.JSON(summary)
}

// GetByRef godoc
// @Summary      Resumen de una salida por referencia de transacción
// @Tags         outbounds
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "Referencia de transacción (10 hex mayúscula)"
// @Success      200  {object}  dto.OutboundSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbounds/ref/{ref} [get]
func (h *OutboundHandler) GetByRef(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummaryByRef(c.Context(), c.Params("ref"))
	if err != nil {
		return mapEngineError(c, err)
	}
	return c.JSON(summary)
}

// List godoc
// @Summary      Listar salidas filtradas (filas tabulares)
// @Description  Filtros: from y to (RFC 3339) y processed_by (UUID).
// @Tags         outbounds
// @Security     Bearer
// @Produce      json
// @Param        from          query  string  false  "Fecha mínima"
// @Param        to            query  string  false  "Fecha máxima"
// @Param        processed_by  query  string  false  "Filtrar por procesador"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/outbounds [get]
func (h *OutboundHandler) List(c *fiber.Ctx) error {
	filter, err := parseOutboundFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos (from/to RFC 3339, processed_by UUID)"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()

	rows, err := h.uc.ExportRows(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return mapEngineError(c, err)
	}
	items := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		items = append(items, fiber.Map{
			"transaction_ref": r.TransactionRef,
			"date":            r.Date,
			"processed_by":    r.ProcessedBy,
			"total_quantity":  r.TotalQuantity,
			"unit":            r.Unit,
			"items":           r.ItemsSummary,
		})
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  fiber.Map{"limit": page.Limit, "offset": page.Offset},
	})
}

// ExportCSV godoc
// @Summary      Exportar salidas filtradas como CSV
// @Description  Filtros: from y to (RFC 3339) y processed_by (UUID).
// @Tags         outbounds
// @Security     Bearer
// @Produce      text/csv
// @Param        from          query  string  false  "Fecha mínima"
// @Param        to            query  string  false  "Fecha máxima"
// @Param        processed_by  query  string  false  "Filtrar por procesador"
// @Success      200  {string}  string
// @Router       /api/outbounds/export [get]
func (h *OutboundHandler) ExportCSV(c *fiber.Ctx) error {
	filter, err := parseOutboundFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos (from/to RFC 3339, processed_by UUID)"})
	}

	// Exportación completa del conjunto filtrado: sin paginación de listado
	rows, err := h.uc.ExportAllRows(c.Context(), filter)
	if err != nil {
		return mapEngineError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Transaction Reference", "Outbound Date", "Processed By", "Total Quantity", "Unit", "Items"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.TransactionRef,
			r.Date.Format(time.RFC3339),
			r.ProcessedBy,
			fmt.Sprintf("%d", r.TotalQuantity),
			r.Unit,
			r.ItemsSummary,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="outbound.csv"`)
	return c.Send(buf.Bytes())
}

// GetPDF godoc
// @Summary      Remisión de salida en PDF
// @Tags         outbounds
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la salida"
// @Success      200  {string}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outbounds/{id}/pdf [get]
func (h *OutboundHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdf.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return mapEngineError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="remision.pdf"`)
	return c.Send(pdfBytes)
}

func parseOutboundFilter(c *fiber.Ctx) (repository.OutboundFilter, error) {
	var filter repository.OutboundFilter
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	if pb := c.Query("processed_by"); pb != "" {
		// La consulta castea a uuid; validar aquí evita que un valor basura
		// llegue como error de BD (500 en vez de 400)
		if _, err := uuid.Parse(pb); err != nil {
			return filter, err
		}
		filter.ProcessedBy = pb
	}
	return filter, nil
}

// mapEngineError traduce errores de dominio a códigos HTTP.
func mapEngineError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case domain.ErrNegativeStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_STOCK", Message: "la operación dejaría stock negativo"})
	case domain.ErrUnitMismatch:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNIT_MISMATCH", Message: "la unidad del artículo no coincide con la de la salida"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia; reintente"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
