package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/salidas-api/internal/application/outbound"
	"github.com/jhoicas/salidas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC    *usecase.StockUseCase
	UnitUC     *usecase.UnitUseCase
	OutboundUC *outbound.UseCase
	PDFUC      *outbound.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo va protegido con Bearer Token:
// la emisión de tokens es del colaborador de identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Units (protegido; alta y edición solo admin)
	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Post("/", RequireRole("admin"), unitHandler.Create)
	units.Put("/:id", RequireRole("admin"), unitHandler.Update)

	// Stock items (protegido)
	stock := protected.Group("/stock-items")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/", stockHandler.Create)
	stock.Get("/", stockHandler.List)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Put("/:id", stockHandler.Update)

	// Outbounds: el motor de salidas (protegido)
	outbounds := protected.Group("/outbounds")
	outboundHandler := NewOutboundHandler(deps.OutboundUC, deps.PDFUC)
	outbounds.Post("/", outboundHandler.Create)
	outbounds.Get("/", outboundHandler.List)
	outbounds.Get("/export", outboundHandler.ExportCSV)
	outbounds.Get("/ref/:ref", outboundHandler.GetByRef)
	outbounds.Get("/:id", outboundHandler.GetSummary)
	outbounds.Get("/:id/pdf", outboundHandler.GetPDF)
	outbounds.Delete("/:id", outboundHandler.Delete)
	outbounds.Post("/:id/items", outboundHandler.AddItem)
	outbounds.Delete("/items/:itemId", outboundHandler.RemoveItem)
}
