package repository

import (
	"context"
	"time"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// StockItemFilter criterios de búsqueda del catálogo (lectura filtrada simple).
type StockItemFilter struct {
	StockNo string // coincidencia exacta
	Name    string // coincidencia parcial, case-insensitive
}

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// GetForUpdate se usa dentro de transacciones para serializar las mutaciones
// de cantidad (SELECT FOR UPDATE).
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	// Update actualiza los campos de catálogo; nunca toca Quantity.
	Update(ctx context.Context, item *entity.StockItem) error
	// UpdateQuantity fija la cantidad y estampa last_modified/modified_by.
	// Es el único camino de escritura de Quantity (motor de salidas).
	UpdateQuantity(ctx context.Context, id string, quantity int64, modifiedBy string, at time.Time) error
	List(ctx context.Context, filter StockItemFilter, limit, offset int) ([]*entity.StockItem, error)
}
