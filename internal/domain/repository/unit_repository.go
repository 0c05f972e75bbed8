package repository

import (
	"context"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para Unit (DIP).
// Dato de referencia: alta y edición externas, sin borrado.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	List(ctx context.Context, limit, offset int) ([]*entity.Unit, error)
}
