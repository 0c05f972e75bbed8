package repository

import (
	"context"
	"time"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// OutboundFilter criterios para listados y exportación de salidas.
type OutboundFilter struct {
	From        *time.Time
	To          *time.Time
	ProcessedBy string
}

// OutboundRepository define el puerto de persistencia para la cabecera de
// salida y sus renglones (propiedad exclusiva: los renglones viven y mueren
// con su cabecera).
type OutboundRepository interface {
	Create(ctx context.Context, o *entity.Outbound) error
	GetByID(ctx context.Context, id string) (*entity.Outbound, error)
	// GetForUpdate obtiene la cabecera y bloquea su fila (SELECT FOR UPDATE).
	// Toda mutación de renglones la adquiere primero: serializa contra el
	// borrado de la salida, que de otro modo arrastraría por CASCADE un
	// renglón recién insertado sin devolver su stock.
	GetForUpdate(ctx context.Context, id string) (*entity.Outbound, error)
	GetByRef(ctx context.Context, ref string) (*entity.Outbound, error)
	List(ctx context.Context, filter OutboundFilter, limit, offset int) ([]*entity.Outbound, error)
	// Delete elimina solo la cabecera; el caso de uso devuelve el stock y
	// borra los renglones antes, dentro de la misma tx.
	Delete(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item *entity.OutboundItem) error
	GetItem(ctx context.Context, id string) (*entity.OutboundItem, error)
	// ListItems devuelve los renglones con StockNo resuelto (JOIN), en orden
	// de creación.
	ListItems(ctx context.Context, outboundID string) ([]*entity.OutboundItem, error)
	DeleteItem(ctx context.Context, id string) error
	DeleteItems(ctx context.Context, outboundID string) error

	// RecomputeTotal fija total_quantity = SUM(quantity) de los renglones
	// actuales y devuelve el nuevo total. Se invoca dentro de la misma tx
	// que muta los renglones.
	RecomputeTotal(ctx context.Context, outboundID string) (int64, error)
}
