package outbound

import (
	"context"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// salidas: renglón persistido y cantidad descontada, o ninguno de los dos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		outboundRepo repository.OutboundRepository,
		stockRepo repository.StockItemRepository,
	) error) error
}

// DispatchPDFGenerator genera la remisión de salida en PDF a partir del
// resumen. Implementado en infraestructura (Maroto).
type DispatchPDFGenerator interface {
	GenerateDispatchNote(ctx context.Context, summary *dto.OutboundSummary) ([]byte, error)
}
