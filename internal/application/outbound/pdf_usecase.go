package outbound

import "context"

// PDFUseCase genera la remisión de salida (representación imprimible de una
// salida de inventario) delegando el render en infraestructura.
type PDFUseCase struct {
	uc  *UseCase
	gen DispatchPDFGenerator
}

// NewPDFUseCase construye el caso de uso de remisiones.
func NewPDFUseCase(uc *UseCase, gen DispatchPDFGenerator) *PDFUseCase {
	return &PDFUseCase{uc: uc, gen: gen}
}

// Generate arma el resumen de la salida y devuelve el PDF en bytes.
func (p *PDFUseCase) Generate(ctx context.Context, outboundID string) ([]byte, error) {
	summary, err := p.uc.GetSummary(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	return p.gen.GenerateDispatchNote(ctx, summary)
}
