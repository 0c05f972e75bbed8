// Package pdf implementa la generación de la remisión de salida: la
// representación imprimible de una salida de inventario que acompaña la
// mercancía.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Remisión de salida  │  Referencia + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROCESÓ: nombre de usuario   CLIENTE: etiqueta             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° Stock | Cantidad                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: suma de cantidades (+ unidad de la cabecera)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia de transacción                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	appoutbound "github.com/jhoicas/salidas-api/internal/application/outbound"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appoutbound.DispatchPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa outbound.DispatchPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDispatchNote genera el PDF de la remisión y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDispatchNote(_ context.Context, summary *dto.OutboundSummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de salida "+summary.TransactionRef, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(summary.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(summary))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(refQRRow(summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y referencia + fecha (der).
func headerRow(summary *dto.OutboundSummary) core.Row {
	fecha := summary.Date.Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMISIÓN DE SALIDA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Salida de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Ref: "+summary.TransactionRef, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(fecha, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// partiesRow: quién procesó la salida y el cliente (si lo hay).
func partiesRow(summary *dto.OutboundSummary) core.Row {
	procesadoPor := summary.ProcessedByName
	if procesadoPor == "" {
		procesadoPor = "—"
	}
	cliente := summary.Customer
	if cliente == "" {
		cliente = "—"
	}
	return row.New(10).Add(
		col.New(6).Add(
			text.New("Procesó: "+procesadoPor, props.Text{Size: 9, Top: 2}),
		),
		col.New(6).Add(
			text.New("Cliente: "+cliente, props.Text{Size: 9, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New("N° Stock", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
		col.New(4).Add(text.New("Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
	)
}

func tableLineRows(lines []dto.OutboundLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(l.StockNo, props.Text{Size: 9, Top: 1})),
			col.New(4).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(summary *dto.OutboundSummary) core.Row {
	totalLabel := fmt.Sprintf("TOTAL: %d", summary.TotalQuantity)
	if summary.Unit != "" {
		totalLabel += " " + summary.Unit
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(totalLabel, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

// refQRRow: QR con la referencia para verificación rápida en bodega.
func refQRRow(summary *dto.OutboundSummary) core.Row {
	return row.New(28).Add(
		col.New(3).Add(code.NewQr(summary.TransactionRef, props.Rect{Percent: 90})),
		col.New(9).Add(
			text.New("Referencia de transacción: "+summary.TransactionRef, props.Text{Size: 8, Color: colorGray, Top: 4}),
			text.New("Documento generado por salidas-api", props.Text{Size: 7, Color: colorGray, Top: 10}),
		),
	)
}
