package outbound_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salidas-api/internal/application/outbound"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

func TestExportRows_ArmaLasFilasConNombresResueltos(t *testing.T) {
	f := newFixture(outbound.Config{})
	stockA := f.seedStock("sA", "STK-001", testUnitKG, 10)
	stockB := f.seedStock("sB", "STK-002", testUnitKG, 10)
	o := f.createOutbound(t, testUnitKG)

	_, err := f.uc.AddItem(context.Background(), o.ID, stockA, 3, testUserID)
	require.NoError(t, err)
	_, err = f.uc.AddItem(context.Background(), o.ID, stockB, 4, testUserID)
	require.NoError(t, err)

	rows, err := f.uc.ExportRows(context.Background(), repository.OutboundFilter{}, 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, o.TransactionRef, row.TransactionRef)
	assert.Equal(t, "Carlos Pérez", row.ProcessedBy)
	assert.Equal(t, "Kilogramo", row.Unit)
	assert.EqualValues(t, 7, row.TotalQuantity)
	assert.Equal(t, "STK-001 (3), STK-002 (4)", row.ItemsSummary,
		"el resumen de renglones usa el formato 'stock_no (cantidad)' separado por comas")
}

func TestExportRows_FiltraPorProcesador(t *testing.T) {
	f := newFixture(outbound.Config{})
	f.createOutbound(t, "")

	rows, err := f.uc.ExportRows(context.Background(), repository.OutboundFilter{ProcessedBy: "otro-usuario"}, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, rows, "ninguna salida pertenece a ese procesador")

	rows, err = f.uc.ExportRows(context.Background(), repository.OutboundFilter{ProcessedBy: testUserID}, 50, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportRows_FiltraPorRangoDeFechas(t *testing.T) {
	f := newFixture(outbound.Config{})
	f.createOutbound(t, "")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	rows, err := f.uc.ExportRows(context.Background(), repository.OutboundFilter{From: &past, To: &future}, 50, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "la fecha de hoy cae dentro del rango")

	rows, err = f.uc.ExportRows(context.Background(), repository.OutboundFilter{To: &past}, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, rows, "la salida es posterior al límite superior")
}

// La exportación masiva recorre el conjunto filtrado completo: debe devolver
// más filas que el tamaño de página interno sin truncar.
func TestExportAllRows_ExportaElConjuntoCompleto(t *testing.T) {
	f := newFixture(outbound.Config{})
	const n = 205
	for i := 0; i < n; i++ {
		f.createOutbound(t, "")
	}

	rows, err := f.uc.ExportAllRows(context.Background(), repository.OutboundFilter{})
	require.NoError(t, err)
	require.Len(t, rows, n, "la exportación no debe truncar el conjunto")

	refs := make(map[string]struct{}, n)
	for _, r := range rows {
		refs[r.TransactionRef] = struct{}{}
	}
	assert.Len(t, refs, n, "ninguna salida debe repetirse entre páginas internas")
}

func TestExportRows_SalidaSinRenglones(t *testing.T) {
	f := newFixture(outbound.Config{})
	o := f.createOutbound(t, "")

	rows, err := f.uc.ExportRows(context.Background(), repository.OutboundFilter{}, 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, o.TransactionRef, rows[0].TransactionRef)
	assert.Empty(t, rows[0].ItemsSummary)
	assert.Empty(t, rows[0].Unit)
	assert.EqualValues(t, 0, rows[0].TotalQuantity)
}
