package outbound

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// ExportRow una fila tabular de la exportación masiva de salidas.
// El formato final (CSV u otro) lo decide la capa que presenta; el motor
// solo produce las filas.
type ExportRow struct {
	TransactionRef string
	Date           time.Time
	ProcessedBy    string // nombre para mostrar; vacío si el usuario ya no existe
	TotalQuantity  int64
	Unit           string
	ItemsSummary   string // "STK-001 (3), STK-002 (4)"
}

// exportBatchSize tamaño de página interno de la exportación masiva.
const exportBatchSize = 200

// ExportAllRows produce las filas de exportación del conjunto filtrado
// COMPLETO, paginando internamente hasta agotarlo. A diferencia de los
// listados, la exportación nunca trunca.
func (uc *UseCase) ExportAllRows(ctx context.Context, filter repository.OutboundFilter) ([]ExportRow, error) {
	var all []ExportRow
	for offset := 0; ; offset += exportBatchSize {
		rows, err := uc.ExportRows(ctx, filter, exportBatchSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < exportBatchSize {
			return all, nil
		}
	}
}

// ExportRows produce las filas de exportación para el conjunto filtrado de
// salidas. Los nombres de unidad y usuario se resuelven una sola vez por id.
func (uc *UseCase) ExportRows(ctx context.Context, filter repository.OutboundFilter, limit, offset int) ([]ExportRow, error) {
	outbounds, err := uc.outboundRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	unitNames := map[string]string{}
	userNames := map[string]string{}

	rows := make([]ExportRow, 0, len(outbounds))
	for _, o := range outbounds {
		row := ExportRow{
			TransactionRef: o.TransactionRef,
			Date:           o.Date,
			TotalQuantity:  o.TotalQuantity,
		}
		if o.UnitID != "" {
			name, ok := unitNames[o.UnitID]
			if !ok {
				unit, err := uc.unitRepo.GetByID(ctx, o.UnitID)
				if err != nil {
					return nil, err
				}
				if unit != nil {
					name = unit.Name
				}
				unitNames[o.UnitID] = name
			}
			row.Unit = name
		}
		if o.ProcessedBy != "" {
			name, ok := userNames[o.ProcessedBy]
			if !ok {
				user, err := uc.userRepo.GetByID(ctx, o.ProcessedBy)
				if err != nil {
					return nil, err
				}
				if user != nil {
					name = user.Name
				}
				userNames[o.ProcessedBy] = name
			}
			row.ProcessedBy = name
		}

		items, err := uc.outboundRepo.ListItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, fmt.Sprintf("%s (%d)", it.StockNo, it.Quantity))
		}
		row.ItemsSummary = strings.Join(parts, ", ")

		rows = append(rows, row)
	}
	return rows, nil
}
