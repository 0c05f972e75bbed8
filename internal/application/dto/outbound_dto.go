package dto

import "time"

// CreateOutboundRequest body para POST /api/outbounds.
// processed_by no viaja en el body: lo aporta el token del llamador.
type CreateOutboundRequest struct {
	Customer string     `json:"customer,omitempty"`
	UnitID   string     `json:"unit_id,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// AddItemRequest body para POST /api/outbounds/:id/items.
type AddItemRequest struct {
	StockItemID string `json:"stock_item_id"`
	Quantity    int64  `json:"quantity"`
}

// OutboundLine un renglón dentro del resumen de la salida.
type OutboundLine struct {
	ItemID      string `json:"item_id"`
	StockItemID string `json:"stock_item_id"`
	StockNo     string `json:"stock_no"`
	Quantity    int64  `json:"quantity"`
}

// OutboundSummary resumen de una salida para la capa de presentación.
type OutboundSummary struct {
	ID              string         `json:"id"`
	TransactionRef  string         `json:"transaction_ref"`
	Customer        string         `json:"customer,omitempty"`
	Date            time.Time      `json:"date"`
	ProcessedBy     string         `json:"processed_by,omitempty"`
	ProcessedByName string         `json:"processed_by_name,omitempty"`
	Unit            string         `json:"unit,omitempty"`
	TotalQuantity   int64          `json:"total_quantity"`
	Lines           []OutboundLine `json:"lines"`
}
