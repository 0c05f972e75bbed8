package dto

import "time"

// CreateStockItemRequest body para POST /api/stock-items.
type CreateStockItemRequest struct {
	StockNo     string `json:"stock_no"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitID      string `json:"unit_id"`
	Quantity    int64  `json:"quantity"`
	Available   *bool  `json:"available,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

// UpdateStockItemRequest body para PUT /api/stock-items/:id.
// No incluye Quantity: la cantidad solo la muta el motor de salidas.
type UpdateStockItemRequest struct {
	StockNo     string `json:"stock_no"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitID      string `json:"unit_id"`
	Available   *bool  `json:"available,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

// StockItemResponse representación de un artículo en respuestas.
type StockItemResponse struct {
	ID           string    `json:"id"`
	StockNo      string    `json:"stock_no"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	UnitID       string    `json:"unit_id"`
	Quantity     int64     `json:"quantity"`
	Available    bool      `json:"available"`
	Remarks      string    `json:"remarks,omitempty"`
	EntryDate    time.Time `json:"entry_date"`
	LastModified time.Time `json:"last_modified"`
	ModifiedBy   string    `json:"modified_by,omitempty"`
}
