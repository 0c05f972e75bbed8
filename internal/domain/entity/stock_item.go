package entity

import "time"

// StockItem representa un artículo del catálogo con su cantidad disponible.
// Quantity solo se modifica a través del motor de salidas (nunca por el CRUD
// de catálogo); el invariante Quantity >= 0 se valida en el caso de uso y se
// refuerza con un CHECK en la tabla.
type StockItem struct {
	ID           string
	StockNo      string // código externo; no se garantiza único
	Name         string
	Description  string
	UnitID       string // FK a units
	Quantity     int64
	Available    bool
	Remarks      string
	EntryDate    time.Time
	LastModified time.Time
	ModifiedBy   string // UserID; vacío si el usuario fue eliminado
}
