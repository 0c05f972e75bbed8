package entity

import "time"

// Outbound representa una salida de inventario: la cabecera que agrupa los
// renglones (OutboundItem). TransactionRef se asigna una sola vez al crear y
// nunca se regenera. TotalQuantity es el agregado cacheado de los renglones;
// se recalcula dentro de la misma transacción en cada mutación, jamás se
// edita a mano.
type Outbound struct {
	ID             string
	TransactionRef string
	Customer       string // etiqueta libre, opcional
	UnitID         string // FK opcional a units (a nivel de cabecera)
	Date           time.Time
	ProcessedBy    string // UserID; vacío si el usuario fue eliminado
	TotalQuantity  int64
	CreatedAt      time.Time
}

// OutboundItem es un renglón de la salida: un artículo y la cantidad que
// sale. Inmutable después de creado; solo se elimina (la corrección es
// eliminar y volver a agregar).
type OutboundItem struct {
	ID          string
	OutboundID  string
	StockItemID string
	StockNo     string // denormalizado en lecturas (JOIN), no se persiste
	Quantity    int64
	CreatedAt   time.Time
}
