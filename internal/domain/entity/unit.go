package entity

// Unit representa una unidad de medida del registro (dato de referencia).
type Unit struct {
	ID          string
	Name        string
	Description string
}
