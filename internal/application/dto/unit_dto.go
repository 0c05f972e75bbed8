package dto

// UnitRequest body para crear o actualizar una unidad de medida.
type UnitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnitResponse representación de una unidad en respuestas.
type UnitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
