package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrNegativeStock es el chequeo defensivo: la cantidad resultante sería
	// negativa aunque la validación previa haya pasado (carrera). Aborta la tx.
	ErrNegativeStock = errors.New("la cantidad en stock no puede ser negativa")
	ErrUnitMismatch  = errors.New("la unidad del ítem no coincide con la unidad de la salida")
)
