// Package outbound contiene reglas de dominio propias de las salidas de
// inventario que no dependen de persistencia.
package outbound

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// RefLength longitud de la referencia de transacción (caracteres hex).
const RefLength = 10

// NewTransactionRef genera la referencia de transacción de una salida:
// un valor aleatorio de 128 bits representado en hex mayúscula y truncado a
// RefLength caracteres. La unicidad real la garantiza el índice único en la
// tabla outbounds; ante una colisión el caso de uso regenera y reintenta.
func NewTransactionRef() string {
	raw := uuid.New()
	return strings.ToUpper(hex.EncodeToString(raw[:]))[:RefLength]
}

// ValidRef indica si s tiene el formato de una referencia generada por
// NewTransactionRef (hex mayúscula de RefLength caracteres).
func ValidRef(s string) bool {
	if len(s) != RefLength {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}
