package repository

import (
	"context"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura de usuarios (DIP).
// La gestión de usuarios es del colaborador de identidad; el motor solo
// valida referencias y resuelve nombres para mostrar.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
