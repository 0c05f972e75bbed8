package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// UnitUseCase casos de uso del registro de unidades de medida.
type UnitUseCase struct {
	repo repository.UnitRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

// Create registra una nueva unidad.
func (uc *UnitUseCase) Create(ctx context.Context, in dto.UnitRequest) (*dto.UnitResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := &entity.Unit{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// GetByID obtiene una unidad por ID.
func (uc *UnitUseCase) GetByID(ctx context.Context, id string) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}
	return toUnitResponse(unit), nil
}

// Update edita nombre o descripción de una unidad.
func (uc *UnitUseCase) Update(ctx context.Context, id string, in dto.UnitRequest) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}
	if in.Name != "" {
		unit.Name = in.Name
	}
	unit.Description = in.Description
	if err := uc.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// List lista unidades con paginación.
func (uc *UnitUseCase) List(ctx context.Context, limit, offset int) ([]dto.UnitResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUnitResponse(u))
	}
	return items, nil
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	if u == nil {
		return nil
	}
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Description: u.Description}
}
