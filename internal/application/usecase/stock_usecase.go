package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// StockUseCase casos de uso CRUD del catálogo de artículos. La cantidad solo
// se fija al crear; después la muta exclusivamente el motor de salidas.
type StockUseCase struct {
	repo     repository.StockItemRepository
	unitRepo repository.UnitRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockItemRepository, unitRepo repository.UnitRepository) *StockUseCase {
	return &StockUseCase{repo: repo, unitRepo: unitRepo}
}

// Create da de alta un artículo con su cantidad inicial.
func (uc *StockUseCase) Create(ctx context.Context, actorID string, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.StockNo == "" || in.Name == "" || in.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrNegativeStock
	}
	unit, err := uc.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:           uuid.New().String(),
		StockNo:      in.StockNo,
		Name:         in.Name,
		Description:  in.Description,
		UnitID:       in.UnitID,
		Quantity:     in.Quantity,
		Available:    available,
		Remarks:      in.Remarks,
		EntryDate:    now,
		LastModified: now,
		ModifiedBy:   actorID,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toStockItemResponse(item), nil
}

// Update actualiza los campos de catálogo de un artículo. No toca Quantity.
func (uc *StockUseCase) Update(ctx context.Context, id, actorID string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.UnitID != "" && in.UnitID != item.UnitID {
		unit, err := uc.unitRepo.GetByID(ctx, in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
		item.UnitID = in.UnitID
	}
	if in.StockNo != "" {
		item.StockNo = in.StockNo
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	item.Description = in.Description
	item.Remarks = in.Remarks
	if in.Available != nil {
		item.Available = *in.Available
	}
	item.LastModified = time.Now()
	item.ModifiedBy = actorID
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// List busca artículos por stock_no exacto o nombre parcial, con paginación.
func (uc *StockUseCase) List(ctx context.Context, filter repository.StockItemFilter, limit, offset int) ([]dto.StockItemResponse, error) {
	list, err := uc.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toStockItemResponse(it))
	}
	return items, nil
}

func toStockItemResponse(s *entity.StockItem) *dto.StockItemResponse {
	if s == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:           s.ID,
		StockNo:      s.StockNo,
		Name:         s.Name,
		Description:  s.Description,
		UnitID:       s.UnitID,
		Quantity:     s.Quantity,
		Available:    s.Available,
		Remarks:      s.Remarks,
		EntryDate:    s.EntryDate,
		LastModified: s.LastModified,
		ModifiedBy:   s.ModifiedBy,
	}
}
