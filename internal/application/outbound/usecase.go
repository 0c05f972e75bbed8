package outbound

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	domoutbound "github.com/jhoicas/salidas-api/internal/domain/outbound"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// Config políticas del motor de salidas.
type Config struct {
	// EnforceUnitMatch: si la salida tiene unidad a nivel de cabecera,
	// exige que cada renglón use un artículo con la misma unidad.
	// Apagado por defecto (se admiten salidas con unidades mezcladas).
	EnforceUnitMatch bool
	// ConflictRetries reintentos ante fallos de serialización o deadlock
	// (domain.ErrConflict). Mínimo 1 intento.
	ConflictRetries int
	// RefRetries reintentos de generación de referencia ante colisión del
	// índice único.
	RefRetries int
}

// UseCase es el motor de consistencia de salidas: crear salidas, agregar y
// quitar renglones descontando/devolviendo stock de forma atómica, y
// mantener el total agregado de la cabecera.
// Toda mutación corre dentro de TxRunner.Run con bloqueo de fila
// (SELECT FOR UPDATE) sobre el artículo afectado.
type UseCase struct {
	txRunner     TxRunner
	outboundRepo repository.OutboundRepository
	stockRepo    repository.StockItemRepository
	unitRepo     repository.UnitRepository
	userRepo     repository.UserRepository
	cfg          Config
}

// NewUseCase construye el motor de salidas.
func NewUseCase(
	txRunner TxRunner,
	outboundRepo repository.OutboundRepository,
	stockRepo repository.StockItemRepository,
	unitRepo repository.UnitRepository,
	userRepo repository.UserRepository,
	cfg Config,
) *UseCase {
	if cfg.ConflictRetries < 1 {
		cfg.ConflictRetries = 3
	}
	if cfg.RefRetries < 1 {
		cfg.RefRetries = 3
	}
	return &UseCase{
		txRunner:     txRunner,
		outboundRepo: outboundRepo,
		stockRepo:    stockRepo,
		unitRepo:     unitRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

// CreateOutboundInput entrada para crear una cabecera de salida.
// ProcessedBy siempre viene explícito del llamador (claims verificados),
// nunca de un usuario "ambiente".
type CreateOutboundInput struct {
	Customer    string
	UnitID      string // opcional
	ProcessedBy string
	Date        *time.Time // nil = ahora
}

// CreateOutbound crea la cabecera y asigna la referencia de transacción.
// La referencia se genera una sola vez; ante colisión del índice único se
// regenera un número acotado de veces.
func (uc *UseCase) CreateOutbound(ctx context.Context, input CreateOutboundInput) (*entity.Outbound, error) {
	if input.ProcessedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, input.ProcessedBy)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if input.UnitID != "" {
		unit, err := uc.unitRepo.GetByID(ctx, input.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}

	var lastErr error
	for attempt := 0; attempt < uc.cfg.RefRetries; attempt++ {
		o := &entity.Outbound{
			ID:             uuid.New().String(),
			TransactionRef: domoutbound.NewTransactionRef(),
			Customer:       input.Customer,
			UnitID:         input.UnitID,
			Date:           date,
			ProcessedBy:    input.ProcessedBy,
			TotalQuantity:  0,
			CreatedAt:      now,
		}
		lastErr = uc.outboundRepo.Create(ctx, o)
		if lastErr == nil {
			return o, nil
		}
		if !errors.Is(lastErr, domain.ErrDuplicate) {
			return nil, lastErr
		}
		// Colisión de referencia: regenerar y reintentar
	}
	return nil, lastErr
}

// AddItem agrega un renglón a la salida: valida contra el stock disponible,
// descuenta la cantidad y persiste el renglón como una unidad atómica.
// Igualdad exacta es legal (deja el stock en cero); solo falla cuando la
// cantidad pedida es estrictamente mayor (domain.ErrInsufficientStock).
func (uc *UseCase) AddItem(ctx context.Context, outboundID, stockItemID string, quantity int64, actorID string) (*entity.OutboundItem, error) {
	if outboundID == "" || stockItemID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.OutboundItem
	err := uc.runSerialized(ctx, func(
		outboundRepo repository.OutboundRepository,
		stockRepo repository.StockItemRepository,
	) error {
		// Bloquea la cabecera primero: un DeleteOutbound concurrente debe
		// esperar a que este renglón quede contabilizado (si no, el CASCADE
		// lo borraría sin devolver el stock ya descontado)
		o, err := outboundRepo.GetForUpdate(ctx, outboundID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		// Bloquea la fila del artículo: dos AddItem concurrentes sobre el
		// mismo stock se serializan y validan contra un snapshot consistente
		stock, err := stockRepo.GetForUpdate(ctx, stockItemID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrNotFound
		}
		if uc.cfg.EnforceUnitMatch && o.UnitID != "" && stock.UnitID != o.UnitID {
			return domain.ErrUnitMismatch
		}
		if quantity > stock.Quantity {
			return domain.ErrInsufficientStock
		}
		newQty := stock.Quantity - quantity
		if newQty < 0 {
			// Defensivo: no debería ocurrir tras la validación anterior
			return domain.ErrNegativeStock
		}

		now := time.Now()
		if err := stockRepo.UpdateQuantity(ctx, stock.ID, newQty, actorID, now); err != nil {
			return err
		}
		item := &entity.OutboundItem{
			ID:          uuid.New().String(),
			OutboundID:  outboundID,
			StockItemID: stockItemID,
			StockNo:     stock.StockNo,
			Quantity:    quantity,
			CreatedAt:   now,
		}
		if err := outboundRepo.CreateItem(ctx, item); err != nil {
			return err
		}
		if _, err := outboundRepo.RecomputeTotal(ctx, outboundID); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveItem revierte un renglón: devuelve la cantidad al stock del artículo
// y elimina el renglón, atómicamente.
func (uc *UseCase) RemoveItem(ctx context.Context, itemID, actorID string) error {
	if itemID == "" {
		return domain.ErrInvalidInput
	}
	return uc.runSerialized(ctx, func(
		outboundRepo repository.OutboundRepository,
		stockRepo repository.StockItemRepository,
	) error {
		item, err := outboundRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		// Misma disciplina que AddItem: cabecera antes que stock
		o, err := outboundRepo.GetForUpdate(ctx, item.OutboundID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		stock, err := stockRepo.GetForUpdate(ctx, item.StockItemID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if err := stockRepo.UpdateQuantity(ctx, stock.ID, stock.Quantity+item.Quantity, actorID, now); err != nil {
			return err
		}
		if err := outboundRepo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		_, err = outboundRepo.RecomputeTotal(ctx, item.OutboundID)
		return err
	})
}

// DeleteOutbound elimina la salida completa devolviendo el stock de cada
// renglón (misma lógica que RemoveItem) antes de borrar renglones y
// cabecera, todo en una sola tx. Las filas de stock se bloquean en orden
// determinista para evitar deadlocks entre borrados concurrentes.
func (uc *UseCase) DeleteOutbound(ctx context.Context, outboundID, actorID string) error {
	if outboundID == "" {
		return domain.ErrInvalidInput
	}
	return uc.runSerialized(ctx, func(
		outboundRepo repository.OutboundRepository,
		stockRepo repository.StockItemRepository,
	) error {
		// Bloquea la cabecera: ningún AddItem/RemoveItem puede intercalarse
		// entre la lectura de renglones y el borrado
		o, err := outboundRepo.GetForUpdate(ctx, outboundID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		items, err := outboundRepo.ListItems(ctx, outboundID)
		if err != nil {
			return err
		}

		// Total a devolver por artículo (una salida puede repetir artículo)
		returns := make(map[string]int64, len(items))
		for _, it := range items {
			returns[it.StockItemID] += it.Quantity
		}
		ids := make([]string, 0, len(returns))
		for id := range returns {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		now := time.Now()
		for _, stockItemID := range ids {
			stock, err := stockRepo.GetForUpdate(ctx, stockItemID)
			if err != nil {
				return err
			}
			if stock == nil {
				return domain.ErrNotFound
			}
			if err := stockRepo.UpdateQuantity(ctx, stock.ID, stock.Quantity+returns[stockItemID], actorID, now); err != nil {
				return err
			}
		}
		if err := outboundRepo.DeleteItems(ctx, outboundID); err != nil {
			return err
		}
		return outboundRepo.Delete(ctx, outboundID)
	})
}

// RecomputeTotal resincroniza el total cacheado de la cabecera con la suma
// de sus renglones actuales y devuelve el valor resultante.
func (uc *UseCase) RecomputeTotal(ctx context.Context, outboundID string) (int64, error) {
	var total int64
	err := uc.runSerialized(ctx, func(
		outboundRepo repository.OutboundRepository,
		_ repository.StockItemRepository,
	) error {
		o, err := outboundRepo.GetForUpdate(ctx, outboundID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		total, err = outboundRepo.RecomputeTotal(ctx, outboundID)
		return err
	})
	return total, err
}

// GetSummary arma el resumen de la salida: cabecera, procesador, unidad y
// renglones con su stock_no.
func (uc *UseCase) GetSummary(ctx context.Context, outboundID string) (*dto.OutboundSummary, error) {
	o, err := uc.outboundRepo.GetByID(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.buildSummary(ctx, o)
}

// GetSummaryByRef arma el resumen buscando por referencia de transacción
// (el identificador que viaja impreso en la remisión).
func (uc *UseCase) GetSummaryByRef(ctx context.Context, ref string) (*dto.OutboundSummary, error) {
	o, err := uc.outboundRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.buildSummary(ctx, o)
}

func (uc *UseCase) buildSummary(ctx context.Context, o *entity.Outbound) (*dto.OutboundSummary, error) {
	items, err := uc.outboundRepo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	summary := &dto.OutboundSummary{
		ID:             o.ID,
		TransactionRef: o.TransactionRef,
		Customer:       o.Customer,
		Date:           o.Date,
		ProcessedBy:    o.ProcessedBy,
		TotalQuantity:  o.TotalQuantity,
		Lines:          make([]dto.OutboundLine, 0, len(items)),
	}
	if o.ProcessedBy != "" {
		// El usuario pudo haber sido eliminado (SET NULL); el resumen sigue
		// siendo válido sin nombre, pero un fallo de lectura sí se propaga
		user, err := uc.userRepo.GetByID(ctx, o.ProcessedBy)
		if err != nil {
			return nil, err
		}
		if user != nil {
			summary.ProcessedByName = user.Name
		}
	}
	if o.UnitID != "" {
		unit, err := uc.unitRepo.GetByID(ctx, o.UnitID)
		if err != nil {
			return nil, err
		}
		if unit != nil {
			summary.Unit = unit.Name
		}
	}
	for _, it := range items {
		summary.Lines = append(summary.Lines, dto.OutboundLine{
			ItemID:      it.ID,
			StockItemID: it.StockItemID,
			StockNo:     it.StockNo,
			Quantity:    it.Quantity,
		})
	}
	return summary, nil
}

// runSerialized ejecuta fn dentro de una tx y reintenta ante
// domain.ErrConflict (fallo de serialización o deadlock) un número acotado
// de veces. Cualquier otro error corta de inmediato.
func (uc *UseCase) runSerialized(ctx context.Context, fn func(
	outboundRepo repository.OutboundRepository,
	stockRepo repository.StockItemRepository,
) error) error {
	var err error
	for attempt := 0; attempt < uc.cfg.ConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
