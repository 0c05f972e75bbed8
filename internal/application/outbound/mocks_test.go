package outbound_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks en memoria: un memStore compartido y repositorios que lo consultan.
// El memTxRunner serializa las transacciones con un mutex propio, emulando
// el SELECT FOR UPDATE de la implementación real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu sync.Mutex

	stock      map[string]*entity.StockItem
	stockOrder []string

	outbounds     map[string]*entity.Outbound
	outboundOrder []string
	refs          map[string]string // transaction_ref -> outbound id

	items     map[string]*entity.OutboundItem
	itemOrder []string

	units map[string]*entity.Unit
	users map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		stock:     make(map[string]*entity.StockItem),
		outbounds: make(map[string]*entity.Outbound),
		refs:      make(map[string]string),
		items:     make(map[string]*entity.OutboundItem),
		units:     make(map[string]*entity.Unit),
		users:     make(map[string]*entity.User),
	}
}

func copyStock(s *entity.StockItem) *entity.StockItem {
	cp := *s
	return &cp
}

func copyOutbound(o *entity.Outbound) *entity.Outbound {
	cp := *o
	return &cp
}

func copyItem(it *entity.OutboundItem) *entity.OutboundItem {
	cp := *it
	return &cp
}

// ── StockItemRepository ──────────────────────────────────────────────────────

type memStockRepo struct{ s *memStore }

var _ repository.StockItemRepository = (*memStockRepo)(nil)

func (r *memStockRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stock[item.ID] = copyStock(item)
	r.s.stockOrder = append(r.s.stockOrder, item.ID)
	return nil
}

func (r *memStockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.stock[id]
	if !ok {
		return nil, nil
	}
	return copyStock(item), nil
}

func (r *memStockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *memStockRepo) Update(_ context.Context, item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.stock[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Solo campos de catálogo; la cantidad no se toca por este camino
	existing.StockNo = item.StockNo
	existing.Name = item.Name
	existing.Description = item.Description
	existing.UnitID = item.UnitID
	existing.Available = item.Available
	existing.Remarks = item.Remarks
	existing.LastModified = item.LastModified
	existing.ModifiedBy = item.ModifiedBy
	return nil
}

func (r *memStockRepo) UpdateQuantity(_ context.Context, id string, quantity int64, modifiedBy string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.stock[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		// Equivale al CHECK (quantity >= 0) de la tabla
		return domain.ErrNegativeStock
	}
	item.Quantity = quantity
	item.ModifiedBy = modifiedBy
	item.LastModified = at
	return nil
}

func (r *memStockRepo) List(_ context.Context, filter repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.StockItem
	for _, id := range r.s.stockOrder {
		item := r.s.stock[id]
		if filter.StockNo != "" && item.StockNo != filter.StockNo {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Name)) {
			continue
		}
		result = append(result, copyStock(item))
	}
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// ── OutboundRepository ───────────────────────────────────────────────────────

type memOutboundRepo struct{ s *memStore }

var _ repository.OutboundRepository = (*memOutboundRepo)(nil)

func (r *memOutboundRepo) Create(_ context.Context, o *entity.Outbound) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.refs[o.TransactionRef]; taken {
		return domain.ErrDuplicate
	}
	r.s.outbounds[o.ID] = copyOutbound(o)
	r.s.outboundOrder = append(r.s.outboundOrder, o.ID)
	r.s.refs[o.TransactionRef] = o.ID
	return nil
}

func (r *memOutboundRepo) GetByID(_ context.Context, id string) (*entity.Outbound, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.outbounds[id]
	if !ok {
		return nil, nil
	}
	return copyOutbound(o), nil
}

func (r *memOutboundRepo) GetForUpdate(ctx context.Context, id string) (*entity.Outbound, error) {
	return r.GetByID(ctx, id)
}

func (r *memOutboundRepo) GetByRef(_ context.Context, ref string) (*entity.Outbound, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.refs[ref]
	if !ok {
		return nil, nil
	}
	return copyOutbound(r.s.outbounds[id]), nil
}

func (r *memOutboundRepo) List(_ context.Context, filter repository.OutboundFilter, limit, offset int) ([]*entity.Outbound, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Orden de inserción estable: la paginación entre llamadas depende de él
	var result []*entity.Outbound
	for _, id := range r.s.outboundOrder {
		o, ok := r.s.outbounds[id]
		if !ok {
			continue
		}
		if filter.From != nil && o.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.Date.After(*filter.To) {
			continue
		}
		if filter.ProcessedBy != "" && o.ProcessedBy != filter.ProcessedBy {
			continue
		}
		result = append(result, copyOutbound(o))
	}
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *memOutboundRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.outbounds[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.refs, o.TransactionRef)
	delete(r.s.outbounds, id)
	return nil
}

func (r *memOutboundRepo) CreateItem(_ context.Context, item *entity.OutboundItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = copyItem(item)
	r.s.itemOrder = append(r.s.itemOrder, item.ID)
	return nil
}

func (r *memOutboundRepo) GetItem(_ context.Context, id string) (*entity.OutboundItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := copyItem(item)
	if stock, ok := r.s.stock[cp.StockItemID]; ok {
		cp.StockNo = stock.StockNo
	}
	return cp, nil
}

func (r *memOutboundRepo) ListItems(_ context.Context, outboundID string) ([]*entity.OutboundItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.OutboundItem
	for _, id := range r.s.itemOrder {
		item, ok := r.s.items[id]
		if !ok || item.OutboundID != outboundID {
			continue
		}
		cp := copyItem(item)
		if stock, ok := r.s.stock[cp.StockItemID]; ok {
			cp.StockNo = stock.StockNo
		}
		result = append(result, cp)
	}
	return result, nil
}

func (r *memOutboundRepo) DeleteItem(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *memOutboundRepo) DeleteItems(_ context.Context, outboundID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, item := range r.s.items {
		if item.OutboundID == outboundID {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r *memOutboundRepo) RecomputeTotal(_ context.Context, outboundID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.outbounds[outboundID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	var total int64
	for _, item := range r.s.items {
		if item.OutboundID == outboundID {
			total += item.Quantity
		}
	}
	o.TotalQuantity = total
	return total, nil
}

// ── UnitRepository / UserRepository ──────────────────────────────────────────

type memUnitRepo struct{ s *memStore }

var _ repository.UnitRepository = (*memUnitRepo)(nil)

func (r *memUnitRepo) Create(_ context.Context, unit *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.units {
		if u.Name == unit.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *unit
	r.s.units[unit.ID] = &cp
	return nil
}

func (r *memUnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUnitRepo) Update(_ context.Context, unit *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *unit
	r.s.units[unit.ID] = &cp
	return nil
}

func (r *memUnitRepo) List(_ context.Context, limit, offset int) ([]*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Unit
	for _, u := range r.s.units {
		cp := *u
		result = append(result, &cp)
	}
	return result, nil
}

type memUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// ── Registro del orden de bloqueo ────────────────────────────────────────────

// lockLog registra el orden en que una tx adquiere bloqueos de fila.
type lockLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *lockLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *lockLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

func (l *lockLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = nil
}

type lockLoggingOutboundRepo struct {
	*memOutboundRepo
	log *lockLog
}

func (r *lockLoggingOutboundRepo) GetForUpdate(ctx context.Context, id string) (*entity.Outbound, error) {
	r.log.add("lock:cabecera")
	return r.memOutboundRepo.GetForUpdate(ctx, id)
}

type lockLoggingStockRepo struct {
	*memStockRepo
	log *lockLog
}

func (r *lockLoggingStockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	r.log.add("lock:stock")
	return r.memStockRepo.GetForUpdate(ctx, id)
}

// lockLoggingTxRunner igual que memTxRunner, pero los repos que entrega a la
// tx registran cada bloqueo de fila adquirido.
type lockLoggingTxRunner struct {
	s    *memStore
	txMu sync.Mutex
	log  *lockLog
}

func (r *lockLoggingTxRunner) Run(_ context.Context, fn func(
	outboundRepo repository.OutboundRepository,
	stockRepo repository.StockItemRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(
		&lockLoggingOutboundRepo{memOutboundRepo: &memOutboundRepo{s: r.s}, log: r.log},
		&lockLoggingStockRepo{memStockRepo: &memStockRepo{s: r.s}, log: r.log},
	)
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// memTxRunner emula la serialización de las transacciones reales: un solo
// mutex de tx, de modo que dos mutaciones concurrentes sobre el mismo stock
// se ejecutan una detrás de la otra (como con FOR UPDATE).
type memTxRunner struct {
	s    *memStore
	txMu sync.Mutex
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	outboundRepo repository.OutboundRepository,
	stockRepo repository.StockItemRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(&memOutboundRepo{s: r.s}, &memStockRepo{s: r.s})
}
