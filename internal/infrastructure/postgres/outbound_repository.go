package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

var _ repository.OutboundRepository = (*OutboundRepo)(nil)

const outboundColumns = `id, transaction_ref, customer, unit_id, outbound_date, processed_by, total_quantity, created_at`

// OutboundRepo implementación de OutboundRepository sobre PostgreSQL (usable con pool o tx).
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador de salidas. Pasar pool o tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

// Create persiste la cabecera. La colisión del índice único de
// transaction_ref se devuelve como domain.ErrDuplicate para que el caso de
// uso regenere la referencia.
func (r *OutboundRepo) Create(ctx context.Context, o *entity.Outbound) error {
	query := `
		INSERT INTO outbounds (id, transaction_ref, customer, unit_id, outbound_date, processed_by, total_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TransactionRef, o.Customer, nullIfEmpty(o.UnitID), o.Date,
		nullIfEmpty(o.ProcessedBy), o.TotalQuantity, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert outbound: %w", err)
	}
	return nil
}

// GetByID obtiene una salida por ID.
func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.Outbound, error) {
	query := `SELECT ` + outboundColumns + ` FROM outbounds WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get outbound")
}

// GetForUpdate obtiene la salida y bloquea la fila de la cabecera. Las
// mutaciones de renglones lo usan para serializarse contra DeleteOutbound.
func (r *OutboundRepo) GetForUpdate(ctx context.Context, id string) (*entity.Outbound, error) {
	query := `SELECT ` + outboundColumns + ` FROM outbounds WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get outbound for update")
}

// GetByRef obtiene una salida por referencia de transacción.
func (r *OutboundRepo) GetByRef(ctx context.Context, ref string) (*entity.Outbound, error) {
	query := `SELECT ` + outboundColumns + ` FROM outbounds WHERE transaction_ref = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, ref), "get outbound by ref")
}

// List lista salidas filtradas por rango de fechas y/o procesador, paginado.
func (r *OutboundRepo) List(ctx context.Context, filter repository.OutboundFilter, limit, offset int) ([]*entity.Outbound, error) {
	query := `
		SELECT ` + outboundColumns + `
		FROM outbounds
		WHERE ($1::timestamptz IS NULL OR outbound_date >= $1)
		  AND ($2::timestamptz IS NULL OR outbound_date <= $2)
		  AND ($3 = '' OR processed_by = $3::uuid)
		ORDER BY outbound_date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, filter.From, filter.To, filter.ProcessedBy, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list outbounds: %w", err)
	}
	defer rows.Close()
	var list []*entity.Outbound
	for rows.Next() {
		o, err := scanOutbound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbound: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina la cabecera. El caso de uso ya devolvió el stock y borró
// los renglones dentro de la misma tx (el ON DELETE CASCADE del esquema es
// solo respaldo).
func (r *OutboundRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM outbounds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outbound: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem persiste un renglón.
func (r *OutboundRepo) CreateItem(ctx context.Context, item *entity.OutboundItem) error {
	query := `
		INSERT INTO outbound_items (id, outbound_id, stock_item_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OutboundID, item.StockItemID, item.Quantity, item.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert outbound item: %w", err)
	}
	return nil
}

// GetItem obtiene un renglón por ID con su stock_no resuelto.
func (r *OutboundRepo) GetItem(ctx context.Context, id string) (*entity.OutboundItem, error) {
	query := `
		SELECT i.id, i.outbound_id, i.stock_item_id, s.stock_no, i.quantity, i.created_at
		FROM outbound_items i
		JOIN stock_items s ON s.id = i.stock_item_id
		WHERE i.id = $1`
	var it entity.OutboundItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.OutboundID, &it.StockItemID, &it.StockNo, &it.Quantity, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound item: %w", err)
	}
	return &it, nil
}

// ListItems lista los renglones de una salida en orden de creación.
func (r *OutboundRepo) ListItems(ctx context.Context, outboundID string) ([]*entity.OutboundItem, error) {
	query := `
		SELECT i.id, i.outbound_id, i.stock_item_id, s.stock_no, i.quantity, i.created_at
		FROM outbound_items i
		JOIN stock_items s ON s.id = i.stock_item_id
		WHERE i.outbound_id = $1
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(ctx, query, outboundID)
	if err != nil {
		return nil, fmt.Errorf("list outbound items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundItem
	for rows.Next() {
		var it entity.OutboundItem
		if err := rows.Scan(&it.ID, &it.OutboundID, &it.StockItemID, &it.StockNo, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbound item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItem elimina un renglón por ID.
func (r *OutboundRepo) DeleteItem(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM outbound_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outbound item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItems elimina todos los renglones de una salida.
func (r *OutboundRepo) DeleteItems(ctx context.Context, outboundID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM outbound_items WHERE outbound_id = $1`, outboundID)
	if err != nil {
		return fmt.Errorf("delete outbound items: %w", err)
	}
	return nil
}

// RecomputeTotal fija total_quantity = SUM(quantity) de los renglones
// actuales, dentro de la misma tx que los mutó, y devuelve el nuevo total.
func (r *OutboundRepo) RecomputeTotal(ctx context.Context, outboundID string) (int64, error) {
	query := `
		UPDATE outbounds
		SET total_quantity = COALESCE((SELECT SUM(quantity) FROM outbound_items WHERE outbound_id = $1), 0)
		WHERE id = $1
		RETURNING total_quantity`
	var total int64
	err := r.q.QueryRow(ctx, query, outboundID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("recompute outbound total: %w", err)
	}
	return total, nil
}

func (r *OutboundRepo) scanOne(row pgx.Row, op string) (*entity.Outbound, error) {
	o, err := scanOutbound(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func scanOutbound(row pgx.Row) (*entity.Outbound, error) {
	var o entity.Outbound
	var unitID, processedBy *string
	err := row.Scan(
		&o.ID, &o.TransactionRef, &o.Customer, &unitID, &o.Date,
		&processedBy, &o.TotalQuantity, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if unitID != nil {
		o.UnitID = *unitID
	}
	if processedBy != nil {
		o.ProcessedBy = *processedBy
	}
	return &o, nil
}
