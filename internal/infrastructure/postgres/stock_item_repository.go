package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, stock_no, name, description, unit_id, quantity, available, remarks, entry_date, last_modified, modified_by`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un nuevo artículo.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, stock_no, name, description, unit_id, quantity, available, remarks, entry_date, last_modified, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.StockNo, item.Name, item.Description, item.UnitID,
		item.Quantity, item.Available, item.Remarks, item.EntryDate,
		item.LastModified, nullIfEmpty(item.ModifiedBy),
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrNegativeStock
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get stock item")
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
// Serializa las mutaciones de cantidad dentro de la tx del motor.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get stock item for update")
}

// Update actualiza los campos de catálogo. Quantity no se toca por este camino.
func (r *StockItemRepo) Update(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET stock_no = $2, name = $3, description = $4, unit_id = $5, available = $6, remarks = $7, last_modified = $8, modified_by = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.StockNo, item.Name, item.Description, item.UnitID,
		item.Available, item.Remarks, item.LastModified, nullIfEmpty(item.ModifiedBy),
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad y estampa last_modified/modified_by.
// El CHECK quantity >= 0 de la tabla es la última línea de defensa; su
// violación se mapea a domain.ErrNegativeStock y aborta la tx.
func (r *StockItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int64, modifiedBy string, at time.Time) error {
	query := `
		UPDATE stock_items SET quantity = $2, last_modified = $3, modified_by = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, quantity, at, nullIfEmpty(modifiedBy))
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrNegativeStock
		}
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List busca artículos: stock_no exacto y/o nombre parcial (ILIKE), paginado.
func (r *StockItemRepo) List(ctx context.Context, filter repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items
		WHERE ($1 = '' OR stock_no = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY entry_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.StockNo, filter.Name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *StockItemRepo) scanOne(row pgx.Row, op string) (*entity.StockItem, error) {
	item, err := scanStockItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	var modifiedBy *string
	err := row.Scan(
		&s.ID, &s.StockNo, &s.Name, &s.Description, &s.UnitID, &s.Quantity,
		&s.Available, &s.Remarks, &s.EntryDate, &s.LastModified, &modifiedBy,
	)
	if err != nil {
		return nil, err
	}
	if modifiedBy != nil {
		s.ModifiedBy = *modifiedBy
	}
	return &s, nil
}
