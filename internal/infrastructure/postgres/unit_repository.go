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

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador del registro de unidades.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una nueva unidad. El nombre es único.
func (r *UnitRepo) Create(ctx context.Context, unit *entity.Unit) error {
	query := `INSERT INTO units (id, name, description) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, unit.ID, unit.Name, unit.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `SELECT id, name, description FROM units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// Update edita una unidad existente.
func (r *UnitRepo) Update(ctx context.Context, unit *entity.Unit) error {
	query := `UPDATE units SET name = $2, description = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, unit.ID, unit.Name, unit.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// List lista unidades con paginación.
func (r *UnitRepo) List(ctx context.Context, limit, offset int) ([]*entity.Unit, error) {
	query := `SELECT id, name, description FROM units ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Description); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
