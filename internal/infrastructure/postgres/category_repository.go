package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, parent_id, name, created_at, created_by, last_modified_at, last_modified_by`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.CreatedAt, &c.CreatedBy, &c.LastModifiedAt, &c.LastModifiedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría; nombre repetido devuelve ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (parent_id, name, created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.ParentID, c.Name, c.CreatedAt, c.CreatedBy, c.LastModifiedAt, c.LastModifiedBy,
	).Scan(&c.ID)
	if err != nil {
		return wrapWrite("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	out := []*entity.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List lista categorías por id con paginación.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByParent subcategorías directas de parentID.
func (r *CategoryRepo) ListByParent(ctx context.Context, parentID int64) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY id`, parentID)
}

// Update actualiza nombre y padre.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET parent_id = $2, name = $3, last_modified_at = $4, last_modified_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.ParentID, c.Name, c.LastModifiedAt, c.LastModifiedBy)
	if err != nil {
		return wrapWrite("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("categoría %d", c.ID)
	}
	return nil
}

// InUse indica si algún producto o subcategoría referencia la categoría.
func (r *CategoryRepo) InUse(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)
			OR EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`
	var used bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&used); err != nil {
		return false, fmt.Errorf("category in use: %w", err)
	}
	return used, nil
}

// Delete elimina una categoría; las FK RESTRICT se traducen a ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("categoría %d", id)
	}
	return nil
}
