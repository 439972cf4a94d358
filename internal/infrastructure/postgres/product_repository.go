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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, description, price, unit, in_stock, warning_stock_level, category_id,
	created_at, created_by, last_modified_at, last_modified_by`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.InStock, &p.WarningStockLevel, &p.CategoryID,
		&p.CreatedAt, &p.CreatedBy, &p.LastModifiedAt, &p.LastModifiedBy)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, description, price, unit, in_stock, warning_stock_level, category_id,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Unit, p.InStock, p.WarningStockLevel, p.CategoryID,
		p.CreatedAt, p.CreatedBy, p.LastModifiedAt, p.LastModifiedBy,
	).Scan(&p.ID)
	if err != nil {
		return wrapWrite("insert product", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, query string, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	out := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List lista productos por id con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListLowStock productos con in_stock por debajo del nivel de alerta.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE in_stock < warning_stock_level ORDER BY id`)
}

// Update actualiza los datos descriptivos (no toca in_stock).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, unit = $5, warning_stock_level = $6,
			category_id = $7, last_modified_at = $8, last_modified_by = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Unit, p.WarningStockLevel,
		p.CategoryID, p.LastModifiedAt, p.LastModifiedBy)
	if err != nil {
		return wrapWrite("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("producto %d", p.ID)
	}
	return nil
}

// UpdateStock persiste in_stock y la última modificación.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	query := `UPDATE products SET in_stock = $2, last_modified_at = $3, last_modified_by = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.InStock, p.LastModifiedAt, p.LastModifiedBy)
	if err != nil {
		return wrapWrite("update product stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("producto %d", p.ID)
	}
	return nil
}

// HasSales indica si algún sale_item referencia al producto.
func (r *ProductRepo) HasSales(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product has sales: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto; las FK RESTRICT se traducen a ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("producto %d", id)
	}
	return nil
}
