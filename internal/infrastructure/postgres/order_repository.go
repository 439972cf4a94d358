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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes de recepción. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, COALESCE(code, ''), order_date, supplier_id, total_amount,
	created_at, created_by, last_modified_at, last_modified_by`

// Create inserta la cabecera; el código se asigna después con Update porque depende del id.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (code, order_date, supplier_id, total_amount,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.Code, o.OrderDate, o.SupplierID, o.TotalAmount,
		o.CreatedAt, o.CreatedBy, o.LastModifiedAt, o.LastModifiedBy,
	).Scan(&o.ID)
	if err != nil {
		return wrapWrite("insert order", err)
	}
	return nil
}

func (r *OrderRepo) get(ctx context.Context, query string, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Code, &o.OrderDate, &o.SupplierID, &o.TotalAmount,
		&o.CreatedAt, &o.CreatedBy, &o.LastModifiedAt, &o.LastModifiedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetByID obtiene la cabecera (sin líneas ni lotes).
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste código, total y última modificación.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET code = NULLIF($2, ''), total_amount = $3, last_modified_at = $4, last_modified_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Code, o.TotalAmount, o.LastModifiedAt, o.LastModifiedBy)
	if err != nil {
		return wrapWrite("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("orden %d", o.ID)
	}
	return nil
}

// Delete borra la orden; order_items y batches caen por ON DELETE CASCADE.
// Si algún lote tiene ventas la FK RESTRICT de sale_items lo impide (ErrConflict).
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("orden %d", id)
	}
	return nil
}

// CreateItem inserta una línea de la orden.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_cost,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		it.OrderID, it.ProductID, it.Quantity, it.UnitCost,
		it.CreatedAt, it.CreatedBy, it.LastModifiedAt, it.LastModifiedBy,
	).Scan(&it.ID)
	if err != nil {
		return wrapWrite("insert order item", err)
	}
	return nil
}

// ListItems líneas de la orden por id.
func (r *OrderRepo) ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_cost, created_at, created_by, last_modified_at, last_modified_by
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	out := []*entity.OrderItem{}
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitCost,
			&it.CreatedAt, &it.CreatedBy, &it.LastModifiedAt, &it.LastModifiedBy); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// DeleteItemsByProduct borra las líneas del producto y devuelve las órdenes afectadas.
func (r *OrderRepo) DeleteItemsByProduct(ctx context.Context, productID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `DELETE FROM order_items WHERE product_id = $1 RETURNING order_id`, productID)
	if err != nil {
		return nil, wrapWrite("delete order items by product", err)
	}
	defer rows.Close()
	orders := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		orders = append(orders, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapWrite("delete order items by product", err)
	}
	return orders, nil
}

// DeleteIfEmpty borra la orden si ya no tiene líneas.
func (r *OrderRepo) DeleteIfEmpty(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM orders WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM order_items WHERE order_id = $1)`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, wrapWrite("delete empty order", err)
	}
	return tag.RowsAffected() > 0, nil
}
