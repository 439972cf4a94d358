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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador del ledger de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, order_id, order_item_id, product_id, order_price, received, stock_left,
	created_at, created_by, last_modified_at, last_modified_by`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.OrderID, &b.OrderItemID, &b.ProductID, &b.OrderPrice, &b.Received, &b.StockLeft,
		&b.CreatedAt, &b.CreatedBy, &b.LastModifiedAt, &b.LastModifiedBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create persiste el lote y asigna su ID.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (order_id, order_item_id, product_id, order_price, received, stock_left,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		b.OrderID, b.OrderItemID, b.ProductID, b.OrderPrice, b.Received, b.StockLeft,
		b.CreatedAt, b.CreatedBy, b.LastModifiedAt, b.LastModifiedBy,
	).Scan(&b.ID)
	if err != nil {
		return wrapWrite("insert batch", err)
	}
	return nil
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	out := []*entity.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAvailableForUpdate lotes con saldo del producto, más antiguos primero, bloqueados en ese orden.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, productID int64) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE product_id = $1 AND stock_left > 0
		ORDER BY created_at, id
		FOR UPDATE`, productID)
}

// ListByProduct todos los lotes del producto (incluidos los agotados).
func (r *BatchRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE product_id = $1 ORDER BY created_at, id`, productID)
}

// ListByOrder lotes de una orden.
func (r *BatchRepo) ListByOrder(ctx context.Context, orderID int64) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE order_id = $1 ORDER BY created_at, id`, orderID)
}

// ListByOrderForUpdate lotes de una orden, bloqueados.
func (r *BatchRepo) ListByOrderForUpdate(ctx context.Context, orderID int64) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE order_id = $1 ORDER BY created_at, id FOR UPDATE`, orderID)
}

// UpdateStockLeft persiste stock_left; el CHECK de la tabla rechaza valores fuera de [0, received].
func (r *BatchRepo) UpdateStockLeft(ctx context.Context, b *entity.Batch) error {
	query := `UPDATE batches SET stock_left = $2, last_modified_at = $3, last_modified_by = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.StockLeft, b.LastModifiedAt, b.LastModifiedBy)
	if err != nil {
		return wrapWrite("update batch stock_left", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("lote %d", b.ID)
	}
	return nil
}

// OrderHasSales indica si algún lote de la orden tiene sale_items.
func (r *BatchRepo) OrderHasSales(ctx context.Context, orderID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sale_items si JOIN batches b ON b.id = si.batch_id
			WHERE b.order_id = $1
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("order has sales: %w", err)
	}
	return exists, nil
}

// DeleteByProduct borra los lotes del producto.
func (r *BatchRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM batches WHERE product_id = $1`, productID); err != nil {
		return wrapWrite("delete batches by product", err)
	}
	return nil
}
