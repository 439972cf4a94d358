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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const (
	saleColumns = `id, COALESCE(code, ''), sale_date, total_amount,
	created_at, created_by, last_modified_at, last_modified_by`
	saleItemColumns = `id, sale_id, product_id, batch_id, amount, sale_price,
	created_at, created_by, last_modified_at, last_modified_by`
)

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (code, sale_date, total_amount, created_at, created_by, last_modified_at, last_modified_by)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.Code, s.SaleDate, s.TotalAmount, s.CreatedAt, s.CreatedBy, s.LastModifiedAt, s.LastModifiedBy,
	).Scan(&s.ID)
	if err != nil {
		return wrapWrite("insert sale", err)
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Code, &s.SaleDate, &s.TotalAmount,
		&s.CreatedAt, &s.CreatedBy, &s.LastModifiedAt, &s.LastModifiedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetByID obtiene la cabecera (sin items).
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste código, total y última modificación.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET code = NULLIF($2, ''), total_amount = $3, last_modified_at = $4, last_modified_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Code, s.TotalAmount, s.LastModifiedAt, s.LastModifiedBy)
	if err != nil {
		return wrapWrite("update sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("venta %d", s.ID)
	}
	return nil
}

// Delete borra la venta; sale_items caen en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("venta %d", id)
	}
	return nil
}

// CreateItem inserta un consumo desde un lote.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, batch_id, amount, sale_price,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		it.SaleID, it.ProductID, it.BatchID, it.Amount, it.SalePrice,
		it.CreatedAt, it.CreatedBy, it.LastModifiedAt, it.LastModifiedBy,
	).Scan(&it.ID)
	if err != nil {
		return wrapWrite("insert sale item", err)
	}
	return nil
}

func scanSaleItem(row pgx.Row) (*entity.SaleItem, error) {
	var it entity.SaleItem
	err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.BatchID, &it.Amount, &it.SalePrice,
		&it.CreatedAt, &it.CreatedBy, &it.LastModifiedAt, &it.LastModifiedBy)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItem obtiene un SaleItem por ID.
func (r *SaleRepo) GetItem(ctx context.Context, id int64) (*entity.SaleItem, error) {
	it, err := scanSaleItem(r.q.QueryRow(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale item: %w", err)
	}
	return it, nil
}

// ListItems items de la venta por id.
func (r *SaleRepo) ListItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	out := []*entity.SaleItem{}
	for rows.Next() {
		it, err := scanSaleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// DeleteItem borra un SaleItem.
func (r *SaleRepo) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete sale item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("sale item %d", id)
	}
	return nil
}
