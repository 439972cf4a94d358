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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact, address, contact_person,
			created_at, created_by, last_modified_at, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.Name, s.Contact, s.Address, s.ContactPerson,
		s.CreatedAt, s.CreatedBy, s.LastModifiedAt, s.LastModifiedBy,
	).Scan(&s.ID)
	if err != nil {
		return wrapWrite("insert supplier", err)
	}
	return nil
}

const supplierColumns = `id, name, contact, address, contact_person,
	created_at, created_by, last_modified_at, last_modified_by`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Address, &s.ContactPerson,
		&s.CreatedAt, &s.CreatedBy, &s.LastModifiedAt, &s.LastModifiedBy)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// List proveedores más recientes primero.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	out := []*entity.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update actualiza los datos de contacto.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact = $3, address = $4, contact_person = $5,
			last_modified_at = $6, last_modified_by = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Contact, s.Address, s.ContactPerson,
		s.LastModifiedAt, s.LastModifiedBy)
	if err != nil {
		return wrapWrite("update supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("proveedor %d", s.ID)
	}
	return nil
}

// HasOrders indica si alguna orden referencia al proveedor.
func (r *SupplierRepo) HasOrders(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE supplier_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("supplier has orders: %w", err)
	}
	return exists, nil
}

// Delete elimina un proveedor; orders.supplier_id RESTRICT se traduce a ErrConflict.
func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("proveedor %d", id)
	}
	return nil
}
