package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListLowStock productos con InStock < WarningStockLevel.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// Update actualiza los datos descriptivos; no toca InStock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste InStock y los campos de última modificación.
	UpdateStock(ctx context.Context, product *entity.Product) error
	// HasSales indica si algún SaleItem referencia al producto.
	HasSales(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
