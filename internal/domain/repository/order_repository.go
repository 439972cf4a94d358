package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de recepción y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// Update persiste código, total y campos de última modificación.
	Update(ctx context.Context, order *entity.Order) error
	// Delete borra la orden; líneas y lotes caen en cascada.
	Delete(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error)
	// DeleteItemsByProduct borra las líneas del producto y devuelve las órdenes afectadas.
	DeleteItemsByProduct(ctx context.Context, productID int64) ([]int64, error)
	// DeleteIfEmpty borra la orden si ya no tiene líneas.
	DeleteIfEmpty(ctx context.Context, id int64) (bool, error)
}
