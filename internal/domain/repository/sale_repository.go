package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus SaleItems.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	// Update persiste código, total y campos de última modificación.
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetItem(ctx context.Context, id int64) (*entity.SaleItem, error)
	ListItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error)
	DeleteItem(ctx context.Context, id int64) error
}
