package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// BatchRepository define el puerto del ledger de lotes.
// Usado dentro de transacciones para garantizar consistencia con Product.InStock.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error)
	// ListAvailableForUpdate lotes del producto con StockLeft > 0, más antiguos primero, bloqueados.
	ListAvailableForUpdate(ctx context.Context, productID int64) ([]*entity.Batch, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Batch, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*entity.Batch, error)
	ListByOrderForUpdate(ctx context.Context, orderID int64) ([]*entity.Batch, error)
	// UpdateStockLeft persiste StockLeft y los campos de última modificación.
	UpdateStockLeft(ctx context.Context, batch *entity.Batch) error
	// OrderHasSales indica si algún lote de la orden tiene SaleItems.
	OrderHasSales(ctx context.Context, orderID int64) (bool, error)
	DeleteByProduct(ctx context.Context, productID int64) error
}
