package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/ledger"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// SaleLine cantidad de un producto a vender a un precio unitario.
type SaleLine struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

func (l SaleLine) validate() error {
	if l.ProductID <= 0 {
		return domain.Invalidf("producto requerido")
	}
	if !l.Quantity.IsPositive() {
		return domain.Invalidf("la cantidad debe ser mayor que cero")
	}
	if l.UnitPrice.IsNegative() {
		return domain.Invalidf("el precio no puede ser negativo")
	}
	if err := domain.CheckScale("cantidad", l.Quantity); err != nil {
		return err
	}
	return domain.CheckScale("precio", l.UnitPrice)
}

// AllocateInput entrada de Allocate.
type AllocateInput struct {
	SaleID    int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Stamp     Stamp
}

// CreateSaleInput entrada de CreateSale.
type CreateSaleInput struct {
	SaleDate time.Time
	Lines    []SaleLine
	Stamp    Stamp
}

// AllocationUseCase motor de asignación: despacha ventas desde los lotes en orden FIFO
// y las revierte devolviendo el stock al lote exacto del que salió.
type AllocationUseCase struct {
	tx    TxRunner
	audit *AuditWriter
	log   *logger.Logger
}

// NewAllocationUseCase construye el motor.
func NewAllocationUseCase(tx TxRunner, audit *AuditWriter, log *logger.Logger) *AllocationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AllocationUseCase{tx: tx, audit: audit, log: log}
}

// Allocate asigna Quantity del producto a la venta. Todo o nada: si los lotes no
// alcanzan devuelve *domain.OutOfStockError y no queda ningún SaleItem.
func (uc *AllocationUseCase) Allocate(ctx context.Context, in AllocateInput) ([]dto.SaleItemSummary, error) {
	line := SaleLine{ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	if err := line.validate(); err != nil {
		return nil, err
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	var items []*entity.SaleItem
	err = uc.tx.Run(ctx, func(r Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFoundf("venta %d", in.SaleID)
		}
		if items, err = uc.allocate(ctx, r, op, sale, line); err != nil {
			return err
		}
		sale.Touch(op.Actor, op.Now)
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleItemSummaries(items), nil
}

// allocate asume la venta bloqueada; bloquea producto y luego lotes.
func (uc *AllocationUseCase) allocate(ctx context.Context, r Repos, op operation, sale *entity.Sale, line SaleLine) ([]*entity.SaleItem, error) {
	product, err := r.Products.GetForUpdate(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFoundf("producto %d", line.ProductID)
	}
	if line.Quantity.GreaterThan(product.InStock) {
		return nil, &domain.OutOfStockError{
			ProductName: product.Name,
			Requested:   line.Quantity,
			Available:   product.InStock,
		}
	}

	batches, err := r.Batches.ListAvailableForUpdate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if sum := ledger.SumStockLeft(batches); !sum.Equal(product.InStock) {
		uc.log.Warn().
			Int64("product_id", product.ID).
			Str("in_stock", product.InStock.String()).
			Str("batch_sum", sum.String()).
			Msg("el total del producto no coincide con la suma de sus lotes")
	}

	plan, remaining := ledger.PlanFIFO(batches, line.Quantity)
	if remaining.IsPositive() {
		return nil, &domain.OutOfStockError{
			ProductName: product.Name,
			Requested:   remaining,
			Available:   product.InStock,
		}
	}

	items := make([]*entity.SaleItem, 0, len(plan))
	for _, a := range plan {
		if err := a.Batch.Take(a.Amount); err != nil {
			return nil, fmt.Errorf("lote %d: %w", a.Batch.ID, err)
		}
		a.Batch.Touch(op.Actor, op.Now)
		if err := r.Batches.UpdateStockLeft(ctx, a.Batch); err != nil {
			return nil, err
		}

		item := &entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: product.ID,
			BatchID:   a.Batch.ID,
			Amount:    a.Amount,
			SalePrice: line.UnitPrice,
		}
		item.Stamp(op.Actor, op.Now)
		if err := r.Sales.CreateItem(ctx, item); err != nil {
			return nil, err
		}
		if err := uc.audit.record(ctx, r.Logs, op, entity.ActivityCreate,
			"SaleItem ID %d Product %s Amount %s Price %s",
			item.ID, product.Name, item.Amount.String(), item.SalePrice.StringFixed(2)); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	product.InStock = product.InStock.Sub(line.Quantity)
	product.Touch(op.Actor, op.Now)
	if err := r.Products.UpdateStock(ctx, product); err != nil {
		return nil, err
	}

	sale.TotalAmount = sale.TotalAmount.Add(line.Quantity.Mul(line.UnitPrice))
	sale.Items = append(sale.Items, items...)
	return items, nil
}

// CreateSale crea la cabecera de la venta y asigna cada línea en la misma transacción.
func (uc *AllocationUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*dto.SaleSummary, error) {
	for i, l := range in.Lines {
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i, err)
		}
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(r Repos) error {
		saleDate := in.SaleDate
		if saleDate.IsZero() {
			saleDate = op.Now
		}
		sale = &entity.Sale{SaleDate: saleDate, TotalAmount: decimal.Zero}
		sale.Stamp(op.Actor, op.Now)
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		sale.Code = entity.SaleCode(sale.ID)
		if err := uc.audit.record(ctx, r.Logs, op, entity.ActivityCreate,
			"Sale ID %d Code %s Date %s", sale.ID, sale.Code, sale.SaleDate.Format(dateLayout)); err != nil {
			return err
		}

		ids := make([]int64, 0, len(in.Lines))
		for _, l := range in.Lines {
			ids = append(ids, l.ProductID)
		}
		if _, err := lockProducts(ctx, r.Products, ids); err != nil {
			return err
		}
		for _, l := range in.Lines {
			if _, err := uc.allocate(ctx, r, op, sale, l); err != nil {
				return err
			}
		}
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleSummary(sale), nil
}

// Reverse deshace un SaleItem: devuelve Amount a su lote y al producto.
func (uc *AllocationUseCase) Reverse(ctx context.Context, saleItemID int64, stamp Stamp) error {
	op, err := newOperation(stamp)
	if err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(r Repos) error {
		item, err := r.Sales.GetItem(ctx, saleItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFoundf("sale item %d", saleItemID)
		}
		sale, err := r.Sales.GetForUpdate(ctx, item.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFoundf("venta %d", item.SaleID)
		}
		// releer con la venta bloqueada: otra reversión pudo borrarlo
		if item, err = r.Sales.GetItem(ctx, saleItemID); err != nil {
			return err
		}
		if item == nil {
			return domain.NotFoundf("sale item %d", saleItemID)
		}

		if err := uc.reverseItem(ctx, r, op, sale, item); err != nil {
			return err
		}
		sale.Touch(op.Actor, op.Now)
		return r.Sales.Update(ctx, sale)
	})
}

func (uc *AllocationUseCase) reverseItem(ctx context.Context, r Repos, op operation, sale *entity.Sale, item *entity.SaleItem) error {
	product, err := r.Products.GetForUpdate(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFoundf("producto %d", item.ProductID)
	}
	batch, err := r.Batches.GetForUpdate(ctx, item.BatchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.NotFoundf("lote %d", item.BatchID)
	}

	if err := batch.Credit(item.Amount); err != nil {
		return fmt.Errorf("lote %d: %w", batch.ID, err)
	}
	batch.Touch(op.Actor, op.Now)
	if err := r.Batches.UpdateStockLeft(ctx, batch); err != nil {
		return err
	}

	product.InStock = product.InStock.Add(item.Amount)
	product.Touch(op.Actor, op.Now)
	if err := r.Products.UpdateStock(ctx, product); err != nil {
		return err
	}

	sale.TotalAmount = sale.TotalAmount.Sub(item.Subtotal())
	if err := r.Sales.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	return uc.audit.record(ctx, r.Logs, op, entity.ActivityDelete,
		"SaleItem ID %d Product %s Amount %s Price %s",
		item.ID, product.Name, item.Amount.String(), item.SalePrice.StringFixed(2))
}

// ReverseSale revierte todos los SaleItems de la venta y la borra.
func (uc *AllocationUseCase) ReverseSale(ctx context.Context, saleID int64, stamp Stamp) error {
	op, err := newOperation(stamp)
	if err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(r Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFoundf("venta %d", saleID)
		}
		items, err := r.Sales.ListItems(ctx, saleID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		if _, err := lockProducts(ctx, r.Products, ids); err != nil {
			return err
		}
		for _, it := range items {
			if err := uc.reverseItem(ctx, r, op, sale, it); err != nil {
				return err
			}
		}
		if err := r.Sales.Delete(ctx, saleID); err != nil {
			return err
		}
		return uc.audit.record(ctx, r.Logs, op, entity.ActivityDelete,
			"Sale ID %d Code %s Date %s", sale.ID, sale.Code, sale.SaleDate.Format(dateLayout))
	})
}

// GetSale devuelve la venta con sus SaleItems.
func (uc *AllocationUseCase) GetSale(ctx context.Context, saleID int64) (*dto.SaleSummary, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r Repos) error {
		var err error
		sale, err = r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFoundf("venta %d", saleID)
		}
		sale.Items, err = r.Sales.ListItems(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSaleSummary(sale), nil
}
