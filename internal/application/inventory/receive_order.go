package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const dateLayout = "2006-01-02"

// OrderLine línea a recibir.
type OrderLine struct {
	ProductID int64
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// ReceiveInput entrada de Receive.
// TotalAmount cero se calcula como Σ cantidad·costo. OrderDate cero toma la hora del Stamp.
// CreditStock=false registra los lotes sin sumar al producto (el stock ya estaba contado).
type ReceiveInput struct {
	SupplierID  *int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Items       []OrderLine
	CreditStock bool
	Stamp       Stamp
}

// AddItemsInput entrada de AddItems.
type AddItemsInput struct {
	OrderID     int64
	Items       []OrderLine
	CreditStock bool
	Stamp       Stamp
}

// ReceiveOrderUseCase registra órdenes de recepción: cada línea crea su lote (1:1) en el ledger.
type ReceiveOrderUseCase struct {
	tx    TxRunner
	audit *AuditWriter
	log   *logger.Logger
}

// NewReceiveOrderUseCase construye el caso de uso.
func NewReceiveOrderUseCase(tx TxRunner, audit *AuditWriter, log *logger.Logger) *ReceiveOrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReceiveOrderUseCase{tx: tx, audit: audit, log: log}
}

func validateOrderLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return domain.Invalidf("la orden debe tener al menos un ítem")
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			return domain.Invalidf("ítem %d: producto requerido", i)
		}
		if !l.Quantity.IsPositive() {
			return domain.Invalidf("ítem %d: la cantidad debe ser mayor que cero", i)
		}
		if l.UnitCost.IsNegative() {
			return domain.Invalidf("ítem %d: el costo no puede ser negativo", i)
		}
		if err := domain.CheckScale(fmt.Sprintf("ítem %d: cantidad", i), l.Quantity); err != nil {
			return err
		}
		if err := domain.CheckScale(fmt.Sprintf("ítem %d: costo", i), l.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// Receive crea la orden, sus líneas y un lote por línea en una sola transacción.
func (uc *ReceiveOrderUseCase) Receive(ctx context.Context, in ReceiveInput) (*dto.OrderSummary, error) {
	if err := validateOrderLines(in.Items); err != nil {
		return nil, err
	}
	if in.TotalAmount.IsNegative() {
		return nil, domain.Invalidf("el total no puede ser negativo")
	}
	if err := domain.CheckScale("total", in.TotalAmount); err != nil {
		return nil, err
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = uc.tx.Run(ctx, func(r Repos) error {
		var err error
		order, err = uc.receive(ctx, r, op, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderSummary(order), nil
}

// receive corre dentro de la tx del caller; también lo usa el alta de productos con stock inicial.
func (uc *ReceiveOrderUseCase) receive(ctx context.Context, r Repos, op operation, in ReceiveInput) (*entity.Order, error) {
	if in.SupplierID != nil {
		s, err := r.Suppliers.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.NotFoundf("proveedor %d", *in.SupplierID)
		}
	}

	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = op.Now
	}
	order := &entity.Order{
		OrderDate:   orderDate,
		SupplierID:  in.SupplierID,
		TotalAmount: in.TotalAmount,
	}
	order.Stamp(op.Actor, op.Now)
	if err := r.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	order.Code = entity.OrderCode(order.ID)

	added, err := uc.addLines(ctx, r, op, order, in.Items, in.CreditStock)
	if err != nil {
		return nil, err
	}
	if order.TotalAmount.IsZero() {
		order.TotalAmount = added
	}
	if err := r.Orders.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := uc.audit.record(ctx, r.Logs, op, entity.ActivityCreate,
		"Order ID %d Code %s Date %s", order.ID, order.Code, order.OrderDate.Format(dateLayout)); err != nil {
		return nil, err
	}
	return order, nil
}

// addLines persiste OrderItem + Batch por línea y, si credit, suma la cantidad a cada producto.
// Devuelve Σ cantidad·costo de las líneas agregadas.
func (uc *ReceiveOrderUseCase) addLines(ctx context.Context, r Repos, op operation, order *entity.Order, lines []OrderLine, credit bool) (decimal.Decimal, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	var products map[int64]*entity.Product
	if credit {
		var err error
		if products, err = lockProducts(ctx, r.Products, ids); err != nil {
			return decimal.Zero, err
		}
	} else {
		for _, id := range uniqueSorted(ids) {
			p, err := r.Products.GetByID(ctx, id)
			if err != nil {
				return decimal.Zero, err
			}
			if p == nil {
				return decimal.Zero, domain.NotFoundf("producto %d", id)
			}
		}
	}

	total := decimal.Zero
	for _, l := range lines {
		item := &entity.OrderItem{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		}
		item.Stamp(op.Actor, op.Now)
		if err := r.Orders.CreateItem(ctx, item); err != nil {
			return decimal.Zero, err
		}

		batch := entity.NewBatch(item)
		if err := r.Batches.Create(ctx, batch); err != nil {
			return decimal.Zero, err
		}

		order.Items = append(order.Items, item)
		order.Batches = append(order.Batches, batch)
		total = total.Add(item.Subtotal())

		if credit {
			p := products[l.ProductID]
			p.InStock = p.InStock.Add(l.Quantity)
		}
	}

	if credit {
		if err := saveStock(ctx, r.Products, products, op); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}

// AddItems agrega líneas (y sus lotes) a una orden existente.
func (uc *ReceiveOrderUseCase) AddItems(ctx context.Context, in AddItemsInput) (*dto.OrderSummary, error) {
	if err := validateOrderLines(in.Items); err != nil {
		return nil, err
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = uc.tx.Run(ctx, func(r Repos) error {
		var err error
		order, err = r.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFoundf("orden %d", in.OrderID)
		}
		if order.Items, err = r.Orders.ListItems(ctx, order.ID); err != nil {
			return err
		}
		if order.Batches, err = r.Batches.ListByOrder(ctx, order.ID); err != nil {
			return err
		}

		added, err := uc.addLines(ctx, r, op, order, in.Items, in.CreditStock)
		if err != nil {
			return err
		}
		order.TotalAmount = order.TotalAmount.Add(added)
		order.Touch(op.Actor, op.Now)
		if err := r.Orders.Update(ctx, order); err != nil {
			return err
		}
		return uc.audit.record(ctx, r.Logs, op, entity.ActivityModify,
			"Order ID %d Code %s Items %d", order.ID, order.Code, len(in.Items))
	})
	if err != nil {
		return nil, err
	}
	return toOrderSummary(order), nil
}

// DeleteOrder borra la orden y revierte el stock que acreditó.
// Si algún lote de la orden ya fue vendido devuelve ErrConflict y no toca nada.
func (uc *ReceiveOrderUseCase) DeleteOrder(ctx context.Context, orderID int64, stamp Stamp) error {
	op, err := newOperation(stamp)
	if err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(r Repos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFoundf("orden %d", orderID)
		}

		// producto → lotes, igual que la asignación
		unlocked, err := r.Batches.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(unlocked))
		for _, b := range unlocked {
			ids = append(ids, b.ProductID)
		}
		products, err := lockProducts(ctx, r.Products, ids)
		if err != nil {
			return err
		}
		batches, err := r.Batches.ListByOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		sold, err := r.Batches.OrderHasSales(ctx, orderID)
		if err != nil {
			return err
		}
		if sold {
			return domain.Conflictf("la orden %s tiene lotes vendidos", order.Code)
		}

		for _, b := range batches {
			p, ok := products[b.ProductID]
			if !ok {
				return domain.Conflictf("lote %d de un producto no bloqueado", b.ID)
			}
			next := p.InStock.Sub(b.StockLeft)
			if next.IsNegative() {
				uc.log.Warn().
					Int64("product_id", p.ID).
					Int64("order_id", orderID).
					Str("in_stock", p.InStock.String()).
					Str("stock_left", b.StockLeft.String()).
					Msg("el stock del producto quedaría negativo al borrar la orden; se ajusta a cero")
				next = decimal.Zero
			}
			p.InStock = next
		}
		if err := saveStock(ctx, r.Products, products, op); err != nil {
			return err
		}

		if err := r.Orders.Delete(ctx, orderID); err != nil {
			return err
		}
		return uc.audit.record(ctx, r.Logs, op, entity.ActivityDelete,
			"Order ID %d Code %s Date %s", order.ID, order.Code, order.OrderDate.Format(dateLayout))
	})
}

// GetOrder devuelve la orden con sus líneas y lotes.
func (uc *ReceiveOrderUseCase) GetOrder(ctx context.Context, orderID int64) (*dto.OrderSummary, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(r Repos) error {
		var err error
		order, err = r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFoundf("orden %d", orderID)
		}
		if order.Items, err = r.Orders.ListItems(ctx, orderID); err != nil {
			return err
		}
		order.Batches, err = r.Batches.ListByOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderSummary(order), nil
}
