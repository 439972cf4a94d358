package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/ledger"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// CreateProductInput entrada de Create.
type CreateProductInput struct {
	Name              string
	Description       string
	Price             decimal.Decimal
	Unit              string
	WarningStockLevel decimal.Decimal
	InitialStock      decimal.Decimal
	CategoryID        *int64
	Stamp             Stamp
}

// UpdateProductInput campos editables; nil = sin cambio. InStock no es editable.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Price             *decimal.Decimal
	Unit              *string
	WarningStockLevel *decimal.Decimal
	CategoryID        *int64 // 0 quita la categoría
	Stamp             Stamp
}

// ProductUseCase registro de productos y lecturas de stock.
type ProductUseCase struct {
	tx     TxRunner
	audit  *AuditWriter
	orders *ReceiveOrderUseCase
	log    *logger.Logger
}

// NewProductUseCase construye el caso de uso; orders genera la orden sintética del stock inicial.
func NewProductUseCase(tx TxRunner, audit *AuditWriter, orders *ReceiveOrderUseCase, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{tx: tx, audit: audit, orders: orders, log: log}
}

// Create crea el producto. Con InitialStock > 0 registra además una orden sintética
// (sin acreditar, costo = precio) para que exista el lote que respalda ese stock.
func (uc *ProductUseCase) Create(ctx context.Context, in CreateProductInput) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if in.Price.IsNegative() || in.WarningStockLevel.IsNegative() || in.InitialStock.IsNegative() {
		return nil, domain.Invalidf("precio, nivel de alerta y stock inicial no pueden ser negativos")
	}
	if err := domain.CheckScale("precio", in.Price); err != nil {
		return nil, err
	}
	if err := domain.CheckScale("nivel de alerta", in.WarningStockLevel); err != nil {
		return nil, err
	}
	if err := domain.CheckScale("stock inicial", in.InitialStock); err != nil {
		return nil, err
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}
	p := &entity.Product{
		Name:              name,
		Description:       in.Description,
		Price:             in.Price,
		Unit:              in.Unit,
		InStock:           in.InitialStock,
		WarningStockLevel: in.WarningStockLevel,
		CategoryID:        in.CategoryID,
	}
	err = uc.tx.Run(ctx, func(r Repos) error {
		if err := requireCategory(ctx, r, p.CategoryID); err != nil {
			return err
		}
		p.Stamp(op.Actor, op.Now)
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		if err := uc.audit.record(ctx, r.Logs, op, entity.ActivityCreate,
			"Product ID %d Name %s", p.ID, p.Name); err != nil {
			return err
		}
		if !in.InitialStock.IsPositive() {
			return nil
		}
		_, err := uc.orders.receive(ctx, r, op, ReceiveInput{
			OrderDate:   op.Now,
			Items:       []OrderLine{{ProductID: p.ID, Quantity: in.InitialStock, UnitCost: p.Price}},
			CreditStock: false,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update modifica los datos descriptivos del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in UpdateProductInput) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.WarningStockLevel != nil && in.WarningStockLevel.IsNegative()) {
		return nil, domain.Invalidf("precio y nivel de alerta no pueden ser negativos")
	}
	if in.Price != nil {
		if err := domain.CheckScale("precio", *in.Price); err != nil {
			return nil, err
		}
	}
	if in.WarningStockLevel != nil {
		if err := domain.CheckScale("nivel de alerta", *in.WarningStockLevel); err != nil {
			return nil, err
		}
	}
	op, err := newOperation(in.Stamp)
	if err != nil {
		return nil, err
	}

	var p *entity.Product
	err = uc.tx.Run(ctx, func(r Repos) error {
		var err error
		p, err = r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundf("producto %d", id)
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Unit != nil {
			p.Unit = *in.Unit
		}
		if in.WarningStockLevel != nil {
			p.WarningStockLevel = *in.WarningStockLevel
		}
		if in.CategoryID != nil {
			p.CategoryID = nil
			if *in.CategoryID != 0 {
				id := *in.CategoryID
				p.CategoryID = &id
			}
			if err := requireCategory(ctx, r, p.CategoryID); err != nil {
				return err
			}
		}
		p.Touch(op.Actor, op.Now)
		if err := r.Products.Update(ctx, p); err != nil {
			return err
		}
		return uc.audit.record(ctx, r.Logs, op, entity.ActivityModify,
			"Product ID %d Name %s", p.ID, p.Name)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete borra el producto con sus lotes y líneas de orden; las órdenes que quedan
// vacías también se borran. ErrConflict si algún SaleItem lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64, stamp Stamp) error {
	op, err := newOperation(stamp)
	if err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(r Repos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundf("producto %d", id)
		}
		sold, err := r.Products.HasSales(ctx, id)
		if err != nil {
			return err
		}
		if sold {
			return domain.Conflictf("el producto %q tiene ventas registradas", p.Name)
		}

		if err := r.Batches.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		orderIDs, err := r.Orders.DeleteItemsByProduct(ctx, id)
		if err != nil {
			return err
		}
		for _, orderID := range uniqueSorted(orderIDs) {
			if _, err := r.Orders.DeleteIfEmpty(ctx, orderID); err != nil {
				return err
			}
		}
		if err := r.Products.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.record(ctx, r.Logs, op, entity.ActivityDelete,
			"Product ID %d Name %s", p.ID, p.Name)
	})
}

// Get devuelve un producto.
func (uc *ProductUseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos paginados por id.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	var products []*entity.Product
	err := uc.tx.Run(ctx, func(r Repos) error {
		var err error
		products, err = r.Products.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// CurrentStock total autoritativo del producto.
func (uc *ProductUseCase) CurrentStock(ctx context.Context, id int64) (decimal.Decimal, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.InStock, nil
}

// IsLow indica si el producto está por debajo de su nivel de alerta.
func (uc *ProductUseCase) IsLow(ctx context.Context, id int64) (bool, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return false, err
	}
	return p.IsLow(), nil
}

// Stock combina CurrentStock e IsLow en una sola lectura.
func (uc *ProductUseCase) Stock(ctx context.Context, id int64) (*dto.StockResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID:         p.ID,
		InStock:           p.InStock,
		WarningStockLevel: p.WarningStockLevel,
		IsLow:             p.IsLow(),
	}, nil
}

// VerifyLedger compara InStock con la suma de los lotes. Solo informa; no corrige.
func (uc *ProductUseCase) VerifyLedger(ctx context.Context, id int64) (*dto.LedgerCheckResponse, error) {
	var check ledger.Check
	err := uc.tx.Run(ctx, func(r Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundf("producto %d", id)
		}
		batches, err := r.Batches.ListByProduct(ctx, id)
		if err != nil {
			return err
		}
		check = ledger.Verify(p, batches)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !check.Consistent {
		uc.log.Warn().
			Int64("product_id", check.ProductID).
			Str("in_stock", check.InStock.String()).
			Str("batch_sum", check.BatchSum.String()).
			Msg("ledger inconsistente")
	}
	return &dto.LedgerCheckResponse{
		ProductID:   check.ProductID,
		InStock:     check.InStock,
		BatchSum:    check.BatchSum,
		Consistent:  check.Consistent,
		StockValue:  check.Valuation.Value,
		AverageCost: check.Valuation.AverageCost,
	}, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id int64) (*entity.Product, error) {
	var p *entity.Product
	err := uc.tx.Run(ctx, func(r Repos) error {
		var err error
		p, err = r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundf("producto %d", id)
		}
		return nil
	})
	return p, err
}

// requireCategory NotFound si id apunta a una categoría inexistente; nil no exige nada.
func requireCategory(ctx context.Context, r Repos, id *int64) error {
	if id == nil {
		return nil
	}
	c, err := r.Categories.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFoundf("categoría %d", *id)
	}
	return nil
}
