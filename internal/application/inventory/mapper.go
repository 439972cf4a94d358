package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func toOrderSummary(o *entity.Order) *dto.OrderSummary {
	out := &dto.OrderSummary{
		ID:          o.ID,
		Code:        o.Code,
		OrderDate:   o.OrderDate,
		SupplierID:  o.SupplierID,
		TotalAmount: o.TotalAmount,
		Items:       make([]dto.OrderItemResponse, 0, len(o.Items)),
		Batches:     make([]dto.BatchResponse, 0, len(o.Batches)),
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	for _, b := range o.Batches {
		out.Batches = append(out.Batches, toBatchResponse(b))
	}
	return out
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:          b.ID,
		OrderID:     b.OrderID,
		OrderItemID: b.OrderItemID,
		ProductID:   b.ProductID,
		OrderPrice:  b.OrderPrice,
		Received:    b.Received,
		StockLeft:   b.StockLeft,
		CreatedAt:   b.CreatedAt,
	}
}

func toSaleItemSummary(i *entity.SaleItem) dto.SaleItemSummary {
	return dto.SaleItemSummary{
		ID:        i.ID,
		SaleID:    i.SaleID,
		ProductID: i.ProductID,
		BatchID:   i.BatchID,
		Amount:    i.Amount,
		SalePrice: i.SalePrice,
	}
}

func toSaleItemSummaries(items []*entity.SaleItem) []dto.SaleItemSummary {
	out := make([]dto.SaleItemSummary, 0, len(items))
	for _, i := range items {
		out = append(out, toSaleItemSummary(i))
	}
	return out
}

func toSaleSummary(s *entity.Sale) *dto.SaleSummary {
	return &dto.SaleSummary{
		ID:          s.ID,
		Code:        s.Code,
		SaleDate:    s.SaleDate,
		TotalAmount: s.TotalAmount,
		Items:       toSaleItemSummaries(s.Items),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Unit:              p.Unit,
		InStock:           p.InStock,
		WarningStockLevel: p.WarningStockLevel,
		CategoryID:        p.CategoryID,
		CreatedAt:         p.CreatedAt,
		CreatedBy:         p.CreatedBy,
		LastModifiedAt:    p.LastModifiedAt,
		LastModifiedBy:    p.LastModifiedBy,
	}
}
