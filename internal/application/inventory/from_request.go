package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// Adaptadores de los requests HTTP a las entradas de los casos de uso.
// El Stamp lo arma el handler con el usuario del JWT y el reloj inyectado.

func orderLinesFromRequest(items []dto.OrderLineRequest) []OrderLine {
	out := make([]OrderLine, 0, len(items))
	for _, it := range items {
		out = append(out, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	return out
}

// ReceiveInputFromRequest adapta dto.ReceiveOrderRequest.
func ReceiveInputFromRequest(stamp Stamp, in dto.ReceiveOrderRequest) ReceiveInput {
	return ReceiveInput{
		SupplierID:  in.SupplierID,
		OrderDate:   in.OrderDate,
		TotalAmount: in.TotalAmount,
		Items:       orderLinesFromRequest(in.Items),
		CreditStock: in.Credit(),
		Stamp:       stamp,
	}
}

// AddItemsInputFromRequest adapta dto.AddOrderItemsRequest.
func AddItemsInputFromRequest(stamp Stamp, orderID int64, in dto.AddOrderItemsRequest) AddItemsInput {
	return AddItemsInput{
		OrderID:     orderID,
		Items:       orderLinesFromRequest(in.Items),
		CreditStock: in.Credit(),
		Stamp:       stamp,
	}
}

// CreateSaleInputFromRequest adapta dto.CreateSaleRequest.
func CreateSaleInputFromRequest(stamp Stamp, in dto.CreateSaleRequest) CreateSaleInput {
	lines := make([]SaleLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, SaleLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return CreateSaleInput{SaleDate: in.SaleDate, Lines: lines, Stamp: stamp}
}

// AllocateInputFromRequest adapta una línea de venta dirigida a una venta existente.
func AllocateInputFromRequest(stamp Stamp, saleID int64, in dto.SaleLineRequest) AllocateInput {
	return AllocateInput{
		SaleID:    saleID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Stamp:     stamp,
	}
}

// CreateProductInputFromRequest adapta dto.CreateProductRequest.
func CreateProductInputFromRequest(stamp Stamp, in dto.CreateProductRequest) CreateProductInput {
	return CreateProductInput{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		Unit:              in.Unit,
		WarningStockLevel: in.WarningStockLevel,
		InitialStock:      in.InitialStock,
		CategoryID:        in.CategoryID,
		Stamp:             stamp,
	}
}

// UpdateProductInputFromRequest adapta dto.UpdateProductRequest.
func UpdateProductInputFromRequest(stamp Stamp, in dto.UpdateProductRequest) UpdateProductInput {
	return UpdateProductInput{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		Unit:              in.Unit,
		WarningStockLevel: in.WarningStockLevel,
		CategoryID:        in.CategoryID,
		Stamp:             stamp,
	}
}
