package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea recibida: producto, cantidad y costo unitario.
type OrderLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceiveOrderRequest body para POST /api/orders.
// CreditStock nil equivale a true; false se usa cuando el stock ya fue registrado en el producto.
type ReceiveOrderRequest struct {
	SupplierID  *int64             `json:"supplier_id,omitempty"`
	OrderDate   time.Time          `json:"order_date"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []OrderLineRequest `json:"items"`
	CreditStock *bool              `json:"credit_stock,omitempty"`
}

// Credit resuelve el valor efectivo de CreditStock.
func (r ReceiveOrderRequest) Credit() bool {
	return r.CreditStock == nil || *r.CreditStock
}

// AddOrderItemsRequest body para POST /api/orders/:id/items.
type AddOrderItemsRequest struct {
	Items       []OrderLineRequest `json:"items"`
	CreditStock *bool              `json:"credit_stock,omitempty"`
}

// Credit resuelve el valor efectivo de CreditStock.
func (r AddOrderItemsRequest) Credit() bool {
	return r.CreditStock == nil || *r.CreditStock
}

// OrderItemResponse línea de orden.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// BatchResponse lote del ledger.
type BatchResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	OrderItemID int64           `json:"order_item_id"`
	ProductID   int64           `json:"product_id"`
	OrderPrice  decimal.Decimal `json:"order_price"`
	Received    decimal.Decimal `json:"received"`
	StockLeft   decimal.Decimal `json:"stock_left"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderSummary salida de una orden con sus líneas y lotes.
type OrderSummary struct {
	ID          int64               `json:"id"`
	Code        string              `json:"code"`
	OrderDate   time.Time           `json:"order_date"`
	SupplierID  *int64              `json:"supplier_id,omitempty"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	Batches     []BatchResponse     `json:"batches"`
	CreatedAt   time.Time           `json:"created_at"`
	CreatedBy   string              `json:"created_by"`
}

// SaleLineRequest línea de venta: producto, cantidad y precio unitario.
type SaleLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	SaleDate time.Time         `json:"sale_date"`
	Items    []SaleLineRequest `json:"items"`
}

// SaleItemSummary consumo registrado contra un lote.
type SaleItemSummary struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	BatchID   int64           `json:"batch_id"`
	Amount    decimal.Decimal `json:"amount"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// SaleSummary salida de una venta con sus SaleItems.
type SaleSummary struct {
	ID          int64             `json:"id"`
	Code        string            `json:"code"`
	SaleDate    time.Time         `json:"sale_date"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []SaleItemSummary `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by"`
}

// ActivityLogResponse entrada de la bitácora.
type ActivityLogResponse struct {
	ID          int64     `json:"id"`
	OperationID string    `json:"operation_id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
}
