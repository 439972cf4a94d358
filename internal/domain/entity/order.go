package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Prefijos de los códigos legibles derivados del id numérico.
const (
	OrderCodePrefix = "OD"
	SaleCodePrefix  = "SL"
	codeOffset      = 1000
)

// OrderCode genera el código legible de una orden (OD1001 para id 1).
func OrderCode(id int64) string {
	return fmt.Sprintf("%s%d", OrderCodePrefix, codeOffset+id)
}

// SaleCode genera el código legible de una venta (SL1001 para id 1).
func SaleCode(id int64) string {
	return fmt.Sprintf("%s%d", SaleCodePrefix, codeOffset+id)
}

// Order evento de recepción: cabecera de una orden de compra recibida.
// Es dueña exclusiva de sus OrderItems y Batches (borrado en cascada).
type Order struct {
	ID          int64
	Code        string
	OrderDate   time.Time
	SupplierID  *int64
	TotalAmount decimal.Decimal
	Items       []*OrderItem
	Batches     []*Batch
	Audit
}

// OrderItem línea recibida: producto, cantidad y costo unitario.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Audit
}

// Subtotal cantidad * costo.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}
