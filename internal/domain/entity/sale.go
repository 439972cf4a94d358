package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale evento de consumo: cabecera de una venta.
type Sale struct {
	ID          int64
	Code        string
	SaleDate    time.Time
	TotalAmount decimal.Decimal
	Items       []*SaleItem
	Audit
}

// SaleItem consumo desde un lote concreto. Una venta de N unidades puede
// producir varios SaleItems si ningún lote alcanza por sí solo.
// BatchID es una referencia no propietaria.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	BatchID   int64
	Amount    decimal.Decimal
	SalePrice decimal.Decimal
	Audit
}

// Subtotal cantidad * precio de venta.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.Amount.Mul(i.SalePrice)
}
