package entity

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Errores de invariantes del lote.
var (
	ErrBatchUnderflow = errors.New("lote: la cantidad supera el stock restante")
	ErrBatchOverflow  = errors.New("lote: el crédito supera la cantidad recibida")
	ErrBatchQuantity  = errors.New("lote: la cantidad debe ser positiva")
)

// Batch unidad del ledger: un lote recibido por una orden, con su propio saldo.
// Invariante: 0 <= StockLeft <= Received.
type Batch struct {
	ID          int64
	OrderID     int64
	OrderItemID int64
	ProductID   int64
	OrderPrice  decimal.Decimal // costo unitario al recibir
	Received    decimal.Decimal // cantidad original recibida
	StockLeft   decimal.Decimal
	Audit
}

// NewBatch crea el lote de una línea de orden con StockLeft = cantidad recibida.
func NewBatch(item *OrderItem) *Batch {
	return &Batch{
		OrderID:     item.OrderID,
		OrderItemID: item.ID,
		ProductID:   item.ProductID,
		OrderPrice:  item.UnitCost,
		Received:    item.Quantity,
		StockLeft:   item.Quantity,
		Audit:       item.Audit,
	}
}

// HasStock indica si el lote es elegible para asignación.
func (b *Batch) HasStock() bool {
	return b.StockLeft.IsPositive()
}

// Take descuenta qty del saldo del lote.
func (b *Batch) Take(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return ErrBatchQuantity
	}
	if qty.GreaterThan(b.StockLeft) {
		return ErrBatchUnderflow
	}
	b.StockLeft = b.StockLeft.Sub(qty)
	return nil
}

// Credit devuelve qty al saldo del lote (reversión de una venta).
func (b *Batch) Credit(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return ErrBatchQuantity
	}
	if b.StockLeft.Add(qty).GreaterThan(b.Received) {
		return ErrBatchOverflow
	}
	b.StockLeft = b.StockLeft.Add(qty)
	return nil
}

// Sold cantidad ya despachada desde este lote.
func (b *Batch) Sold() decimal.Decimal {
	return b.Received.Sub(b.StockLeft)
}
