package entity

import "github.com/shopspring/decimal"

// Product representa un producto del inventario.
// InStock es el total autoritativo; debe coincidir con la suma de StockLeft de sus lotes.
// Solo lo modifican la recepción de órdenes (suma) y el motor de asignación (resta).
type Product struct {
	ID                int64
	Name              string
	Description       string
	Price             decimal.Decimal // precio de venta
	Unit              string          // unidad de medida (ej. "kg", "und")
	InStock           decimal.Decimal
	WarningStockLevel decimal.Decimal // por debajo de este nivel el stock es "bajo"
	CategoryID        *int64
	Audit
}

// IsLow indica si el stock está por debajo del nivel de alerta.
func (p *Product) IsLow() bool {
	return p.InStock.LessThan(p.WarningStockLevel)
}
