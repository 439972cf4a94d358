package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// WeightedCost costo promedio ponderado al sumar una entrada al saldo actual.
// Nuevo = ((saldo * costo) + (entrada * costoEntrada)) / (saldo + entrada)
func WeightedCost(stock, cost, in, inCost decimal.Decimal) decimal.Decimal {
	sum := stock.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stock.Mul(cost).Add(in.Mul(inCost))
	return num.Div(sum)
}

// Valuation valor del saldo de un producto al costo de sus lotes.
type Valuation struct {
	Units       decimal.Decimal
	Value       decimal.Decimal
	AverageCost decimal.Decimal
}

// Value valoriza el saldo: cada lote aporta StockLeft a su OrderPrice.
// Los lotes agotados no pesan en el promedio.
func Value(batches []*entity.Batch) Valuation {
	units, avg := decimal.Zero, decimal.Zero
	for _, b := range batches {
		if !b.HasStock() {
			continue
		}
		avg = WeightedCost(units, avg, b.StockLeft, b.OrderPrice)
		units = units.Add(b.StockLeft)
	}
	return Valuation{
		Units:       units,
		Value:       units.Mul(avg).Round(2),
		AverageCost: avg.Round(4),
	}
}
