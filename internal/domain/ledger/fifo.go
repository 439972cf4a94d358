// Package ledger contiene las reglas puras del ledger de lotes (sin persistencia).
package ledger

import (
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation cantidad a tomar de un lote concreto.
type Allocation struct {
	Batch  *entity.Batch
	Amount decimal.Decimal
}

// SortFIFO ordena los lotes del más antiguo al más nuevo (creación ascendente, empate por id).
func SortFIFO(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// PlanFIFO reparte quantity entre los lotes con saldo, más antiguos primero.
// take = min(restante, StockLeft) por lote; devuelve el plan y lo que quedó sin cubrir.
// No modifica los lotes: el caller aplica el plan dentro de su transacción.
func PlanFIFO(batches []*entity.Batch, quantity decimal.Decimal) ([]Allocation, decimal.Decimal) {
	candidates := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.HasStock() {
			candidates = append(candidates, b)
		}
	}
	SortFIFO(candidates)

	remaining := quantity
	plan := make([]Allocation, 0, len(candidates))
	for _, b := range candidates {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, b.StockLeft)
		plan = append(plan, Allocation{Batch: b, Amount: take})
		remaining = remaining.Sub(take)
	}
	return plan, remaining
}

// SumStockLeft suma el saldo de los lotes.
func SumStockLeft(batches []*entity.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.StockLeft)
	}
	return total
}

// Check resultado de comparar el total del producto con la suma de sus lotes.
type Check struct {
	ProductID  int64
	InStock    decimal.Decimal
	BatchSum   decimal.Decimal
	Consistent bool
	Valuation  Valuation
}

// Verify compara InStock con la suma de StockLeft de los lotes del producto.
func Verify(product *entity.Product, batches []*entity.Batch) Check {
	sum := SumStockLeft(batches)
	return Check{
		ProductID:  product.ID,
		InStock:    product.InStock,
		BatchSum:   sum,
		Consistent: sum.Equal(product.InStock),
		Valuation:  Value(batches),
	}
}
