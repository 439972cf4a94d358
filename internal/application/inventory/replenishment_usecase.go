package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/ledger"
)

// ReplenishmentUseCase genera la lista de reposición a partir de los productos bajo su nivel de alerta.
type ReplenishmentUseCase struct {
	tx TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx}
}

// idealFactor el stock ideal es 1.5 veces el nivel de alerta.
var idealFactor = decimal.RequireFromString("1.5")

// GenerateReplenishmentList devuelve los productos con stock bajo, la cantidad sugerida
// de pedido y una prioridad: primero los más vendidos según sus lotes, luego el mayor déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	err := uc.tx.Run(ctx, func(r Repos) error {
		low, err := r.Products.ListLowStock(ctx)
		if err != nil {
			return err
		}
		for _, p := range low {
			batches, err := r.Batches.ListByProduct(ctx, p.ID)
			if err != nil {
				return err
			}
			suggestions = append(suggestions, suggest(p, batches))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.UnitsSold.Equal(b.UnitsSold) {
			return a.UnitsSold.GreaterThan(b.UnitsSold)
		}
		defA := a.WarningStockLevel.Sub(a.CurrentStock)
		defB := b.WarningStockLevel.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func suggest(p *entity.Product, batches []*entity.Batch) dto.ReplenishmentSuggestionDTO {
	ideal := p.WarningStockLevel.Mul(idealFactor)
	qty := ideal.Sub(p.InStock)
	if qty.IsNegative() {
		qty = decimal.Zero
	}

	sold := decimal.Zero
	lastCost := p.Price
	if len(batches) > 0 {
		ordered := append([]*entity.Batch(nil), batches...)
		ledger.SortFIFO(ordered)
		lastCost = ordered[len(ordered)-1].OrderPrice
		for _, b := range ordered {
			sold = sold.Add(b.Sold())
		}
	}

	return dto.ReplenishmentSuggestionDTO{
		ProductID:          p.ID,
		ProductName:        p.Name,
		CurrentStock:       p.InStock,
		WarningStockLevel:  p.WarningStockLevel,
		IdealStock:         ideal,
		SuggestedOrderQty:  qty,
		LastUnitCost:       lastCost,
		EstimatedOrderCost: qty.Mul(lastCost),
		UnitsSold:          sold,
	}
}
