package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Valorización
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedCost(t *testing.T) {
	tests := []struct {
		name                    string
		stock, cost, in, inCost string
		want                    string
	}{
		{"sin saldo previo toma el costo de la entrada", "0", "0", "10", "2", "2"},
		{"promedia por cantidad", "10", "2", "10", "4", "3"},
		{"saldo y entrada en cero", "0", "5", "0", "7", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.WeightedCost(dec(tt.stock), dec(tt.cost), dec(tt.in), dec(tt.inCost))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestValue_IgnoraLotesAgotados(t *testing.T) {
	agotado := batch(1, "0", t0)
	agotado.OrderPrice = dec("100")
	a := batch(2, "4", t0)
	a.OrderPrice = dec("2")
	b := batch(3, "6", t0)
	b.OrderPrice = dec("3")

	v := ledger.Value([]*entity.Batch{agotado, a, b})
	assert.True(t, v.Units.Equal(dec("10")))
	assert.True(t, v.AverageCost.Equal(dec("2.6")), "got %s", v.AverageCost)
	assert.True(t, v.Value.Equal(dec("26")), "got %s", v.Value)
}

func TestValue_SinLotes(t *testing.T) {
	v := ledger.Value(nil)
	assert.True(t, v.Units.IsZero())
	assert.True(t, v.Value.IsZero())
}
