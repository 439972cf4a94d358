package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func newBatch(received string) *entity.Batch {
	item := &entity.OrderItem{ID: 4, OrderID: 2, ProductID: 9,
		Quantity: decimal.RequireFromString(received), UnitCost: decimal.NewFromInt(2)}
	return entity.NewBatch(item)
}

func TestNewBatch_SaldoIgualARecibido(t *testing.T) {
	b := newBatch("20")
	assert.True(t, b.StockLeft.Equal(decimal.NewFromInt(20)))
	assert.True(t, b.Received.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, int64(4), b.OrderItemID)
	assert.Equal(t, int64(9), b.ProductID)
	assert.True(t, b.OrderPrice.Equal(decimal.NewFromInt(2)))
}

func TestBatch_TakeYCredit(t *testing.T) {
	b := newBatch("20")

	require.NoError(t, b.Take(decimal.NewFromInt(15)))
	assert.True(t, b.StockLeft.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.Sold().Equal(decimal.NewFromInt(15)))

	assert.ErrorIs(t, b.Take(decimal.NewFromInt(6)), entity.ErrBatchUnderflow)
	assert.ErrorIs(t, b.Take(decimal.Zero), entity.ErrBatchQuantity)

	require.NoError(t, b.Credit(decimal.NewFromInt(15)))
	assert.True(t, b.StockLeft.Equal(decimal.NewFromInt(20)))
	assert.ErrorIs(t, b.Credit(decimal.NewFromInt(1)), entity.ErrBatchOverflow)
}

func TestCodes(t *testing.T) {
	assert.Equal(t, "OD1001", entity.OrderCode(1))
	assert.Equal(t, "SL1042", entity.SaleCode(42))
}

func TestProduct_IsLow(t *testing.T) {
	p := &entity.Product{InStock: decimal.NewFromInt(3), WarningStockLevel: decimal.NewFromInt(5)}
	assert.True(t, p.IsLow())
	p.InStock = decimal.NewFromInt(5)
	assert.False(t, p.IsLow())
}
