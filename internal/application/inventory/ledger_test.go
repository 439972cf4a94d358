package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

type fixture struct {
	store    *memory.Store
	products *inventory.ProductUseCase
	orders   *inventory.ReceiveOrderUseCase
	sales    *inventory.AllocationUseCase
	logBuf   *bytes.Buffer
	stamp    inventory.Stamp
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	store := memory.New()
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(buf, "debug")
	audit := inventory.NewAuditWriter(strict, log)
	orders := inventory.NewReceiveOrderUseCase(store, audit, log)
	return &fixture{
		store:    store,
		products: inventory.NewProductUseCase(store, audit, orders, log),
		orders:   orders,
		sales:    inventory.NewAllocationUseCase(store, audit, log),
		logBuf:   buf,
		stamp:    inventory.Stamp{Actor: "ana", Now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// later devuelve un Stamp posterior para que los lotes tengan created_at distinto.
func (f *fixture) later(d time.Duration) inventory.Stamp {
	return inventory.Stamp{Actor: f.stamp.Actor, Now: f.stamp.Now.Add(d)}
}

func (f *fixture) product(t *testing.T, name string) int64 {
	t.Helper()
	p, err := f.products.Create(context.Background(), inventory.CreateProductInput{
		Name: name, Price: dec("3"), WarningStockLevel: dec("5"), Stamp: f.stamp,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) receive(t *testing.T, productID int64, qty, cost string, stamp inventory.Stamp) *dto.OrderSummary {
	t.Helper()
	o, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items:       []inventory.OrderLine{{ProductID: productID, Quantity: dec(qty), UnitCost: dec(cost)}},
		CreditStock: true,
		Stamp:       stamp,
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) sale(t *testing.T) int64 {
	t.Helper()
	s, err := f.sales.CreateSale(context.Background(), inventory.CreateSaleInput{Stamp: f.stamp})
	require.NoError(t, err)
	return s.ID
}

func (f *fixture) stock(t *testing.T, productID int64) decimal.Decimal {
	t.Helper()
	qty, err := f.products.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	return qty
}

func (f *fixture) batchLeft(t *testing.T, orderID int64) decimal.Decimal {
	t.Helper()
	o, err := f.orders.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, o.Batches, 1)
	return o.Batches[0].StockLeft
}

func (f *fixture) assertConsistent(t *testing.T, productID int64) {
	t.Helper()
	check, err := f.products.VerifyLedger(context.Background(), productID)
	require.NoError(t, err)
	assert.True(t, check.Consistent, "in_stock=%s batch_sum=%s", check.InStock, check.BatchSum)
}

func (f *fixture) logs(t *testing.T) []*entity.ActivityLog {
	t.Helper()
	var out []*entity.ActivityLog
	require.NoError(t, f.store.Run(context.Background(), func(r inventory.Repos) error {
		var err error
		out, err = r.Logs.List(context.Background(), 1000, 0)
		return err
	}))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_RecibirVenderFallarRevertir(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	p := f.product(t, "Arroz")
	assert.True(t, f.stock(t, p).IsZero())

	order := f.receive(t, p, "20", "2.0", f.stamp)
	assert.Equal(t, entity.OrderCode(order.ID), order.Code)
	assert.True(t, order.TotalAmount.Equal(dec("40")))
	assert.True(t, f.batchLeft(t, order.ID).Equal(dec("20")))
	assert.True(t, f.stock(t, p).Equal(dec("20")))

	saleID := f.sale(t)
	items, err := f.sales.Allocate(ctx, inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("15"), UnitPrice: dec("3.0"), Stamp: f.stamp,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, f.batchLeft(t, order.ID).Equal(dec("5")))
	assert.True(t, f.stock(t, p).Equal(dec("5")))

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("8"), UnitPrice: dec("3.0"), Stamp: f.stamp,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var oos *domain.OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, "Arroz", oos.ProductName)
	assert.True(t, oos.Available.Equal(dec("5")))
	assert.Equal(t, "Product 'Arroz' is out of stock. Requested: 8.00, Available: 5.00", err.Error())
	assert.True(t, f.batchLeft(t, order.ID).Equal(dec("5")))
	assert.True(t, f.stock(t, p).Equal(dec("5")))

	require.NoError(t, f.sales.Reverse(ctx, items[0].ID, f.stamp))
	assert.True(t, f.batchLeft(t, order.ID).Equal(dec("20")))
	assert.True(t, f.stock(t, p).Equal(dec("20")))
	f.assertConsistent(t, p)

	sale, err := f.sales.GetSale(ctx, saleID)
	require.NoError(t, err)
	assert.Empty(t, sale.Items)
	assert.True(t, sale.TotalAmount.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Allocate
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_FIFODivideEntreLotes(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Azúcar")
	b1 := f.receive(t, p, "5", "1", f.stamp)
	b2 := f.receive(t, p, "10", "1.5", f.later(time.Hour))
	saleID := f.sale(t)

	items, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("8"), UnitPrice: dec("4"), Stamp: f.stamp,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b1.Batches[0].ID, items[0].BatchID)
	assert.True(t, items[0].Amount.Equal(dec("5")))
	assert.Equal(t, b2.Batches[0].ID, items[1].BatchID)
	assert.True(t, items[1].Amount.Equal(dec("3")))

	assert.True(t, f.batchLeft(t, b1.ID).IsZero())
	assert.True(t, f.batchLeft(t, b2.ID).Equal(dec("7")))
	assert.True(t, f.stock(t, p).Equal(dec("7")))
	f.assertConsistent(t, p)

	sale, err := f.sales.GetSale(context.Background(), saleID)
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("32")))
}

func TestAllocate_AtomicidadSinStock(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Sal")
	o1 := f.receive(t, p, "3", "1", f.stamp)
	o2 := f.receive(t, p, "4", "1", f.later(time.Minute))
	saleID := f.sale(t)
	before := len(f.logs(t))

	_, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("7.5"), UnitPrice: dec("1"), Stamp: f.stamp,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.stock(t, p).Equal(dec("7")))
	assert.True(t, f.batchLeft(t, o1.ID).Equal(dec("3")))
	assert.True(t, f.batchLeft(t, o2.ID).Equal(dec("4")))
	sale, err := f.sales.GetSale(context.Background(), saleID)
	require.NoError(t, err)
	assert.Empty(t, sale.Items)
	assert.Len(t, f.logs(t), before, "una asignación fallida no deja auditoría")
}

func TestAllocate_LotesInconsistentesRevierteTodo(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Harina")
	o := f.receive(t, p, "5", "1", f.stamp)
	saleID := f.sale(t)

	// defecto: el total dice 10 pero los lotes solo suman 5
	require.NoError(t, f.store.Run(context.Background(), func(r inventory.Repos) error {
		prod, _ := r.Products.GetForUpdate(context.Background(), p)
		prod.InStock = dec("10")
		return r.Products.UpdateStock(context.Background(), prod)
	}))

	_, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("8"), UnitPrice: dec("1"), Stamp: f.stamp,
	})
	var oos *domain.OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.True(t, oos.Requested.Equal(dec("3")), "Requested es la cantidad no cubierta")
	assert.True(t, oos.Available.Equal(dec("10")))

	assert.True(t, f.batchLeft(t, o.ID).Equal(dec("5")))
	assert.True(t, f.stock(t, p).Equal(dec("10")))
	assert.Contains(t, f.logBuf.String(), "no coincide con la suma de sus lotes")
}

func TestAllocate_Validaciones(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Aceite")
	f.receive(t, p, "5", "1", f.stamp)
	saleID := f.sale(t)
	ctx := context.Background()

	_, err := f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("0"), UnitPrice: dec("1"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("1"), UnitPrice: dec("-1"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: 999, Quantity: dec("1"), UnitPrice: dec("1"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: 999, ProductID: p, Quantity: dec("1"), UnitPrice: dec("1"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("1"), UnitPrice: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin actor no hay operación")
}

func TestEscala_CuatroDecimales(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Azafrán")
	ctx := context.Background()

	o := f.receive(t, p, "0.0001", "1", f.stamp)
	assert.True(t, f.stock(t, p).Equal(dec("0.0001")))

	saleID := f.sale(t)
	_, err := f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("0.00005"), UnitPrice: dec("1"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.stock(t, p).Equal(dec("0.0001")), "el stock no se toca")
	assert.True(t, f.batchLeft(t, o.ID).Equal(dec("0.0001")))

	_, err = f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("0.0001"), UnitPrice: dec("1.00001"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.Receive(ctx, inventory.ReceiveInput{
		Items:       []inventory.OrderLine{{ProductID: p, Quantity: dec("0.00001"), UnitCost: dec("1")}},
		CreditStock: true,
		Stamp:       f.stamp,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Create(ctx, inventory.CreateProductInput{Name: "Vainilla", Price: dec("1.00001"), Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	price := dec("2.12345")
	_, err = f.products.Update(ctx, p, inventory.UpdateProductInput{Price: &price, Stamp: f.stamp})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ceros a la derecha no cuentan
	items, err := f.sales.Allocate(ctx, inventory.AllocateInput{SaleID: saleID, ProductID: p, Quantity: dec("0.000100"), UnitPrice: dec("1.50000"), Stamp: f.stamp})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(dec("0.0001")))
	assert.True(t, f.stock(t, p).IsZero())
	f.assertConsistent(t, p)
}

func TestAllocateYReverse_RoundTrip(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Leche")
	o1 := f.receive(t, p, "2", "1", f.stamp)
	o2 := f.receive(t, p, "6", "1", f.later(time.Minute))
	saleID := f.sale(t)

	items, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("4.5"), UnitPrice: dec("2"), Stamp: f.stamp,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, it := range items {
		require.NoError(t, f.sales.Reverse(context.Background(), it.ID, f.stamp))
	}
	assert.True(t, f.stock(t, p).Equal(dec("8")))
	assert.True(t, f.batchLeft(t, o1.ID).Equal(dec("2")))
	assert.True(t, f.batchLeft(t, o2.ID).Equal(dec("6")))
	f.assertConsistent(t, p)

	assert.ErrorIs(t, f.sales.Reverse(context.Background(), items[0].ID, f.stamp), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas completas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_VariasLineasYReverseSale(t *testing.T) {
	f := newFixture(t, true)
	a := f.product(t, "Panela")
	b := f.product(t, "Fríjol")
	f.receive(t, a, "10", "1", f.stamp)
	f.receive(t, b, "4", "2", f.stamp)

	sale, err := f.sales.CreateSale(context.Background(), inventory.CreateSaleInput{
		Lines: []inventory.SaleLine{
			{ProductID: b, Quantity: dec("3"), UnitPrice: dec("5")},
			{ProductID: a, Quantity: dec("2"), UnitPrice: dec("1.5")},
		},
		Stamp: f.stamp,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCode(sale.ID), sale.Code)
	assert.Len(t, sale.Items, 2)
	assert.True(t, sale.TotalAmount.Equal(dec("18")))
	assert.True(t, f.stock(t, a).Equal(dec("8")))
	assert.True(t, f.stock(t, b).Equal(dec("1")))

	require.NoError(t, f.sales.ReverseSale(context.Background(), sale.ID, f.stamp))
	assert.True(t, f.stock(t, a).Equal(dec("10")))
	assert.True(t, f.stock(t, b).Equal(dec("4")))
	f.assertConsistent(t, a)
	f.assertConsistent(t, b)

	_, err = f.sales.GetSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_LineaSinStockNoCreaNada(t *testing.T) {
	f := newFixture(t, true)
	a := f.product(t, "Panela")
	b := f.product(t, "Fríjol")
	f.receive(t, a, "10", "1", f.stamp)
	f.receive(t, b, "1", "2", f.stamp)

	_, err := f.sales.CreateSale(context.Background(), inventory.CreateSaleInput{
		Lines: []inventory.SaleLine{
			{ProductID: a, Quantity: dec("2"), UnitPrice: dec("1")},
			{ProductID: b, Quantity: dec("3"), UnitPrice: dec("1")},
		},
		Stamp: f.stamp,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, a).Equal(dec("10")), "la primera línea también se revierte")

	_, err = f.sales.GetSale(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_ValidacionesYProveedor(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Maíz")
	ctx := context.Background()

	_, err := f.orders.Receive(ctx, inventory.ReceiveInput{Stamp: f.stamp, CreditStock: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.Receive(ctx, inventory.ReceiveInput{
		Items: []inventory.OrderLine{{ProductID: p, Quantity: dec("-1"), UnitCost: dec("1")}}, Stamp: f.stamp,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.Receive(ctx, inventory.ReceiveInput{
		Items: []inventory.OrderLine{{ProductID: 404, Quantity: dec("1"), UnitCost: dec("1")}}, Stamp: f.stamp, CreditStock: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := int64(77)
	_, err = f.orders.Receive(ctx, inventory.ReceiveInput{
		SupplierID: &missing,
		Items:      []inventory.OrderLine{{ProductID: p, Quantity: dec("1"), UnitCost: dec("1")}}, Stamp: f.stamp,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.stock(t, p).IsZero())
}

func TestReceive_SinCreditoNoSumaStock(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Avena")

	o, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items:       []inventory.OrderLine{{ProductID: p, Quantity: dec("3"), UnitCost: dec("1")}},
		TotalAmount: dec("100"),
		CreditStock: false,
		Stamp:       f.stamp,
	})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(dec("100")), "un total explícito se respeta")
	assert.True(t, f.stock(t, p).IsZero())
	assert.True(t, f.batchLeft(t, o.ID).Equal(dec("3")))
}

func TestAddItems_AgregaLotesYSumaTotal(t *testing.T) {
	f := newFixture(t, true)
	a := f.product(t, "Té")
	b := f.product(t, "Miel")
	o := f.receive(t, a, "2", "1", f.stamp)

	updated, err := f.orders.AddItems(context.Background(), inventory.AddItemsInput{
		OrderID:     o.ID,
		Items:       []inventory.OrderLine{{ProductID: b, Quantity: dec("4"), UnitCost: dec("2.5")}},
		CreditStock: true,
		Stamp:       f.stamp,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Len(t, updated.Batches, 2)
	assert.True(t, updated.TotalAmount.Equal(dec("12")))
	assert.True(t, f.stock(t, b).Equal(dec("4")))
	f.assertConsistent(t, b)

	logs := f.logs(t)
	assert.Equal(t, entity.ActivityModify, logs[0].Kind)
}

func TestDeleteOrder_ConVentasEsConflicto(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Cacao")
	o := f.receive(t, p, "5", "1", f.stamp)
	saleID := f.sale(t)
	_, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("1"), UnitPrice: dec("1"), Stamp: f.stamp,
	})
	require.NoError(t, err)

	err = f.orders.DeleteOrder(context.Background(), o.ID, f.stamp)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.stock(t, p).Equal(dec("4")))
	_, err = f.orders.GetOrder(context.Background(), o.ID)
	assert.NoError(t, err)
}

func TestDeleteOrder_SinVentasRevierteStock(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Cacao")
	keep := f.receive(t, p, "5", "1", f.stamp)
	drop := f.receive(t, p, "7", "1", f.later(time.Minute))
	assert.True(t, f.stock(t, p).Equal(dec("12")))

	require.NoError(t, f.orders.DeleteOrder(context.Background(), drop.ID, f.stamp))
	assert.True(t, f.stock(t, p).Equal(dec("5")))
	f.assertConsistent(t, p)
	assert.True(t, f.batchLeft(t, keep.ID).Equal(dec("5")))

	_, err := f.orders.GetOrder(context.Background(), drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.orders.DeleteOrder(context.Background(), drop.ID, f.stamp), domain.ErrNotFound)

	logs := f.logs(t)
	assert.Equal(t, entity.ActivityDelete, logs[0].Kind)
	assert.Contains(t, logs[0].Description, drop.Code)
}

func TestDeleteOrder_SinCreditoAjustaACero(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Canela")
	o, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items: []inventory.OrderLine{{ProductID: p, Quantity: dec("3"), UnitCost: dec("1")}}, Stamp: f.stamp,
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteOrder(context.Background(), o.ID, f.stamp))
	assert.True(t, f.stock(t, p).IsZero())
	assert.Contains(t, f.logBuf.String(), "se ajusta a cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_StockInicialGeneraOrdenSintetica(t *testing.T) {
	f := newFixture(t, true)
	p, err := f.products.Create(context.Background(), inventory.CreateProductInput{
		Name: "Queso", Price: dec("7"), InitialStock: dec("12"), Stamp: f.stamp,
	})
	require.NoError(t, err)
	assert.True(t, p.InStock.Equal(dec("12")), "sin doble conteo")
	f.assertConsistent(t, p.ID)

	o, err := f.orders.GetOrder(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, o.Batches, 1)
	assert.True(t, o.Batches[0].Received.Equal(dec("12")))
	assert.True(t, o.Batches[0].OrderPrice.Equal(dec("7")))

	logs := f.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, logs[0].OperationID, logs[1].OperationID, "producto y orden sintética comparten operación")
	assert.Equal(t, "ana", logs[0].Actor)
}

func TestProductUpdate_NoTocaStock(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Yuca")
	f.receive(t, p, "9", "1", f.stamp)

	name := "Yuca criolla"
	price := dec("4.5")
	updated, err := f.products.Update(context.Background(), p, inventory.UpdateProductInput{
		Name: &name, Price: &price, Stamp: f.later(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.InStock.Equal(dec("9")))
	assert.Equal(t, f.stamp.Now, updated.CreatedAt)
	assert.Equal(t, f.later(time.Hour).Now, updated.LastModifiedAt)
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t, true)
	sold := f.product(t, "Vendido")
	free := f.product(t, "Libre")
	shared, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items: []inventory.OrderLine{
			{ProductID: sold, Quantity: dec("3"), UnitCost: dec("1")},
			{ProductID: free, Quantity: dec("3"), UnitCost: dec("1")},
		},
		CreditStock: true,
		Stamp:       f.stamp,
	})
	require.NoError(t, err)
	own := f.receive(t, free, "2", "1", f.stamp)

	saleID := f.sale(t)
	_, err = f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: sold, Quantity: dec("1"), UnitPrice: dec("1"), Stamp: f.stamp,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.products.Delete(context.Background(), sold, f.stamp), domain.ErrConflict)

	require.NoError(t, f.products.Delete(context.Background(), free, f.stamp))
	_, err = f.products.Get(context.Background(), free)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	o, err := f.orders.GetOrder(context.Background(), shared.ID)
	require.NoError(t, err)
	assert.Len(t, o.Items, 1, "la orden compartida conserva la línea del otro producto")
	_, err = f.orders.GetOrder(context.Background(), own.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la orden que queda vacía se borra")
}

func TestProductStockEIsLow(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Papa")
	low, err := f.products.IsLow(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, low)

	f.receive(t, p, "6", "1", f.stamp)
	st, err := f.products.Stock(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, st.IsLow)
	assert.True(t, st.InStock.Equal(dec("6")))

	_, err = f.products.Stock(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_EstrictoAbortaLaOperacion(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Lenteja")
	f.store.FailActivityLogs(errors.New("bitácora caída"))

	_, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items: []inventory.OrderLine{{ProductID: p, Quantity: dec("4"), UnitCost: dec("1")}}, CreditStock: true, Stamp: f.stamp,
	})
	require.Error(t, err)
	f.store.FailActivityLogs(nil)
	assert.True(t, f.stock(t, p).IsZero())
}

func TestAudit_NoEstrictoContinuaYRegistra(t *testing.T) {
	f := newFixture(t, false)
	p := f.product(t, "Lenteja")
	f.store.FailActivityLogs(errors.New("bitácora caída"))

	_, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items: []inventory.OrderLine{{ProductID: p, Quantity: dec("4"), UnitCost: dec("1")}}, CreditStock: true, Stamp: f.stamp,
	})
	require.NoError(t, err)
	f.store.FailActivityLogs(nil)
	assert.True(t, f.stock(t, p).Equal(dec("4")))
	assert.Contains(t, f.logBuf.String(), "no se pudo escribir la auditoría")
	assert.Contains(t, f.logBuf.String(), `"kind":"CREATE"`)
}

func TestAudit_DescripcionesDelMotor(t *testing.T) {
	f := newFixture(t, true)
	p := f.product(t, "Mango")
	f.receive(t, p, "5", "1", f.stamp)
	saleID := f.sale(t)
	items, err := f.sales.Allocate(context.Background(), inventory.AllocateInput{
		SaleID: saleID, ProductID: p, Quantity: dec("2"), UnitPrice: dec("3"), Stamp: f.stamp,
	})
	require.NoError(t, err)

	logs := f.logs(t)
	assert.Equal(t, entity.ActivityCreate, logs[0].Kind)
	assert.Equal(t, "SaleItem ID 1 Product Mango Amount 2 Price 3.00", logs[0].Description)
	assert.Equal(t, items[0].ID, int64(1))
}
