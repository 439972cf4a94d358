//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

var now = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

// newTestPool levanta PostgreSQL en un contenedor y aplica las migraciones embebidas.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor de PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	mg, err := postgres.NewMigrator(pool, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	v, dirty, err := mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.False(t, dirty)
	require.NoError(t, mg.Close())

	return pool
}

type pgFixture struct {
	pool     *pgxpool.Pool
	tx       *postgres.TxRunner
	orders   *inventory.ReceiveOrderUseCase
	alloc    *inventory.AllocationUseCase
	products *inventory.ProductUseCase
}

func newPGFixture(t *testing.T, strict bool) *pgFixture {
	t.Helper()
	pool := newTestPool(t)
	tx := postgres.NewTxRunner(pool, 2000)
	audit := inventory.NewAuditWriter(strict, logger.Nop())
	orders := inventory.NewReceiveOrderUseCase(tx, audit, logger.Nop())
	return &pgFixture{
		pool:     pool,
		tx:       tx,
		orders:   orders,
		alloc:    inventory.NewAllocationUseCase(tx, audit, logger.Nop()),
		products: inventory.NewProductUseCase(tx, audit, orders, logger.Nop()),
	}
}

func stamp() inventory.Stamp {
	return inventory.Stamp{Actor: "tester", Now: now}
}

func (f *pgFixture) product(t *testing.T, name string) int64 {
	t.Helper()
	p, err := f.products.Create(context.Background(), inventory.CreateProductInput{
		Name: name, Price: decimal.NewFromInt(3), Stamp: stamp(),
	})
	require.NoError(t, err)
	return p.ID
}

func (f *pgFixture) receive(t *testing.T, productID int64, qty, cost int64) *dto.OrderSummary {
	t.Helper()
	o, err := f.orders.Receive(context.Background(), inventory.ReceiveInput{
		Items:       []inventory.OrderLine{{ProductID: productID, Quantity: decimal.NewFromInt(qty), UnitCost: decimal.NewFromInt(cost)}},
		CreditStock: true,
		Stamp:       stamp(),
	})
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios completos sobre PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_RecepcionVentaYReversion(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	pid := f.product(t, "Arroz")

	order := f.receive(t, pid, 20, 2)
	assert.Equal(t, "OD1001", order.Code)
	require.Len(t, order.Batches, 1)

	sale, err := f.alloc.CreateSale(ctx, inventory.CreateSaleInput{
		Lines: []inventory.SaleLine{{ProductID: pid, Quantity: decimal.NewFromInt(15), UnitPrice: decimal.NewFromInt(3)}},
		Stamp: stamp(),
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(45)))

	_, err = f.alloc.Allocate(ctx, inventory.AllocateInput{
		SaleID: sale.ID, ProductID: pid, Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(3), Stamp: stamp(),
	})
	var oos *domain.OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, "Product 'Arroz' is out of stock. Requested: 8.00, Available: 5.00", oos.Error())

	require.NoError(t, f.alloc.Reverse(ctx, sale.Items[0].ID, stamp()))
	stock, err := f.products.CurrentStock(ctx, pid)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(20)))

	check, err := f.products.VerifyLedger(ctx, pid)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestPostgres_FIFOEntreLotes(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	pid := f.product(t, "Frijol")
	first := f.receive(t, pid, 5, 1)
	second := f.receive(t, pid, 10, 2)

	sale, err := f.alloc.CreateSale(ctx, inventory.CreateSaleInput{
		Lines: []inventory.SaleLine{{ProductID: pid, Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(4)}},
		Stamp: stamp(),
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, first.Batches[0].ID, sale.Items[0].BatchID)
	assert.True(t, sale.Items[0].Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, second.Batches[0].ID, sale.Items[1].BatchID)
	assert.True(t, sale.Items[1].Amount.Equal(decimal.NewFromInt(3)))
}

func TestPostgres_DeleteOrderConVentasEsConflicto(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	pid := f.product(t, "Lenteja")
	order := f.receive(t, pid, 4, 1)

	_, err := f.alloc.CreateSale(ctx, inventory.CreateSaleInput{
		Lines: []inventory.SaleLine{{ProductID: pid, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(2)}},
		Stamp: stamp(),
	})
	require.NoError(t, err)

	err = f.orders.DeleteOrder(ctx, order.ID, stamp())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPostgres_VentasConcurrentesNoSobreasignan(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	pid := f.product(t, "Azúcar")
	f.receive(t, pid, 10, 1)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.alloc.CreateSale(ctx, inventory.CreateSaleInput{
				Lines: []inventory.SaleLine{{ProductID: pid, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(2)}},
				Stamp: stamp(),
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 3, ok, "solo caben tres ventas de 3 en un lote de 10")

	stock, err := f.products.CurrentStock(ctx, pid)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(1)))
	check, err := f.products.VerifyLedger(ctx, pid)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestPostgres_CheckDeStockLeftSeTraduce(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	pid := f.product(t, "Sal")
	order := f.receive(t, pid, 3, 1)

	err := f.tx.Run(ctx, func(r inventory.Repos) error {
		b, err := r.Batches.GetForUpdate(ctx, order.Batches[0].ID)
		require.NoError(t, err)
		b.StockLeft = decimal.NewFromInt(9)
		return r.Batches.UpdateStockLeft(ctx, b)
	})
	assert.Error(t, err)
}

func TestPostgres_AuditoriaLenienteSobreviveAFallo(t *testing.T) {
	f := newPGFixture(t, false)
	ctx := context.Background()
	pid := f.product(t, "Aceite")

	// Forzar el fallo de la bitácora: kind inválido viola el CHECK dentro del savepoint.
	err := f.tx.Run(ctx, func(r inventory.Repos) error {
		bad := &entity.ActivityLog{OperationID: "00000000-0000-0000-0000-000000000001", Kind: "BOGUS", Actor: "tester", Timestamp: now}
		assert.Error(t, r.Logs.Create(ctx, bad))
		p, err := r.Products.GetForUpdate(ctx, pid)
		if err != nil {
			return err
		}
		p.Touch("tester", now)
		return r.Products.UpdateStock(ctx, p)
	})
	require.NoError(t, err, "la transacción debe seguir utilizable tras el fallo del savepoint")
}

func TestPostgres_UsuarioDuplicado(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	err := f.tx.Run(ctx, func(r inventory.Repos) error {
		u := &entity.User{Username: "ana", PasswordHash: "x", Role: entity.RoleAdmin, Active: true}
		u.Stamp("tester", now)
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		dup := *u
		return r.Users.Create(ctx, &dup)
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_CategoriaEnUsoYFK(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(f.tx, inventory.NewAuditWriter(true, logger.Nop()))

	cat, err := categories.Create(ctx, stamp(), dto.CategoryRequest{Name: "Condimentos"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, stamp(), dto.CategoryRequest{Name: "Condimentos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := f.products.Create(ctx, inventory.CreateProductInput{Name: "Comino", CategoryID: &cat.ID, Stamp: stamp()})
	require.NoError(t, err)
	require.NotNil(t, p.CategoryID)
	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)

	assert.ErrorIs(t, categories.Delete(ctx, cat.ID, stamp()), domain.ErrConflict)

	// Sin la verificación previa, la FK RESTRICT también se traduce a ErrConflict.
	err = f.tx.Run(ctx, func(r inventory.Repos) error {
		return r.Categories.Delete(ctx, cat.ID)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	zero := int64(0)
	_, err = f.products.Update(ctx, p.ID, inventory.UpdateProductInput{CategoryID: &zero, Stamp: stamp()})
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, cat.ID, stamp()))
}

func TestPostgres_ProveedorConOrdenesNoSeBorra(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	suppliers := usecase.NewSupplierUseCase(f.tx, inventory.NewAuditWriter(true, logger.Nop()))

	s, err := suppliers.Create(ctx, stamp(), dto.CreateSupplierRequest{Name: "Sales del Caribe"})
	require.NoError(t, err)
	pid := f.product(t, "Sal marina")
	_, err = f.orders.Receive(ctx, inventory.ReceiveInput{
		SupplierID:  &s.ID,
		Items:       []inventory.OrderLine{{ProductID: pid, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1)}},
		CreditStock: true,
		Stamp:       stamp(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, suppliers.Delete(ctx, s.ID, stamp()), domain.ErrConflict)
	err = f.tx.Run(ctx, func(r inventory.Repos) error {
		return r.Suppliers.Delete(ctx, s.ID)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := suppliers.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sales del Caribe", list[0].Name)
}

func TestPostgres_UsuariosOrdenadosYActualizados(t *testing.T) {
	f := newPGFixture(t, true)
	ctx := context.Background()
	users := usecase.NewUserUseCase(f.tx)

	var ids []int64
	err := f.tx.Run(ctx, func(r inventory.Repos) error {
		for i, name := range []string{"ana", "beto", "vero"} {
			u := &entity.User{Username: name, PasswordHash: "x", Role: entity.RoleVendedor, Active: true}
			u.Stamp("tester", now.Add(time.Duration(i)*time.Minute))
			if err := r.Users.Create(ctx, u); err != nil {
				return err
			}
			ids = append(ids, u.ID)
		}
		return nil
	})
	require.NoError(t, err)

	list, err := users.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "vero", list[0].Username)
	assert.Equal(t, "beto", list[1].Username)

	role := entity.RoleBodeguero
	off := false
	out, err := users.Update(ctx, ids[0], stamp(), dto.UpdateUserRequest{Role: &role, Active: &off})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBodeguero, out.Role)
	assert.False(t, out.Active)

	require.NoError(t, users.Delete(ctx, ids[1], stamp()))
	_, err = users.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
