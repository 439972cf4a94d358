// Package memory implementa los repositorios del ledger en memoria.
// Un mutex serializa las transacciones; si fn falla se restaura la copia previa del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	seq        map[string]int64
	products   map[int64]entity.Product
	categories map[int64]entity.Category
	suppliers  map[int64]entity.Supplier
	orders     map[int64]entity.Order
	orderItems map[int64]entity.OrderItem
	batches    map[int64]entity.Batch
	sales      map[int64]entity.Sale
	saleItems  map[int64]entity.SaleItem
	users      map[int64]entity.User
	logs       []entity.ActivityLog
}

func newState() *state {
	return &state{
		seq:        map[string]int64{},
		products:   map[int64]entity.Product{},
		categories: map[int64]entity.Category{},
		suppliers:  map[int64]entity.Supplier{},
		orders:     map[int64]entity.Order{},
		orderItems: map[int64]entity.OrderItem{},
		batches:    map[int64]entity.Batch{},
		sales:      map[int64]entity.Sale{},
		saleItems:  map[int64]entity.SaleItem{},
		users:      map[int64]entity.User{},
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for k, v := range s.products {
		v.CategoryID = copyID(v.CategoryID)
		c.products[k] = v
	}
	for k, v := range s.categories {
		v.ParentID = copyID(v.ParentID)
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.logs = append([]entity.ActivityLog(nil), s.logs...)
	return c
}

// copyOrder guarda solo la cabecera; líneas y lotes viven en sus propias tablas.
func copyOrder(o entity.Order) entity.Order {
	o.SupplierID = copyID(o.SupplierID)
	o.Items = nil
	o.Batches = nil
	return o
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// Store base de datos en memoria.
type Store struct {
	mu     sync.Mutex
	st     *state
	logErr error
}

// New crea un Store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// FailActivityLogs hace que los inserts de auditoría devuelvan err (nil para restaurar).
func (s *Store) FailActivityLogs(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logErr = err
}

// Run ejecuta fn con los repositorios del store. Si fn devuelve error el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	if err := fn(s.repos()); err != nil {
		s.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos() inventory.Repos {
	return inventory.Repos{
		Products:   &productRepo{s: s},
		Categories: &categoryRepo{s: s},
		Suppliers:  &supplierRepo{s: s},
		Orders:     &orderRepo{s: s},
		Batches:    &batchRepo{s: s},
		Sales:      &saleRepo{s: s},
		Logs:       &activityLogRepo{s: s},
		Users:      &userRepo{s: s},
	}
}
