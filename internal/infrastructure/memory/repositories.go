package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/ledger"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*productRepo)(nil)
	_ repository.CategoryRepository    = (*categoryRepo)(nil)
	_ repository.SupplierRepository    = (*supplierRepo)(nil)
	_ repository.OrderRepository       = (*orderRepo)(nil)
	_ repository.BatchRepository       = (*batchRepo)(nil)
	_ repository.SaleRepository        = (*saleRepo)(nil)
	_ repository.ActivityLogRepository = (*activityLogRepo)(nil)
	_ repository.UserRepository        = (*userRepo)(nil)
)

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

// checkCategory emula la FK products.category_id.
func (r *productRepo) checkCategory(p *entity.Product) error {
	if p.CategoryID == nil {
		return nil
	}
	if _, ok := r.s.st.categories[*p.CategoryID]; !ok {
		return domain.Conflictf("categoría %d no existe", *p.CategoryID)
	}
	return nil
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.checkCategory(p); err != nil {
		return err
	}
	p.ID = r.s.st.next("products")
	stored := *p
	stored.CategoryID = copyID(p.CategoryID)
	r.s.st.products[p.ID] = stored
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.st.products))
	for _, id := range sortedKeys(r.s.st.products) {
		p := r.s.st.products[id]
		out = append(out, &p)
	}
	return page(out, limit, offset), nil
}

func (r *productRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	out := []*entity.Product{}
	for _, id := range sortedKeys(r.s.st.products) {
		p := r.s.st.products[id]
		if p.IsLow() {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.NotFoundf("producto %d", p.ID)
	}
	if err := r.checkCategory(p); err != nil {
		return err
	}
	stock := cur.InStock
	cur = *p
	cur.InStock = stock
	cur.CategoryID = copyID(p.CategoryID)
	r.s.st.products[p.ID] = cur
	return nil
}

func (r *productRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.NotFoundf("producto %d", p.ID)
	}
	if p.InStock.IsNegative() {
		return fmt.Errorf("products_in_stock_check: in_stock negativo para producto %d", p.ID)
	}
	cur.InStock = p.InStock
	cur.LastModifiedAt = p.LastModifiedAt
	cur.LastModifiedBy = p.LastModifiedBy
	r.s.st.products[p.ID] = cur
	return nil
}

func (r *productRepo) HasSales(_ context.Context, id int64) (bool, error) {
	for _, it := range r.s.st.saleItems {
		if it.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.st.products[id]; !ok {
		return domain.NotFoundf("producto %d", id)
	}
	for _, b := range r.s.st.batches {
		if b.ProductID == id {
			return domain.Conflictf("producto %d referenciado por lotes", id)
		}
	}
	for _, it := range r.s.st.orderItems {
		if it.ProductID == id {
			return domain.Conflictf("producto %d referenciado por órdenes", id)
		}
	}
	for _, it := range r.s.st.saleItems {
		if it.ProductID == id {
			return domain.Conflictf("producto %d referenciado por ventas", id)
		}
	}
	delete(r.s.st.products, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Categories
// ──────────────────────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

func (r *categoryRepo) check(c *entity.Category) error {
	for id, existing := range r.s.st.categories {
		if id != c.ID && existing.Name == c.Name {
			return fmt.Errorf("categories_name_key: %w", domain.ErrDuplicate)
		}
	}
	if c.ParentID != nil {
		if _, ok := r.s.st.categories[*c.ParentID]; !ok {
			return domain.Conflictf("categoría padre %d no existe", *c.ParentID)
		}
	}
	return nil
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	if err := r.check(c); err != nil {
		return err
	}
	c.ID = r.s.st.next("categories")
	stored := *c
	stored.ParentID = copyID(c.ParentID)
	r.s.st.categories[c.ID] = stored
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	c.ParentID = copyID(c.ParentID)
	return &c, nil
}

func (r *categoryRepo) filter(keep func(entity.Category) bool) []*entity.Category {
	out := []*entity.Category{}
	for _, id := range sortedKeys(r.s.st.categories) {
		c := r.s.st.categories[id]
		if keep(c) {
			c.ParentID = copyID(c.ParentID)
			out = append(out, &c)
		}
	}
	return out
}

func (r *categoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	return page(r.filter(func(entity.Category) bool { return true }), limit, offset), nil
}

func (r *categoryRepo) ListByParent(_ context.Context, parentID int64) ([]*entity.Category, error) {
	return r.filter(func(c entity.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	if _, ok := r.s.st.categories[c.ID]; !ok {
		return domain.NotFoundf("categoría %d", c.ID)
	}
	if err := r.check(c); err != nil {
		return err
	}
	stored := *c
	stored.ParentID = copyID(c.ParentID)
	r.s.st.categories[c.ID] = stored
	return nil
}

func (r *categoryRepo) InUse(_ context.Context, id int64) (bool, error) {
	for _, p := range r.s.st.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return true, nil
		}
	}
	for _, c := range r.s.st.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.st.categories[id]; !ok {
		return domain.NotFoundf("categoría %d", id)
	}
	if used, _ := r.InUse(ctx, id); used {
		return domain.Conflictf("categoría %d referenciada", id)
	}
	delete(r.s.st.categories, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Suppliers
// ──────────────────────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	sp.ID = r.s.st.next("suppliers")
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	sp, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

// List más recientes primero.
func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	keys := sortedKeys(r.s.st.suppliers)
	out := make([]*entity.Supplier, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		sp := r.s.st.suppliers[keys[i]]
		out = append(out, &sp)
	}
	return page(out, limit, offset), nil
}

func (r *supplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	if _, ok := r.s.st.suppliers[sp.ID]; !ok {
		return domain.NotFoundf("proveedor %d", sp.ID)
	}
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) HasOrders(_ context.Context, id int64) (bool, error) {
	for _, o := range r.s.st.orders {
		if o.SupplierID != nil && *o.SupplierID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *supplierRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.st.suppliers[id]; !ok {
		return domain.NotFoundf("proveedor %d", id)
	}
	if used, _ := r.HasOrders(ctx, id); used {
		return domain.Conflictf("proveedor %d referenciado por órdenes", id)
	}
	delete(r.s.st.suppliers, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	if o.SupplierID != nil {
		if _, ok := r.s.st.suppliers[*o.SupplierID]; !ok {
			return domain.Conflictf("proveedor %d inexistente", *o.SupplierID)
		}
	}
	o.ID = r.s.st.next("orders")
	r.s.st.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	if _, ok := r.s.st.orders[o.ID]; !ok {
		return domain.NotFoundf("orden %d", o.ID)
	}
	r.s.st.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.st.orders[id]; !ok {
		return domain.NotFoundf("orden %d", id)
	}
	for _, b := range r.s.st.batches {
		if b.OrderID != id {
			continue
		}
		for _, it := range r.s.st.saleItems {
			if it.BatchID == b.ID {
				return domain.Conflictf("lote %d referenciado por ventas", b.ID)
			}
		}
	}
	for bid, b := range r.s.st.batches {
		if b.OrderID == id {
			delete(r.s.st.batches, bid)
		}
	}
	for iid, it := range r.s.st.orderItems {
		if it.OrderID == id {
			delete(r.s.st.orderItems, iid)
		}
	}
	delete(r.s.st.orders, id)
	return nil
}

func (r *orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	if _, ok := r.s.st.orders[it.OrderID]; !ok {
		return domain.Conflictf("orden %d inexistente", it.OrderID)
	}
	if _, ok := r.s.st.products[it.ProductID]; !ok {
		return domain.Conflictf("producto %d inexistente", it.ProductID)
	}
	it.ID = r.s.st.next("order_items")
	r.s.st.orderItems[it.ID] = *it
	return nil
}

func (r *orderRepo) ListItems(_ context.Context, orderID int64) ([]*entity.OrderItem, error) {
	out := []*entity.OrderItem{}
	for _, id := range sortedKeys(r.s.st.orderItems) {
		it := r.s.st.orderItems[id]
		if it.OrderID == orderID {
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *orderRepo) DeleteItemsByProduct(_ context.Context, productID int64) ([]int64, error) {
	orders := []int64{}
	for _, id := range sortedKeys(r.s.st.orderItems) {
		it := r.s.st.orderItems[id]
		if it.ProductID != productID {
			continue
		}
		for _, b := range r.s.st.batches {
			if b.OrderItemID == id {
				return nil, domain.Conflictf("línea %d referenciada por el lote %d", id, b.ID)
			}
		}
		delete(r.s.st.orderItems, id)
		orders = append(orders, it.OrderID)
	}
	return orders, nil
}

func (r *orderRepo) DeleteIfEmpty(_ context.Context, id int64) (bool, error) {
	if _, ok := r.s.st.orders[id]; !ok {
		return false, nil
	}
	for _, it := range r.s.st.orderItems {
		if it.OrderID == id {
			return false, nil
		}
	}
	delete(r.s.st.orders, id)
	return true, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Batches
// ──────────────────────────────────────────────────────────────────────────────

type batchRepo struct{ s *Store }

func checkBatch(b *entity.Batch) error {
	if b.StockLeft.IsNegative() || b.StockLeft.GreaterThan(b.Received) {
		return fmt.Errorf("batches_stock_left_check: lote %d stock_left=%s received=%s",
			b.ID, b.StockLeft, b.Received)
	}
	return nil
}

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	if err := checkBatch(b); err != nil {
		return err
	}
	if _, ok := r.s.st.orderItems[b.OrderItemID]; !ok {
		return domain.Conflictf("línea de orden %d inexistente", b.OrderItemID)
	}
	b.ID = r.s.st.next("batches")
	r.s.st.batches[b.ID] = *b
	return nil
}

func (r *batchRepo) GetForUpdate(_ context.Context, id int64) (*entity.Batch, error) {
	b, ok := r.s.st.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) filter(keep func(entity.Batch) bool) []*entity.Batch {
	out := []*entity.Batch{}
	for _, id := range sortedKeys(r.s.st.batches) {
		b := r.s.st.batches[id]
		if keep(b) {
			out = append(out, &b)
		}
	}
	ledger.SortFIFO(out)
	return out
}

func (r *batchRepo) ListAvailableForUpdate(_ context.Context, productID int64) ([]*entity.Batch, error) {
	return r.filter(func(b entity.Batch) bool { return b.ProductID == productID && b.HasStock() }), nil
}

func (r *batchRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.Batch, error) {
	return r.filter(func(b entity.Batch) bool { return b.ProductID == productID }), nil
}

func (r *batchRepo) ListByOrder(_ context.Context, orderID int64) ([]*entity.Batch, error) {
	return r.filter(func(b entity.Batch) bool { return b.OrderID == orderID }), nil
}

func (r *batchRepo) ListByOrderForUpdate(ctx context.Context, orderID int64) ([]*entity.Batch, error) {
	return r.ListByOrder(ctx, orderID)
}

func (r *batchRepo) UpdateStockLeft(_ context.Context, b *entity.Batch) error {
	cur, ok := r.s.st.batches[b.ID]
	if !ok {
		return domain.NotFoundf("lote %d", b.ID)
	}
	cur.StockLeft = b.StockLeft
	cur.LastModifiedAt = b.LastModifiedAt
	cur.LastModifiedBy = b.LastModifiedBy
	if err := checkBatch(&cur); err != nil {
		return err
	}
	r.s.st.batches[b.ID] = cur
	return nil
}

func (r *batchRepo) OrderHasSales(_ context.Context, orderID int64) (bool, error) {
	for _, it := range r.s.st.saleItems {
		if b, ok := r.s.st.batches[it.BatchID]; ok && b.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *batchRepo) DeleteByProduct(_ context.Context, productID int64) error {
	for id, b := range r.s.st.batches {
		if b.ProductID != productID {
			continue
		}
		for _, it := range r.s.st.saleItems {
			if it.BatchID == id {
				return domain.Conflictf("lote %d referenciado por ventas", id)
			}
		}
	}
	for id, b := range r.s.st.batches {
		if b.ProductID == productID {
			delete(r.s.st.batches, id)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Sales
// ──────────────────────────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(_ context.Context, sl *entity.Sale) error {
	sl.ID = r.s.st.next("sales")
	cp := *sl
	cp.Items = nil
	r.s.st.sales[sl.ID] = cp
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	sl, ok := r.s.st.sales[id]
	if !ok {
		return nil, nil
	}
	return &sl, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Update(_ context.Context, sl *entity.Sale) error {
	if _, ok := r.s.st.sales[sl.ID]; !ok {
		return domain.NotFoundf("venta %d", sl.ID)
	}
	cp := *sl
	cp.Items = nil
	r.s.st.sales[sl.ID] = cp
	return nil
}

func (r *saleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.st.sales[id]; !ok {
		return domain.NotFoundf("venta %d", id)
	}
	for iid, it := range r.s.st.saleItems {
		if it.SaleID == id {
			delete(r.s.st.saleItems, iid)
		}
	}
	delete(r.s.st.sales, id)
	return nil
}

func (r *saleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	if _, ok := r.s.st.sales[it.SaleID]; !ok {
		return domain.Conflictf("venta %d inexistente", it.SaleID)
	}
	if _, ok := r.s.st.batches[it.BatchID]; !ok {
		return domain.Conflictf("lote %d inexistente", it.BatchID)
	}
	it.ID = r.s.st.next("sale_items")
	r.s.st.saleItems[it.ID] = *it
	return nil
}

func (r *saleRepo) GetItem(_ context.Context, id int64) (*entity.SaleItem, error) {
	it, ok := r.s.st.saleItems[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *saleRepo) ListItems(_ context.Context, saleID int64) ([]*entity.SaleItem, error) {
	out := []*entity.SaleItem{}
	for _, id := range sortedKeys(r.s.st.saleItems) {
		it := r.s.st.saleItems[id]
		if it.SaleID == saleID {
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *saleRepo) DeleteItem(_ context.Context, id int64) error {
	if _, ok := r.s.st.saleItems[id]; !ok {
		return domain.NotFoundf("sale item %d", id)
	}
	delete(r.s.st.saleItems, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Activity logs
// ──────────────────────────────────────────────────────────────────────────────

type activityLogRepo struct{ s *Store }

func (r *activityLogRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	if r.s.logErr != nil {
		return r.s.logErr
	}
	l.ID = r.s.st.next("activity_logs")
	r.s.st.logs = append(r.s.st.logs, *l)
	return nil
}

// List más recientes primero.
func (r *activityLogRepo) List(_ context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	out := make([]*entity.ActivityLog, 0, len(r.s.st.logs))
	for i := len(r.s.st.logs) - 1; i >= 0; i-- {
		l := r.s.st.logs[i]
		out = append(out, &l)
	}
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.s.st.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	u.ID = r.s.st.next("users")
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// List más recientes primero; a igual created_at, el id mayor primero.
func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.s.st.users))
	for _, id := range sortedKeys(r.s.st.users) {
		u := r.s.st.users[id]
		out = append(out, &u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	cur, ok := r.s.st.users[u.ID]
	if !ok {
		return domain.NotFoundf("usuario %d", u.ID)
	}
	cur.Role = u.Role
	cur.Active = u.Active
	cur.PasswordHash = u.PasswordHash
	cur.LastModifiedAt = u.LastModifiedAt
	cur.LastModifiedBy = u.LastModifiedBy
	r.s.st.users[u.ID] = cur
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.st.users[id]; !ok {
		return domain.NotFoundf("usuario %d", id)
	}
	delete(r.s.st.users, id)
	return nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.s.st.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}
