package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// lockProducts bloquea (SELECT FOR UPDATE) los productos en orden ascendente de id.
// Todas las operaciones que tocan varios productos pasan por aquí para no cruzar locks.
func lockProducts(ctx context.Context, repo repository.ProductRepository, ids []int64) (map[int64]*entity.Product, error) {
	sorted := uniqueSorted(ids)
	out := make(map[int64]*entity.Product, len(sorted))
	for _, id := range sorted {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFoundf("producto %d", id)
		}
		out[id] = p
	}
	return out, nil
}

// saveStock persiste InStock de los productos en orden de id.
func saveStock(ctx context.Context, repo repository.ProductRepository, products map[int64]*entity.Product, op operation) error {
	ids := make([]int64, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}
	for _, id := range uniqueSorted(ids) {
		p := products[id]
		p.Touch(op.Actor, op.Now)
		if err := repo.UpdateStock(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
