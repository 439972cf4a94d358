package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para categorías.
// GetByID devuelve (nil, nil) si la categoría no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	ListByParent(ctx context.Context, parentID int64) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// InUse indica si algún producto o subcategoría la referencia.
	InUse(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
