package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// List más recientes primero (created_at desc).
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// Update persiste rol, estado, hash de password y la última modificación.
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
}
