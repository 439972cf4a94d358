package usecase

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// UserUseCase consulta y administración de usuarios. Las contraseñas las maneja auth.
type UserUseCase struct {
	tx inventory.TxRunner
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx inventory.TxRunner) *UserUseCase {
	return &UserUseCase{tx: tx}
}

// GetByUsername obtiene un usuario por su nombre (el actor del JWT).
func (uc *UserUseCase) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		user, err = r.Users.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("usuario %q", username)
	}
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("usuario %d", id)
	}
	return entityToUserResponse(user), nil
}

// List usuarios, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	var users []*entity.User
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		users, err = r.Users.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// Update cambia rol y/o estado. Un admin no puede quitarse el rol ni desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, id int64, stamp inventory.Stamp, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.Role != nil && !entity.ValidRole(*in.Role) {
		return nil, domain.Invalidf("rol %q no reconocido", *in.Role)
	}
	if err := stamp.Validate(); err != nil {
		return nil, err
	}
	return uc.modify(ctx, id, stamp, func(u *entity.User) error {
		self := u.Username == stamp.Actor
		if in.Role != nil {
			if self && *in.Role != u.Role {
				return domain.Conflictf("no puede cambiar su propio rol")
			}
			u.Role = *in.Role
		}
		if in.Active != nil {
			if self && !*in.Active {
				return domain.Conflictf("no puede desactivar su propia cuenta")
			}
			u.Active = *in.Active
		}
		return nil
	})
}

// Enable reactiva una cuenta.
func (uc *UserUseCase) Enable(ctx context.Context, id int64, stamp inventory.Stamp) (*dto.UserResponse, error) {
	if err := stamp.Validate(); err != nil {
		return nil, err
	}
	return uc.modify(ctx, id, stamp, func(u *entity.User) error {
		u.Active = true
		return nil
	})
}

func (uc *UserUseCase) modify(ctx context.Context, id int64, stamp inventory.Stamp, apply func(u *entity.User) error) (*dto.UserResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFoundf("usuario %d", id)
		}
		if err := apply(user); err != nil {
			return err
		}
		user.Touch(stamp.Actor, stamp.Now)
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Delete elimina un usuario; nadie puede eliminarse a sí mismo.
// La bitácora guarda el username como texto, así que sus entradas se conservan.
func (uc *UserUseCase) Delete(ctx context.Context, id int64, stamp inventory.Stamp) error {
	if err := stamp.Validate(); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r inventory.Repos) error {
		user, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFoundf("usuario %d", id)
		}
		if user.Username == stamp.Actor {
			return domain.Conflictf("no puede eliminar su propia cuenta")
		}
		return r.Users.Delete(ctx, id)
	})
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
