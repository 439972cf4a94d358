package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// minPasswordLen largo mínimo de una contraseña elegida por el usuario.
const minPasswordLen = 8

// AuthUseCase casos de uso de autenticación: registro, login y contraseñas.
type AuthUseCase struct {
	tx     inventory.TxRunner
	jwtCfg JWTConfig
	clock  inventory.Clock
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx inventory.TxRunner, jwtCfg JWTConfig, clock inventory.Clock) *AuthUseCase {
	if clock == nil {
		clock = inventory.SystemClock(nil)
	}
	return &AuthUseCase{tx: tx, jwtCfg: jwtCfg, clock: clock}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. Devuelve ErrDuplicate si el username ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 {
		return nil, domain.Invalidf("username debe tener al menos 3 caracteres")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalidf("password debe tener al menos %d caracteres", minPasswordLen)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if !entity.ValidRole(role) {
		return nil, domain.Invalidf("rol %q no reconocido", role)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	user.Stamp(username, uc.clock())

	err = uc.tx.Run(ctx, func(r inventory.Repos) error {
		existing, err := r.Users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		user, err = r.Users.GetByUsername(ctx, strings.TrimSpace(in.Username))
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, strconv.FormatInt(user.ID, 10), user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ChangePassword cambia la contraseña de username tras verificar la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, username string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < minPasswordLen {
		return domain.Invalidf("password debe tener al menos %d caracteres", minPasswordLen)
	}
	return uc.tx.Run(ctx, func(r inventory.Repos) error {
		user, err := r.Users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFoundf("usuario %q", username)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return domain.Invalidf("la contraseña actual no coincide")
		}
		hash, err := hashPassword(in.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.Touch(username, uc.clock())
		return r.Users.Update(ctx, user)
	})
}

// ResetPassword asigna una contraseña temporal aleatoria al usuario id y la devuelve una sola vez.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, id int64, actor string) (*dto.ResetPasswordResponse, error) {
	temp := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := hashPassword(temp)
	if err != nil {
		return nil, err
	}
	var user *entity.User
	err = uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFoundf("usuario %d", id)
		}
		user.PasswordHash = hash
		user.Touch(actor, uc.clock())
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResetPasswordResponse{Username: user.Username, TemporaryPassword: temp}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
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
