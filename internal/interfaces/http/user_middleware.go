package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// userChecker contrato mínimo para verificar al usuario del token.
// Lo implementa *usecase.UserUseCase.
type userChecker interface {
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el usuario ya no existe.
//   - 403 si la cuenta fue desactivada después de emitir el token.
//   - 503 si no se pudo consultar la base.
func RequireActiveUser(checker userChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := GetUsername(c)
		if username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "username no encontrado en el token",
			})
		}

		u, err := checker.GetByUsername(c.Context(), username)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && u == nil) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "el usuario del token no existe",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}
		if !u.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "la cuenta '" + username + "' está inactiva",
			})
		}

		return c.Next()
	}
}
