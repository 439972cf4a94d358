package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ActivityLogRepository puerto de la bitácora de auditoría (solo inserción).
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	// List para la capa de consulta externa; el ledger nunca lee su propia bitácora.
	List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}
