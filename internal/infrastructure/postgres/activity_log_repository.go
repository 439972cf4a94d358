package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo bitácora de auditoría sobre PostgreSQL.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador de la bitácora. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta la entrada dentro de un savepoint: si falla, la transacción
// externa sigue utilizable y el llamador decide si abortar.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	b, ok := r.q.(beginner)
	if !ok {
		return r.insert(ctx, r.q, l)
	}
	sp, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint activity log: %w", err)
	}
	if err := r.insert(ctx, sp, l); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepo) insert(ctx context.Context, q Querier, l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (operation_id, kind, description, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := q.QueryRow(ctx, query, l.OperationID, string(l.Kind), l.Description, l.Actor, l.Timestamp).Scan(&l.ID)
	if err != nil {
		return wrapWrite("insert activity log", err)
	}
	return nil
}

// List más recientes primero.
func (r *ActivityLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, operation_id::text, kind, description, actor, occurred_at
		FROM activity_logs ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	out := []*entity.ActivityLog{}
	for rows.Next() {
		var l entity.ActivityLog
		var kind string
		if err := rows.Scan(&l.ID, &l.OperationID, &kind, &l.Description, &l.Actor, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		l.Kind = entity.ActivityKind(kind)
		out = append(out, &l)
	}
	return out, rows.Err()
}
