package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// Entry datos de una entrada de auditoría.
type Entry struct {
	Kind        entity.ActivityKind
	Description string
	Stamp       Stamp
	OperationID string
}

// AuditWriter escribe la bitácora dentro de la transacción de la mutación.
// strict=true: un fallo al escribir aborta la operación completa.
// strict=false: el fallo se registra en el log y la mutación continúa; el repositorio
// debe aislar el insert (savepoint) para no invalidar la transacción.
type AuditWriter struct {
	strict bool
	log    *logger.Logger
}

// NewAuditWriter construye el escritor de auditoría.
func NewAuditWriter(strict bool, log *logger.Logger) *AuditWriter {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditWriter{strict: strict, log: log}
}

// Strict indica la política activa.
func (w *AuditWriter) Strict() bool { return w.strict }

// Record inserta una entrada. En modo no estricto devuelve (nil, nil) si el insert falla.
func (w *AuditWriter) Record(ctx context.Context, repo repository.ActivityLogRepository, e Entry) (*entity.ActivityLog, error) {
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("auditoría: tipo de actividad inválido %q", e.Kind)
	}
	entry := &entity.ActivityLog{
		OperationID: e.OperationID,
		Kind:        e.Kind,
		Description: e.Description,
		Actor:       e.Stamp.Actor,
		Timestamp:   e.Stamp.Now,
	}
	if err := repo.Create(ctx, entry); err != nil {
		if w.strict {
			return nil, fmt.Errorf("auditoría: %w", err)
		}
		w.log.Error().Err(err).
			Str("operation_id", e.OperationID).
			Str("kind", string(e.Kind)).
			Str("actor", e.Stamp.Actor).
			Msg("no se pudo escribir la auditoría; la operación continúa")
		return nil, nil
	}
	return entry, nil
}

func (w *AuditWriter) record(ctx context.Context, repo repository.ActivityLogRepository, op operation, kind entity.ActivityKind, format string, args ...any) error {
	_, err := w.Record(ctx, repo, Entry{
		Kind:        kind,
		Description: fmt.Sprintf(format, args...),
		Stamp:       op.Stamp,
		OperationID: op.ID,
	})
	return err
}
