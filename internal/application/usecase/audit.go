package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// record escribe una entrada de bitácora con su propio operation_id.
func record(ctx context.Context, audit *inventory.AuditWriter, r inventory.Repos, stamp inventory.Stamp,
	kind entity.ActivityKind, format string, args ...any) error {
	_, err := audit.Record(ctx, r.Logs, inventory.Entry{
		Kind:        kind,
		Description: fmt.Sprintf(format, args...),
		Stamp:       stamp,
		OperationID: uuid.NewString(),
	})
	return err
}
