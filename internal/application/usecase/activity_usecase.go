package usecase

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ActivityUseCase consulta externa de la bitácora; el núcleo del ledger nunca la lee.
type ActivityUseCase struct {
	tx inventory.TxRunner
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(tx inventory.TxRunner) *ActivityUseCase {
	return &ActivityUseCase{tx: tx}
}

// List devuelve las entradas más recientes primero.
func (uc *ActivityUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ActivityLogResponse, error) {
	page.DefaultPage()
	var logs []*entity.ActivityLog
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		logs, err = r.Logs.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ActivityLogResponse{
			ID:          l.ID,
			OperationID: l.OperationID,
			Kind:        string(l.Kind),
			Description: l.Description,
			Actor:       l.Actor,
			Timestamp:   l.Timestamp,
		})
	}
	return out, nil
}
