package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// SupplierUseCase alta, consulta y mantenimiento de proveedores.
type SupplierUseCase struct {
	tx    inventory.TxRunner
	audit *inventory.AuditWriter
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(tx inventory.TxRunner, audit *inventory.AuditWriter) *SupplierUseCase {
	return &SupplierUseCase{tx: tx, audit: audit}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, stamp inventory.Stamp, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if err := stamp.Validate(); err != nil {
		return nil, err
	}
	supplier := &entity.Supplier{
		Name:          name,
		Contact:       in.Contact,
		Address:       in.Address,
		ContactPerson: in.ContactPerson,
	}
	supplier.Stamp(stamp.Actor, stamp.Now)

	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		if err := r.Suppliers.Create(ctx, supplier); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityCreate,
			"Supplier ID %d Name %s", supplier.ID, supplier.Name)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	var supplier *entity.Supplier
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		supplier, err = r.Suppliers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFoundf("proveedor %d", id)
	}
	return toSupplierResponse(supplier), nil
}

// List proveedores, más recientes primero.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	var suppliers []*entity.Supplier
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		suppliers, err = r.Suppliers.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Update modifica los datos de contacto del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id int64, stamp inventory.Stamp, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if err := stamp.Validate(); err != nil {
		return nil, err
	}

	var supplier *entity.Supplier
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		supplier, err = r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NotFoundf("proveedor %d", id)
		}
		if in.Name != nil {
			supplier.Name = strings.TrimSpace(*in.Name)
		}
		if in.Contact != nil {
			supplier.Contact = *in.Contact
		}
		if in.Address != nil {
			supplier.Address = *in.Address
		}
		if in.ContactPerson != nil {
			supplier.ContactPerson = *in.ContactPerson
		}
		supplier.Touch(stamp.Actor, stamp.Now)
		if err := r.Suppliers.Update(ctx, supplier); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityModify,
			"Supplier ID %d Name %s", supplier.ID, supplier.Name)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Delete borra el proveedor. ErrConflict si alguna orden lo referencia.
func (uc *SupplierUseCase) Delete(ctx context.Context, id int64, stamp inventory.Stamp) error {
	if err := stamp.Validate(); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r inventory.Repos) error {
		supplier, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NotFoundf("proveedor %d", id)
		}
		used, err := r.Suppliers.HasOrders(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflictf("el proveedor %q tiene órdenes registradas", supplier.Name)
		}
		if err := r.Suppliers.Delete(ctx, id); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityDelete,
			"Supplier ID %d Name %s", supplier.ID, supplier.Name)
	})
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:             s.ID,
		Name:           s.Name,
		Contact:        s.Contact,
		Address:        s.Address,
		ContactPerson:  s.ContactPerson,
		CreatedAt:      s.CreatedAt,
		CreatedBy:      s.CreatedBy,
		LastModifiedAt: s.LastModifiedAt,
		LastModifiedBy: s.LastModifiedBy,
	}
}
