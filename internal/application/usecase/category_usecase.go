package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CategoryUseCase CRUD de categorías de producto.
type CategoryUseCase struct {
	tx    inventory.TxRunner
	audit *inventory.AuditWriter
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(tx inventory.TxRunner, audit *inventory.AuditWriter) *CategoryUseCase {
	return &CategoryUseCase{tx: tx, audit: audit}
}

// checkParent valida que el padre exista y que no se forme un ciclo con id.
func checkParent(ctx context.Context, r inventory.Repos, id int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	for cur := *parentID; ; {
		if cur == id {
			return domain.Invalidf("la categoría no puede ser su propio ancestro")
		}
		parent, err := r.Categories.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.NotFoundf("categoría padre %d", cur)
		}
		if parent.ParentID == nil {
			return nil
		}
		cur = *parent.ParentID
	}
}

// Create crea una categoría; nombre repetido devuelve ErrDuplicate.
func (uc *CategoryUseCase) Create(ctx context.Context, stamp inventory.Stamp, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if err := stamp.Validate(); err != nil {
		return nil, err
	}
	category := &entity.Category{Name: name, ParentID: in.ParentID}
	category.Stamp(stamp.Actor, stamp.Now)

	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		if err := checkParent(ctx, r, 0, category.ParentID); err != nil {
			return err
		}
		if err := r.Categories.Create(ctx, category); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityCreate,
			"Category ID %d Name %s", category.ID, category.Name)
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	var category *entity.Category
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		category, err = r.Categories.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NotFoundf("categoría %d", id)
	}
	return toCategoryResponse(category), nil
}

// List lista categorías por id. Con parentID solo sus subcategorías directas.
func (uc *CategoryUseCase) List(ctx context.Context, parentID *int64, page dto.PageRequest) ([]dto.CategoryResponse, error) {
	page.DefaultPage()
	var categories []*entity.Category
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		if parentID != nil {
			categories, err = r.Categories.ListByParent(ctx, *parentID)
			return err
		}
		categories, err = r.Categories.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Update renombra la categoría y/o la mueve de padre.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, stamp inventory.Stamp, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("nombre requerido")
	}
	if err := stamp.Validate(); err != nil {
		return nil, err
	}

	var category *entity.Category
	err := uc.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		category, err = r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.NotFoundf("categoría %d", id)
		}
		if err := checkParent(ctx, r, id, in.ParentID); err != nil {
			return err
		}
		category.Name = name
		category.ParentID = in.ParentID
		category.Touch(stamp.Actor, stamp.Now)
		if err := r.Categories.Update(ctx, category); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityModify,
			"Category ID %d Name %s", category.ID, category.Name)
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete borra la categoría. ErrConflict si algún producto o subcategoría la usa.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64, stamp inventory.Stamp) error {
	if err := stamp.Validate(); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r inventory.Repos) error {
		category, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.NotFoundf("categoría %d", id)
		}
		used, err := r.Categories.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflictf("la categoría %q tiene productos o subcategorías", category.Name)
		}
		if err := r.Categories.Delete(ctx, id); err != nil {
			return err
		}
		return record(ctx, uc.audit, r, stamp, entity.ActivityDelete,
			"Category ID %d Name %s", category.ID, category.Name)
	})
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:             c.ID,
		ParentID:       c.ParentID,
		Name:           c.Name,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
		LastModifiedAt: c.LastModifiedAt,
		LastModifiedBy: c.LastModifiedBy,
	}
}
