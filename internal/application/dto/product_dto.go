package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock > 0 genera una orden sintética para que el ledger refleje ese stock.
type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit"`
	WarningStockLevel decimal.Decimal `json:"warning_stock_level"`
	InitialStock      decimal.Decimal `json:"initial_stock"`
	CategoryID        *int64          `json:"category_id"`
}

// UpdateProductRequest entrada para actualizar un producto (sin InStock: solo lo mueve el ledger).
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	Unit              *string          `json:"unit"`
	WarningStockLevel *decimal.Decimal `json:"warning_stock_level"`
	CategoryID        *int64           `json:"category_id"` // 0 quita la categoría
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit"`
	InStock           decimal.Decimal `json:"in_stock"`
	WarningStockLevel decimal.Decimal `json:"warning_stock_level"`
	CategoryID        *int64          `json:"category_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by"`
	LastModifiedAt    time.Time       `json:"last_modified_at"`
	LastModifiedBy    string          `json:"last_modified_by"`
}

// StockResponse lectura del stock actual de un producto.
type StockResponse struct {
	ProductID         int64           `json:"product_id"`
	InStock           decimal.Decimal `json:"in_stock"`
	WarningStockLevel decimal.Decimal `json:"warning_stock_level"`
	IsLow             bool            `json:"is_low"`
}

// LedgerCheckResponse comparación entre el total del producto y la suma de sus lotes.
type LedgerCheckResponse struct {
	ProductID   int64           `json:"product_id"`
	InStock     decimal.Decimal `json:"in_stock"`
	BatchSum    decimal.Decimal `json:"batch_sum"`
	Consistent  bool            `json:"consistent"`
	StockValue  decimal.Decimal `json:"stock_value"`  // saldo valorizado al costo de sus lotes
	AverageCost decimal.Decimal `json:"average_cost"` // costo promedio ponderado del saldo
}

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID *int64 `json:"parent_id"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID             int64     `json:"id"`
	ParentID       *int64    `json:"parent_id,omitempty"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LastModifiedBy string    `json:"last_modified_by"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	Contact       string `json:"contact"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
}

// UpdateSupplierRequest campos editables de un proveedor; nil = sin cambio.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Contact       *string `json:"contact"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Contact        string    `json:"contact"`
	Address        string    `json:"address"`
	ContactPerson  string    `json:"contact_person"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LastModifiedBy string    `json:"last_modified_by"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReplenishmentSuggestionDTO producto bajo el nivel de alerta con la cantidad sugerida a pedir.
type ReplenishmentSuggestionDTO struct {
	ProductID          int64           `json:"product_id"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	WarningStockLevel  decimal.Decimal `json:"warning_stock_level"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`
	LastUnitCost       decimal.Decimal `json:"last_unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	UnitsSold          decimal.Decimal `json:"units_sold"`
	Priority           int             `json:"priority"`
}

// ReplenishmentListResponse lista de reposición con su total.
type ReplenishmentListResponse struct {
	Total          int                          `json:"total"`
	Replenishments []ReplenishmentSuggestionDTO `json:"replenishments"`
}
