package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// OutOfStockError detalla una asignación que no pudo cubrirse.
// errors.Is(err, ErrInsufficientStock) es true para este tipo.
type OutOfStockError struct {
	ProductName string
	Requested   decimal.Decimal // cantidad que quedó sin cubrir
	Available   decimal.Decimal // stock total del producto al momento del fallo
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("Product '%s' is out of stock. Requested: %s, Available: %s",
		e.ProductName, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotFoundf envuelve ErrNotFound con el recurso concreto.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Conflictf envuelve ErrConflict con el motivo.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// Invalidf envuelve ErrInvalidInput con el campo inválido.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// AmountScale decimales que admite NUMERIC(18,4) para cantidades y precios.
const AmountScale = 4

// CheckScale rechaza valores con más de AmountScale decimales significativos;
// los ceros a la derecha ("1.50000") se aceptan.
func CheckScale(field string, d decimal.Decimal) error {
	if d.Exponent() >= -AmountScale || d.Truncate(AmountScale).Equal(d) {
		return nil
	}
	return Invalidf("%s admite como máximo %d decimales", field, AmountScale)
}
