package entity

import "time"

// ActivityKind tipo de actividad auditada.
type ActivityKind string

// Tipos de actividad.
const (
	ActivityCreate ActivityKind = "CREATE"
	ActivityModify ActivityKind = "MODIFY"
	ActivityDelete ActivityKind = "DELETE"
)

// Valid indica si el tipo es uno de los tres reconocidos.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityCreate, ActivityModify, ActivityDelete:
		return true
	}
	return false
}

// ActivityLog registro inmutable de una mutación del ledger.
// OperationID agrupa las entradas escritas por una misma operación.
type ActivityLog struct {
	ID          int64
	OperationID string
	Kind        ActivityKind
	Description string
	Actor       string
	Timestamp   time.Time
}
