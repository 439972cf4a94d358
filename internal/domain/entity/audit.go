package entity

import "time"

// Audit campos de trazabilidad embebidos en cada entidad del ledger.
// Se llenan con el actor y la hora que recibe la operación, nunca con estado global.
type Audit struct {
	CreatedAt      time.Time
	CreatedBy      string
	LastModifiedAt time.Time
	LastModifiedBy string
}

// Stamp inicializa los cuatro campos al crear la entidad.
func (a *Audit) Stamp(actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.LastModifiedAt = now
	a.LastModifiedBy = actor
}

// Touch actualiza solo los campos de última modificación.
func (a *Audit) Touch(actor string, now time.Time) {
	a.LastModifiedAt = now
	a.LastModifiedBy = actor
}
