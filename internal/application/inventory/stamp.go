package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Stamp actor y hora de una operación mutante. Los llena la capa exterior
// (usuario del JWT y reloj inyectado); el núcleo nunca lee estado ambiental.
type Stamp struct {
	Actor string
	Now   time.Time
}

// Validate exige actor y hora.
func (s Stamp) Validate() error {
	if strings.TrimSpace(s.Actor) == "" {
		return domain.Invalidf("actor requerido")
	}
	if s.Now.IsZero() {
		return domain.Invalidf("hora de la operación requerida")
	}
	return nil
}

// Clock fuente de la hora para construir Stamps.
type Clock func() time.Time

// SystemClock reloj del sistema en la zona horaria indicada.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// operation una ejecución concreta: el Stamp más el id que agrupa sus entradas de auditoría.
type operation struct {
	Stamp
	ID string
}

func newOperation(s Stamp) (operation, error) {
	if err := s.Validate(); err != nil {
		return operation{}, err
	}
	return operation{Stamp: s, ID: uuid.NewString()}, nil
}
