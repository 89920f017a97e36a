package enums

import "fmt"

// StatusID identifies a work status in the fixed catalog.
type StatusID int

const (
	StatusPendiente   StatusID = 0
	StatusDiseno      StatusID = 1
	StatusCuentas     StatusID = 2
	StatusValidacion  StatusID = 3
	StatusProduccion  StatusID = 4
	StatusPorCobrar   StatusID = 5
	StatusPorFacturar StatusID = 6
	StatusTerminado   StatusID = 7
	StatusCancelado   StatusID = 8
)

var statusNames = map[StatusID]string{
	StatusPendiente:   "Pendiente",
	StatusDiseno:      "Diseño",
	StatusCuentas:     "Cuentas",
	StatusValidacion:  "Validación",
	StatusProduccion:  "Producción",
	StatusPorCobrar:   "Por cobrar",
	StatusPorFacturar: "Por facturar",
	StatusTerminado:   "Terminado",
	StatusCancelado:   "Cancelado",
}

var orderedStatuses = []StatusID{
	StatusPendiente,
	StatusDiseno,
	StatusCuentas,
	StatusValidacion,
	StatusProduccion,
	StatusPorCobrar,
	StatusPorFacturar,
	StatusTerminado,
	StatusCancelado,
}

// AllStatuses returns the full catalog in id order.
func AllStatuses() []StatusID {
	out := make([]StatusID, len(orderedStatuses))
	copy(out, orderedStatuses)
	return out
}

// String returns the display name of the status.
func (s StatusID) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StatusID(%d)", int(s))
}

// IsValid reports whether the id belongs to the catalog.
func (s StatusID) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsClosed reports whether the status ends the lifecycle of a work.
func (s StatusID) IsClosed() bool {
	return s == StatusTerminado || s == StatusCancelado
}

// ParseStatusID converts a raw integer into a StatusID.
func ParseStatusID(value int) (StatusID, error) {
	id := StatusID(value)
	if !id.IsValid() {
		return 0, fmt.Errorf("invalid status id %d", value)
	}
	return id, nil
}
