package workflow

import "github.com/balarco/balarco-backend/pkg/enums"

// Table maps a current status and a role to the statuses that role may move a
// work into. Pairs that are absent grant nothing.
type Table map[enums.StatusID]map[enums.Role][]enums.StatusID

// DefaultTable is the agency workflow. Super usuario is handled by the engine
// and never appears here. Terminado and Cancelado have no outgoing moves.
func DefaultTable() Table {
	const (
		pendiente   = enums.StatusPendiente
		diseno      = enums.StatusDiseno
		cuentas     = enums.StatusCuentas
		validacion  = enums.StatusValidacion
		produccion  = enums.StatusProduccion
		porCobrar   = enums.StatusPorCobrar
		porFacturar = enums.StatusPorFacturar
		terminado   = enums.StatusTerminado
		cancelado   = enums.StatusCancelado
	)

	return Table{
		pendiente: {
			enums.RoleDirectorCuentas: {pendiente, diseno, cancelado},
			enums.RoleEjecutivo:       {pendiente, diseno, cancelado},
			enums.RoleVentas:          {pendiente, cancelado},
			enums.RoleDirectorArte:    {pendiente, diseno},
		},
		diseno: {
			enums.RoleDirectorArte:    {diseno, cuentas},
			enums.RoleDisenadorSR:     {diseno, cuentas},
			enums.RoleDisenadorJR:     {diseno},
			enums.RoleDirectorCuentas: {diseno, cuentas, cancelado},
			enums.RoleEjecutivo:       {diseno, cancelado},
		},
		cuentas: {
			enums.RoleDirectorCuentas: {diseno, cuentas, validacion, cancelado},
			enums.RoleEjecutivo:       {diseno, cuentas, validacion, cancelado},
			enums.RoleDirectorArte:    {diseno, cuentas},
		},
		validacion: {
			enums.RoleDirectorCuentas: {diseno, validacion, produccion, cancelado},
			enums.RoleEjecutivo:       {diseno, validacion, produccion, cancelado},
		},
		produccion: {
			enums.RoleDirectorCuentas: {diseno, produccion, porCobrar, cancelado},
			enums.RoleEjecutivo:       {diseno, produccion, porCobrar},
			enums.RoleDirectorArte:    {diseno, produccion},
			enums.RoleDisenadorSR:     {diseno, produccion},
		},
		porCobrar: {
			enums.RoleAdministracion:  {porCobrar, porFacturar},
			enums.RoleDirectorCuentas: {porCobrar, porFacturar},
		},
		porFacturar: {
			enums.RoleAdministracion: {porFacturar, terminado},
		},
	}
}
