package enums

import "fmt"

// Role is the name of an authorization group a user belongs to.
type Role string

const (
	RoleDirectorCuentas Role = "Director de cuentas"
	RoleEjecutivo       Role = "Ejecutivo"
	RoleVentas          Role = "Ventas"
	RoleDirectorArte    Role = "Director de arte"
	RoleDisenadorSR     Role = "Diseñador SR"
	RoleDisenadorJR     Role = "Diseñador JR"
	RoleAdministracion  Role = "Administración"
	RoleSuperUsuario    Role = "Super usuario"
)

var validRoles = []Role{
	RoleDirectorCuentas,
	RoleEjecutivo,
	RoleVentas,
	RoleDirectorArte,
	RoleDisenadorSR,
	RoleDisenadorJR,
	RoleAdministracion,
	RoleSuperUsuario,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// AllRoles returns the role catalog.
func AllRoles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}
