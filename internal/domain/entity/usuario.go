package entity

import "time"

// Nombres de rol tal como los usa la tabla de permisos. Son configuración,
// no datos de usuario.
const (
	RolOwner       = "Owner"
	RolGerencial   = "Gerencial/TeamLeader"
	RolComercial   = "Comercial"
	RolOperaciones = "Operaciones"
	RolConsulta    = "Consulta"
)

// Usuario de la aplicación. Un usuario tiene un conjunto de roles asignados;
// su permiso efectivo es la unión de lo que cada rol autoriza.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string
	Nombre       string
	Roles        []string
	Estado       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
