package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia para usuarios y sus roles.
type UsuarioRepository interface {
	Create(usuario *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
	// GetRoles retorna los nombres de rol asignados al usuario (alimenta el
	// evaluador de permisos).
	GetRoles(usuarioID string) ([]string, error)
}
