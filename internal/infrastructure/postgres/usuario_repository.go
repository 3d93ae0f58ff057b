package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que UsuarioRepo implementa repository.UsuarioRepository.
var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL.
// Los roles viven en una tabla aparte (usuario_roles): un usuario puede tener
// varios y su permiso efectivo es la unión.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios.
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

// Create persiste un usuario y sus roles asignados.
func (r *UsuarioRepo) Create(usuario *entity.Usuario) error {
	ctx := context.Background()
	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		usuario.ID, usuario.Email, usuario.PasswordHash, usuario.Nombre,
		usuario.Estado, usuario.CreatedAt, usuario.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	for _, rol := range usuario.Roles {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO usuario_roles (usuario_id, rol) VALUES ($1, $2)`,
			usuario.ID, rol,
		); err != nil {
			return fmt.Errorf("insert rol %s: %w", rol, err)
		}
	}
	return nil
}

// GetByID obtiene un usuario por ID, con sus roles.
func (r *UsuarioRepo) GetByID(id string) (*entity.Usuario, error) {
	return r.get(`WHERE id = $1`, id)
}

// FindByEmail busca un usuario por email, con sus roles.
func (r *UsuarioRepo) FindByEmail(email string) (*entity.Usuario, error) {
	return r.get(`WHERE email = $1`, email)
}

// GetRoles retorna los nombres de rol asignados al usuario.
func (r *UsuarioRepo) GetRoles(usuarioID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT rol FROM usuario_roles WHERE usuario_id = $1 ORDER BY rol`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var rol string
		if err := rows.Scan(&rol); err != nil {
			return nil, fmt.Errorf("scan rol: %w", err)
		}
		roles = append(roles, rol)
	}
	return roles, rows.Err()
}

func (r *UsuarioRepo) get(where string, arg any) (*entity.Usuario, error) {
	query := `
		SELECT id, email, password_hash, nombre, estado, created_at, updated_at
		FROM usuarios ` + where
	var u entity.Usuario
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nombre, &u.Estado,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	roles, err := r.GetRoles(u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}
