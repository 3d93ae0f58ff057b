package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que ClienteRepo implementa repository.ClienteRepository.
var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación del puerto ClienteRepository sobre PostgreSQL.
// El RUT es la llave primaria, siempre en forma canónica.
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClienteRepo) Create(cliente *entity.Cliente) error {
	query := `
		INSERT INTO clientes (rut, nombre, giro, email, telefono, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		cliente.RUT, cliente.Nombre, cliente.Giro, cliente.Email,
		cliente.Telefono, cliente.CreatedAt, cliente.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByRUT obtiene un cliente por RUT (coincidencia exacta).
func (r *ClienteRepo) GetByRUT(rut string) (*entity.Cliente, error) {
	query := `
		SELECT rut, nombre, giro, email, telefono, created_at, updated_at
		FROM clientes WHERE rut = $1`
	var c entity.Cliente
	err := r.q.QueryRow(context.Background(), query, rut).Scan(
		&c.RUT, &c.Nombre, &c.Giro, &c.Email, &c.Telefono,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return &c, nil
}

// List devuelve clientes con paginación.
func (r *ClienteRepo) List(limit, offset int) ([]*entity.Cliente, error) {
	query := `
		SELECT rut, nombre, giro, email, telefono, created_at, updated_at
		FROM clientes ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		if err := rows.Scan(&c.RUT, &c.Nombre, &c.Giro, &c.Email, &c.Telefono, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente existente.
func (r *ClienteRepo) Update(cliente *entity.Cliente) error {
	query := `
		UPDATE clientes SET nombre = $2, giro = $3, email = $4, telefono = $5, updated_at = $6
		WHERE rut = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		cliente.RUT, cliente.Nombre, cliente.Giro, cliente.Email,
		cliente.Telefono, cliente.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrClienteNotFound
	}
	return nil
}
