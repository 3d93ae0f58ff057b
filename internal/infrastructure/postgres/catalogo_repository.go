package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que los adaptadores implementan sus puertos.
var _ repository.ServicioRepository = (*ServicioRepo)(nil)
var _ repository.MonedaRepository = (*MonedaRepo)(nil)

// ServicioRepo catálogo de servicios y proveedores por servicio sobre PostgreSQL.
type ServicioRepo struct {
	q Querier
}

// NewServicioRepository construye el adaptador del catálogo de servicios.
func NewServicioRepository(q Querier) *ServicioRepo {
	return &ServicioRepo{q: q}
}

// List retorna los servicios activos, agrupados por familia.
func (r *ServicioRepo) List() ([]*entity.Servicio, error) {
	query := `
		SELECT id, familia_id, nombre, activo, created_at
		FROM servicios WHERE activo ORDER BY familia_id, nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()

	var list []*entity.Servicio
	for rows.Next() {
		var s entity.Servicio
		if err := rows.Scan(&s.ID, &s.FamiliaID, &s.Nombre, &s.Activo, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByID obtiene un servicio por ID.
func (r *ServicioRepo) GetByID(id string) (*entity.Servicio, error) {
	query := `SELECT id, familia_id, nombre, activo, created_at FROM servicios WHERE id = $1`
	var s entity.Servicio
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.FamiliaID, &s.Nombre, &s.Activo, &s.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return &s, nil
}

// ProveedoresPorServicio retorna los proveedores habilitados para el servicio.
func (r *ServicioRepo) ProveedoresPorServicio(servicioID string) ([]*entity.Proveedor, error) {
	query := `
		SELECT p.id, p.nombre, p.rut, p.created_at
		FROM proveedores p
		JOIN servicio_proveedores sp ON sp.proveedor_id = p.id
		WHERE sp.servicio_id = $1 ORDER BY p.nombre`
	rows, err := r.q.Query(context.Background(), query, servicioID)
	if err != nil {
		return nil, fmt.Errorf("proveedores por servicio: %w", err)
	}
	defer rows.Close()

	var list []*entity.Proveedor
	for rows.Next() {
		var p entity.Proveedor
		if err := rows.Scan(&p.ID, &p.Nombre, &p.RUT, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// MonedaRepo catálogo de monedas de cotización sobre PostgreSQL.
type MonedaRepo struct {
	q Querier
}

// NewMonedaRepository construye el adaptador del catálogo de monedas.
func NewMonedaRepository(q Querier) *MonedaRepo {
	return &MonedaRepo{q: q}
}

// List retorna las monedas del catálogo.
func (r *MonedaRepo) List() ([]*entity.Moneda, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, nombre, simbolo, decimales FROM monedas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list monedas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Moneda
	for rows.Next() {
		var m entity.Moneda
		if err := rows.Scan(&m.ID, &m.Nombre, &m.Simbolo, &m.Decimales); err != nil {
			return nil, fmt.Errorf("scan moneda: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// GetByID obtiene una moneda por ID.
func (r *MonedaRepo) GetByID(id string) (*entity.Moneda, error) {
	var m entity.Moneda
	err := r.q.QueryRow(context.Background(),
		`SELECT id, nombre, simbolo, decimales FROM monedas WHERE id = $1`, id).Scan(
		&m.ID, &m.Nombre, &m.Simbolo, &m.Decimales,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get moneda: %w", err)
	}
	return &m, nil
}
