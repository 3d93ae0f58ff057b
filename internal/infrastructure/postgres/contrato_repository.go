package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que ContratoRepo implementa repository.ContratoRepository.
var _ repository.ContratoRepository = (*ContratoRepo)(nil)

// ContratoRepo implementación del puerto ContratoRepository sobre PostgreSQL.
type ContratoRepo struct {
	q Querier
}

// NewContratoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContratoRepository(q Querier) *ContratoRepo {
	return &ContratoRepo{q: q}
}

// Create persiste un nuevo contrato. El par (tipo_codigo, codigo) es único.
func (r *ContratoRepo) Create(contrato *entity.Contrato) error {
	query := `
		INSERT INTO contratos (id, cliente_rut, tipo_codigo, codigo, fecha_inicio, fecha_fin, nota, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		contrato.ID, contrato.ClienteRUT, contrato.TipoCodigo, contrato.Codigo,
		contrato.FechaInicio, contrato.FechaFin, contrato.Nota, contrato.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contrato: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *ContratoRepo) GetByID(id string) (*entity.Contrato, error) {
	query := `
		SELECT id, cliente_rut, tipo_codigo, codigo, fecha_inicio, fecha_fin, nota, created_at
		FROM contratos WHERE id = $1`
	var c entity.Contrato
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ClienteRUT, &c.TipoCodigo, &c.Codigo,
		&c.FechaInicio, &c.FechaFin, &c.Nota, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contrato: %w", err)
	}
	return &c, nil
}

// List busca contratos por RUT exacto o nombre de cliente (parcial, sin
// distinguir mayúsculas), opcionalmente limitado a vigentes.
func (r *ContratoRepo) List(filtros repository.ContratoFiltros) ([]*entity.Contrato, error) {
	query := `
		SELECT c.id, c.cliente_rut, c.tipo_codigo, c.codigo, c.fecha_inicio, c.fecha_fin, c.nota, c.created_at
		FROM contratos c
		JOIN clientes cl ON cl.rut = c.cliente_rut
		WHERE ($1 = '' OR c.cliente_rut = $1)
		  AND ($2 = '' OR cl.nombre ILIKE '%' || $2 || '%')
		  AND (NOT $3 OR (now()::date BETWEEN c.fecha_inicio AND c.fecha_fin))
		ORDER BY c.created_at DESC
		LIMIT $4 OFFSET $5`
	limit := filtros.Limit
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(context.Background(), query,
		filtros.ClienteRUT, filtros.NombreCliente, filtros.SoloVigentes, limit, filtros.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list contratos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Contrato
	for rows.Next() {
		var c entity.Contrato
		if err := rows.Scan(&c.ID, &c.ClienteRUT, &c.TipoCodigo, &c.Codigo, &c.FechaInicio, &c.FechaFin, &c.Nota, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contrato: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
