package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// Asegura que TransicionRepo implementa repository.TransicionRepository.
var _ repository.TransicionRepository = (*TransicionRepo)(nil)

// TransicionRepo catálogo de transiciones sobre PostgreSQL. La tabla es la
// autoridad sobre qué cambios de estado son legales; la aplicación solo la
// consulta y filtra por rol.
type TransicionRepo struct {
	q Querier
}

// NewTransicionRepository construye el adaptador del catálogo de transiciones.
func NewTransicionRepository(q Querier) *TransicionRepo {
	return &TransicionRepo{q: q}
}

// ListByEstado retorna las transiciones ofrecibles desde el estado, por ID
// ascendente. Para estados terminales el conjunto es vacío.
func (r *TransicionRepo) ListByEstado(estado string) ([]entity.Transicion, error) {
	query := `
		SELECT id, estado_destino, requiere_comentario, requiere_motivo_rechazo
		FROM transiciones WHERE estado_origen = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, estado)
	if err != nil {
		return nil, fmt.Errorf("list transiciones: %w", err)
	}
	defer rows.Close()

	var list []entity.Transicion
	for rows.Next() {
		var t entity.Transicion
		if err := rows.Scan(&t.ID, &t.EstadoDestino, &t.RequiereComentario, &t.RequiereMotivoRechazo); err != nil {
			return nil, fmt.Errorf("scan transicion: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
