package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// ContratoFiltros filtros de búsqueda de contratos. SoloVigentes limita a
// contratos vigentes a la fecha actual (filtro por defecto del asistente).
type ContratoFiltros struct {
	ClienteRUT    string
	NombreCliente string
	SoloVigentes  bool
	Limit         int
	Offset        int
}

// ContratoRepository define el puerto de persistencia para contratos.
type ContratoRepository interface {
	Create(contrato *entity.Contrato) error
	GetByID(id string) (*entity.Contrato, error)
	List(filtros ContratoFiltros) ([]*entity.Contrato, error)
}
