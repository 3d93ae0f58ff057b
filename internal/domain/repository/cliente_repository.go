package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// ClienteRepository define el puerto de persistencia para clientes.
// Los métodos de búsqueda retornan (nil, nil) cuando no hay coincidencia.
type ClienteRepository interface {
	Create(cliente *entity.Cliente) error
	// GetByRUT busca por RUT en forma canónica (coincidencia exacta).
	GetByRUT(rut string) (*entity.Cliente, error)
	List(limit, offset int) ([]*entity.Cliente, error)
	Update(cliente *entity.Cliente) error
}
