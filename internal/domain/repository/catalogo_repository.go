package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// ServicioRepository catálogo de servicios/familias y proveedores por servicio.
type ServicioRepository interface {
	List() ([]*entity.Servicio, error)
	GetByID(id string) (*entity.Servicio, error)
	// ProveedoresPorServicio retorna los proveedores habilitados para el
	// servicio. La lista depende del servicio elegido: el asistente la
	// recarga cada vez que cambia la selección.
	ProveedoresPorServicio(servicioID string) ([]*entity.Proveedor, error)
}

// MonedaRepository catálogo de monedas de cotización.
type MonedaRepository interface {
	List() ([]*entity.Moneda, error)
	GetByID(id string) (*entity.Moneda, error)
}
