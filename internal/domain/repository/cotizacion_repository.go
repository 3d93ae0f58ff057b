package repository

import "github.com/jhoicas/contratos-api/internal/domain/entity"

// CotizacionRepository define el puerto de persistencia para cotizaciones,
// sus ítems y su historial de estados.
//
// El código COT-YYYY-NNNNNNNN y la versión los asigna el adaptador al crear;
// los casos de uso nunca los construyen.
type CotizacionRepository interface {
	// Create persiste una cotización nueva (versión 1, estado BORRADOR) y
	// completa Codigo y Version en la entidad.
	Create(cot *entity.Cotizacion) error
	GetByID(id string) (*entity.Cotizacion, error)
	ListByContrato(contratoID string) ([]*entity.Cotizacion, error)
	// ListVersiones retorna todas las versiones de un linaje (mismo código),
	// ordenadas por versión ascendente. Todas se conservan.
	ListVersiones(codigo string) ([]*entity.Cotizacion, error)

	// CrearVersion crea una nueva versión del mismo código (version+1, estado
	// BORRADOR, sin ítems) y marca la versión anterior como REEMPLAZADA, en
	// una sola transacción. Retorna la cotización nueva.
	CrearVersion(cotizacionID string) (*entity.Cotizacion, error)

	GetItems(cotizacionID string) ([]*entity.CotizacionItem, error)
	// ReemplazarItems escribe la lista completa de ítems de la versión
	// (borrado + inserción, numerados 1..N) en una sola transacción. No hay
	// diff ni patch: la lista se reemplaza al por mayor.
	ReemplazarItems(cotizacionID string, items []*entity.CotizacionItem) error

	// CambiarEstado aplica la transición: actualiza el estado de la
	// cotización y registra el cambio con su auditoría en la misma
	// transacción. EstadoOrigen es precondición: si el estado almacenado ya
	// no es el que leyó el llamador, falla con ErrConflict sin escribir.
	CambiarEstado(cambio *entity.CambioEstado) error
	GetHistorial(cotizacionID string) ([]*entity.CambioEstado, error)
}
