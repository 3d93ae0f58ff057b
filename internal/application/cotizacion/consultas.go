package cotizacion

import (
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

// Get retorna una cotización con sus ítems.
func (e *Engine) Get(cotizacionID string) (*entity.Cotizacion, []*entity.CotizacionItem, error) {
	cot, err := e.cotRepo.GetByID(cotizacionID)
	if err != nil {
		return nil, nil, err
	}
	if cot == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := e.cotRepo.GetItems(cotizacionID)
	if err != nil {
		return nil, nil, err
	}
	return cot, items, nil
}

// ListByContrato lista las cotizaciones de un contrato.
func (e *Engine) ListByContrato(contratoID string) ([]*entity.Cotizacion, error) {
	return e.cotRepo.ListByContrato(contratoID)
}

// Versiones retorna el historial completo de versiones de un código de
// cotización. El detalle de una versión reemplazada sigue siendo consultable
// aunque ya no sea editable.
func (e *Engine) Versiones(codigo string) ([]*entity.Cotizacion, error) {
	versiones, err := e.cotRepo.ListVersiones(codigo)
	if err != nil {
		return nil, err
	}
	if len(versiones) == 0 {
		return nil, domain.ErrNotFound
	}
	return versiones, nil
}

// Historial retorna los cambios de estado registrados de la cotización.
func (e *Engine) Historial(cotizacionID string) ([]*entity.CambioEstado, error) {
	return e.cotRepo.GetHistorial(cotizacionID)
}
