package cotizacion

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

// Crear crea una cotización nueva (versión 1, estado BORRADOR) para el
// contrato. El código COT-YYYY-NNNNNNNN lo asigna la capa de persistencia y
// vuelve completado en la entidad retornada.
func (e *Engine) Crear(ses authz.Session, contratoID string, vigenciaDesde, vigenciaHasta time.Time, nota string) (*entity.Cotizacion, error) {
	if !e.permisos.Can(ses, authz.AccionCotizacionCrear) {
		return nil, domain.ErrForbidden
	}
	if contratoID == "" || vigenciaDesde.IsZero() || vigenciaHasta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if vigenciaHasta.Before(vigenciaDesde) {
		return nil, domain.ErrInvalidInput
	}
	cot := &entity.Cotizacion{
		ID:            uuid.New().String(),
		ContratoID:    contratoID,
		Estado:        entity.EstadoBorrador,
		VigenciaDesde: vigenciaDesde,
		VigenciaHasta: vigenciaHasta,
		Nota:          nota,
		CreadaPor:     ses.UserID,
		CreatedAt:     time.Now(),
	}
	if err := e.cotRepo.Create(cot); err != nil {
		return nil, err
	}
	return cot, nil
}

// NuevaVersion ejecuta el protocolo de versionado: crea una versión nueva del
// mismo código (la anterior pasa a REEMPLAZADA) y reenvía la lista completa
// de ítems contra la versión nueva, numerada 1..N. Los ítems de la versión
// anterior no se tocan.
//
// Si el reenvío de ítems falla después de creada la versión, la versión nueva
// queda en BORRADOR sin ítems: es un estado visible y recuperable reenviando
// los ítems, no se compensa con rollback.
func (e *Engine) NuevaVersion(ses authz.Session, cotizacionID string, items []*entity.CotizacionItem) (*entity.Cotizacion, error) {
	if !e.permisos.Can(ses, authz.AccionCotizacionVersionar) {
		return nil, domain.ErrForbidden
	}
	if err := validarItems(items); err != nil {
		return nil, err
	}
	nueva, err := e.cotRepo.CrearVersion(cotizacionID)
	if err != nil {
		return nil, err
	}
	if err := e.EnviarItems(nueva.ID, items); err != nil {
		return nil, fmt.Errorf("reenviar ítems a la versión %d de %s: %w", nueva.Version, nueva.Codigo, err)
	}
	return nueva, nil
}

// EnviarItems escribe al por mayor la lista de ítems de la cotización,
// renumerada 1..N contigua. Solo una versión en BORRADOR admite la escritura:
// la lista de una versión ya enviada es historial y se altera únicamente
// creando una versión nueva que la reemplace.
func (e *Engine) EnviarItems(cotizacionID string, items []*entity.CotizacionItem) error {
	if err := validarItems(items); err != nil {
		return err
	}
	cot, err := e.cotRepo.GetByID(cotizacionID)
	if err != nil {
		return err
	}
	if cot == nil {
		return domain.ErrNotFound
	}
	if entity.EsEstadoTerminal(cot.Estado) {
		return domain.ErrEstadoTerminal
	}
	if cot.Estado != entity.EstadoBorrador {
		return domain.ErrConflict
	}
	now := time.Now()
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.CotizacionID = cotizacionID
		item.Numero = i + 1
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
	}
	return e.cotRepo.ReemplazarItems(cotizacionID, items)
}

// validarItems aplica las reglas estructurales de un ítem: servicio, moneda y
// periodicidad presentes, cantidad > 0 y precio unitario >= 0.
func validarItems(items []*entity.CotizacionItem) error {
	for _, item := range items {
		if strings.TrimSpace(item.ServicioID) == "" ||
			strings.TrimSpace(item.MonedaID) == "" ||
			strings.TrimSpace(item.Periodicidad) == "" {
			return domain.ErrInvalidInput
		}
		if !item.Cantidad.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if item.PrecioUnitario.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
