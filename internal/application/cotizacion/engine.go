// Package cotizacion implementa el motor de ciclo de vida de las
// cotizaciones: qué transiciones de estado se ofrecen, cómo se aplican y el
// protocolo de versionado append-only (editar nunca muta una versión, crea
// una que la reemplaza).
package cotizacion

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// IDs que el catálogo asigna a las transiciones tomadas durante la revisión.
// Son las únicas con restricción de rol adicional a la del catálogo.
const (
	TransicionAprobar        = 3
	TransicionRechazar       = 4
	TransicionVolverBorrador = 5
)

// accionPorTransicion mapea las transiciones restringidas a la acción que el
// evaluador de permisos debe autorizar. El resto de las transiciones se
// ofrece a cualquier rol que el catálogo ya permita.
var accionPorTransicion = map[int]authz.Action{
	TransicionAprobar:        authz.AccionCotizacionAprobar,
	TransicionRechazar:       authz.AccionCotizacionRechazar,
	TransicionVolverBorrador: authz.AccionCotizacionVolverBorrador,
}

// Engine orquesta transiciones de estado y versionado de cotizaciones sobre
// los puertos de persistencia y el catálogo de transiciones.
type Engine struct {
	cotRepo   repository.CotizacionRepository
	transRepo repository.TransicionRepository
	permisos  *authz.Evaluator
}

// NewEngine construye el motor.
func NewEngine(cotRepo repository.CotizacionRepository, transRepo repository.TransicionRepository, permisos *authz.Evaluator) *Engine {
	return &Engine{cotRepo: cotRepo, transRepo: transRepo, permisos: permisos}
}

// TransicionesDisponibles consulta el catálogo para el estado actual de la
// cotización y filtra por política de rol: aprobar, rechazar y volver a
// borrador solo se ofrecen a Owner y Gerencial/TeamLeader. Un estado terminal
// no ofrece ninguna transición.
func (e *Engine) TransicionesDisponibles(ses authz.Session, cotizacionID string) ([]entity.Transicion, error) {
	if ses.Expirada() {
		return nil, domain.ErrSesionExpirada
	}
	cot, err := e.cotRepo.GetByID(cotizacionID)
	if err != nil {
		return nil, err
	}
	if cot == nil {
		return nil, domain.ErrNotFound
	}
	if entity.EsEstadoTerminal(cot.Estado) {
		return []entity.Transicion{}, nil
	}
	todas, err := e.transRepo.ListByEstado(cot.Estado)
	if err != nil {
		return nil, err
	}
	disponibles := make([]entity.Transicion, 0, len(todas))
	for _, t := range todas {
		if accion, restringida := accionPorTransicion[t.ID]; restringida {
			if !e.permisos.Can(ses, accion) {
				continue
			}
		}
		disponibles = append(disponibles, t)
	}
	return disponibles, nil
}

// CambiarEstado aplica una transición elegida por el usuario. Valida
// localmente antes de tocar la persistencia: la transición debe estar en el
// conjunto disponible para la sesión, y si exige comentario o motivo de
// rechazo el campo no puede venir en blanco. Si la persistencia falla, el
// estado almacenado queda intacto y se retorna el error.
func (e *Engine) CambiarEstado(ses authz.Session, cotizacionID string, transicionID int, comentario, motivoRechazo string) (*entity.Cotizacion, error) {
	cot, err := e.cotRepo.GetByID(cotizacionID)
	if err != nil {
		return nil, err
	}
	if cot == nil {
		return nil, domain.ErrNotFound
	}
	if entity.EsEstadoTerminal(cot.Estado) {
		return nil, domain.ErrEstadoTerminal
	}

	disponibles, err := e.TransicionesDisponibles(ses, cotizacionID)
	if err != nil {
		return nil, err
	}
	var elegida *entity.Transicion
	for i := range disponibles {
		if disponibles[i].ID == transicionID {
			elegida = &disponibles[i]
			break
		}
	}
	if elegida == nil {
		return nil, domain.ErrTransicionInvalida
	}
	if elegida.RequiereComentario && strings.TrimSpace(comentario) == "" {
		return nil, domain.ErrComentarioRequerido
	}
	if elegida.RequiereMotivoRechazo && strings.TrimSpace(motivoRechazo) == "" {
		return nil, domain.ErrMotivoRequerido
	}

	cambio := &entity.CambioEstado{
		ID:            uuid.New().String(),
		CotizacionID:  cot.ID,
		TransicionID:  elegida.ID,
		EstadoOrigen:  cot.Estado,
		EstadoDestino: elegida.EstadoDestino,
		Comentario:    strings.TrimSpace(comentario),
		MotivoRechazo: strings.TrimSpace(motivoRechazo),
		UsuarioID:     ses.UserID,
		CreatedAt:     time.Now(),
	}
	if err := e.cotRepo.CambiarEstado(cambio); err != nil {
		return nil, err
	}
	cot.Estado = elegida.EstadoDestino
	return cot, nil
}
