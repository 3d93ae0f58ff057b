package entity

import "time"

// Estados del ciclo de vida de una cotización.
// REEMPLAZADA, ANULADA, CANCELADA y DE_BAJA son terminales: una cotización en
// uno de esos estados no ofrece ninguna transición.
const (
	EstadoBorrador    = "BORRADOR"
	EstadoEnRevision  = "EN_REVISION"
	EstadoAprobada    = "APROBADA"
	EstadoVigente     = "VIGENTE"
	EstadoReemplazada = "REEMPLAZADA"
	EstadoAnulada     = "ANULADA"
	EstadoCancelada   = "CANCELADA"
	EstadoDeBaja      = "DE_BAJA"
)

// EsEstadoTerminal indica si el estado no admite más transiciones.
func EsEstadoTerminal(estado string) bool {
	switch estado {
	case EstadoReemplazada, EstadoAnulada, EstadoCancelada, EstadoDeBaja:
		return true
	}
	return false
}

// Cotizacion representa una versión de cotización de un contrato.
// El código (COT-YYYY-NNNNNNNN) es estable a través de las versiones del mismo
// linaje; lo asigna la capa de persistencia, nunca los casos de uso. Para un
// código dado existe exactamente una versión vigente (las anteriores quedan
// REEMPLAZADA) y todas las versiones se conservan.
type Cotizacion struct {
	ID            string
	ContratoID    string
	Codigo        string
	Version       int
	Estado        string
	VigenciaDesde time.Time
	VigenciaHasta time.Time
	Nota          string
	CreadaPor     string
	CreatedAt     time.Time
}

// Transicion describe un cambio de estado legalmente ofrecible según el
// catálogo de transiciones. El ID lo asigna el catálogo, no se reconstruye.
type Transicion struct {
	ID                    int
	EstadoDestino         string
	RequiereComentario    bool
	RequiereMotivoRechazo bool
}

// CambioEstado registra la auditoría de una transición aplicada. EstadoOrigen
// es el estado que el actor leyó antes de decidir: la persistencia lo usa como
// precondición para que dos actores concurrentes no pisen la misma transición.
type CambioEstado struct {
	ID            string
	CotizacionID  string
	TransicionID  int
	EstadoOrigen  string
	EstadoDestino string
	Comentario    string
	MotivoRechazo string
	UsuarioID     string
	CreatedAt     time.Time
}
