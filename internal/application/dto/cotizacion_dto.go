package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCotizacionRequest entrada para crear una cotización (versión 1,
// BORRADOR). El código lo asigna el sistema.
type CreateCotizacionRequest struct {
	ContratoID    string    `json:"contrato_id" validate:"required"`
	VigenciaDesde time.Time `json:"vigencia_desde" validate:"required"`
	VigenciaHasta time.Time `json:"vigencia_hasta" validate:"required"`
	Nota          string    `json:"nota"`
}

// CotizacionResponse salida de una cotización.
type CotizacionResponse struct {
	ID            string    `json:"id"`
	ContratoID    string    `json:"contrato_id"`
	Codigo        string    `json:"codigo"`
	Version       int       `json:"version"`
	Estado        string    `json:"estado"`
	VigenciaDesde time.Time `json:"vigencia_desde"`
	VigenciaHasta time.Time `json:"vigencia_hasta"`
	Nota          string    `json:"nota"`
	CreadaPor     string    `json:"creada_por"`
	CreatedAt     time.Time `json:"created_at"`
}

// ItemRequest línea de cotización en una escritura al por mayor. La lista
// completa reemplaza a la anterior, numerada 1..N en el orden recibido.
type ItemRequest struct {
	ServicioID     string          `json:"servicio_id" validate:"required"`
	ProveedorID    string          `json:"proveedor_id"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	MonedaID       string          `json:"moneda_id" validate:"required"`
	Periodicidad   string          `json:"periodicidad" validate:"required,oneof=MENSUAL TRIMESTRAL SEMESTRAL ANUAL UNICA"`
	FacturarDesde  time.Time       `json:"facturar_desde"`
	FacturarHasta  time.Time       `json:"facturar_hasta"`
	Atributos      map[string]any  `json:"atributos"`
	Nota           string          `json:"nota"`
}

// ItemResponse salida de una línea de cotización.
type ItemResponse struct {
	ID             string          `json:"id"`
	Numero         int             `json:"numero"`
	ServicioID     string          `json:"servicio_id"`
	ProveedorID    string          `json:"proveedor_id,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	MonedaID       string          `json:"moneda_id"`
	Periodicidad   string          `json:"periodicidad"`
	FacturarDesde  time.Time       `json:"facturar_desde,omitempty"`
	FacturarHasta  time.Time       `json:"facturar_hasta,omitempty"`
	Atributos      map[string]any  `json:"atributos,omitempty"`
	Nota           string          `json:"nota,omitempty"`
}

// CotizacionDetalleResponse cotización con sus ítems.
type CotizacionDetalleResponse struct {
	CotizacionResponse
	Items []ItemResponse `json:"items"`
}

// ReemplazarItemsRequest lista completa de ítems a escribir contra la versión.
type ReemplazarItemsRequest struct {
	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CrearVersionRequest entrada del protocolo de versionado: la lista completa
// de ítems para la versión nueva.
type CrearVersionRequest struct {
	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransicionResponse una transición ofrecible desde el estado actual.
type TransicionResponse struct {
	ID                    int    `json:"id"`
	EstadoDestino         string `json:"estado_destino"`
	RequiereComentario    bool   `json:"requiere_comentario"`
	RequiereMotivoRechazo bool   `json:"requiere_motivo_rechazo"`
}

// CambiarEstadoRequest aplicación de una transición elegida.
type CambiarEstadoRequest struct {
	TransicionID  int    `json:"transicion_id" validate:"required"`
	Comentario    string `json:"comentario"`
	MotivoRechazo string `json:"motivo_rechazo"`
}

// CambioEstadoResponse un registro del historial de estados.
type CambioEstadoResponse struct {
	ID            string    `json:"id"`
	TransicionID  int       `json:"transicion_id"`
	EstadoOrigen  string    `json:"estado_origen"`
	EstadoDestino string    `json:"estado_destino"`
	Comentario    string    `json:"comentario,omitempty"`
	MotivoRechazo string    `json:"motivo_rechazo,omitempty"`
	UsuarioID     string    `json:"usuario_id"`
	CreatedAt     time.Time `json:"created_at"`
}
