package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeleccionarTipoRequest rama del paso 1.
type SeleccionarTipoRequest struct {
	Tipo string `json:"tipo" validate:"required,oneof=CONTRATO_NUEVO CONTRATO_EXISTENTE"`
}

// ResolverClienteRequest búsqueda exacta de cliente por RUT.
type ResolverClienteRequest struct {
	RUT string `json:"rut" validate:"required"`
}

// ContratoNuevoRequest datos del contrato a crear (rama contrato nuevo).
type ContratoNuevoRequest struct {
	TipoCodigo  string    `json:"tipo_codigo" validate:"required,oneof=SAP OC LICITACION"`
	Codigo      string    `json:"codigo" validate:"required"`
	FechaInicio time.Time `json:"fecha_inicio" validate:"required"`
	FechaFin    time.Time `json:"fecha_fin" validate:"required"`
}

// SeleccionarContratoRequest contrato elegido (rama contrato existente).
type SeleccionarContratoRequest struct {
	ContratoID string `json:"contrato_id" validate:"required"`
}

// VentanaRequest ventana de vigencia y nota del paso 3.
type VentanaRequest struct {
	VigenciaDesde time.Time `json:"vigencia_desde" validate:"required"`
	VigenciaHasta time.Time `json:"vigencia_hasta" validate:"required"`
	Nota          string    `json:"nota"`
}

// ItemBorradorRequest línea del paso 4. Puede venir incompleta mientras se
// edita; la puerta de avance exige todas completas.
type ItemBorradorRequest struct {
	ServicioID     string          `json:"servicio_id"`
	ProveedorID    string          `json:"proveedor_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	MonedaID       string          `json:"moneda_id"`
	Periodicidad   string          `json:"periodicidad"`
	FacturarDesde  time.Time       `json:"facturar_desde"`
	FacturarHasta  time.Time       `json:"facturar_hasta"`
	Atributos      map[string]any  `json:"atributos"`
	Nota           string          `json:"nota"`
}

// BorradorResponse estado actual del borrador del asistente.
type BorradorResponse struct {
	Paso          int                   `json:"paso"`
	Tipo          string                `json:"tipo,omitempty"`
	ClienteRUT    string                `json:"cliente_rut,omitempty"`
	ClienteNombre string                `json:"cliente_nombre,omitempty"`
	ContratoID    string                `json:"contrato_id,omitempty"`
	VigenciaDesde time.Time             `json:"vigencia_desde,omitempty"`
	VigenciaHasta time.Time             `json:"vigencia_hasta,omitempty"`
	Nota          string                `json:"nota,omitempty"`
	Items         []ItemBorradorRequest `json:"items"`
	PuedeAvanzar  bool                  `json:"puede_avanzar"`
}

// LineaResumenResponse línea del paso 5 con subtotal formateado.
type LineaResumenResponse struct {
	Numero       int             `json:"numero"`
	ServicioID   string          `json:"servicio_id"`
	ProveedorID  string          `json:"proveedor_id,omitempty"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	Periodicidad string          `json:"periodicidad"`
	MonedaID     string          `json:"moneda_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Formateado   string          `json:"formateado"`
}

// ResumenResponse vista del paso 5: líneas y totales agrupados por moneda.
type ResumenResponse struct {
	Tipo    string                 `json:"tipo"`
	Lineas  []LineaResumenResponse `json:"lineas"`
	Totales map[string]string      `json:"totales_por_moneda"`
}

// ConfirmarResponse resultado de una confirmación exitosa.
type ConfirmarResponse struct {
	ContratoID   string `json:"contrato_id"`
	CotizacionID string `json:"cotizacion_id"`
	Codigo       string `json:"codigo"`
	Version      int    `json:"version"`
}
