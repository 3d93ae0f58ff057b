package asistente

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

// Paso del asistente de creación. El flujo es lineal con una rama en el paso 2
// (contrato nuevo o existente); retroceder siempre está permitido y no borra
// lo ya ingresado.
type Paso int

const (
	PasoTipoOperacion Paso = iota + 1
	PasoDatosContrato
	PasoVentana
	PasoItems
	PasoResumen
)

// TipoOperacion rama elegida en el paso 1.
type TipoOperacion string

const (
	ContratoNuevo     TipoOperacion = "CONTRATO_NUEVO"
	ContratoExistente TipoOperacion = "CONTRATO_EXISTENTE"
)

// NotaPorDefecto frase con que se inicializa la nota de la cotización en el
// paso 3 (editable).
const NotaPorDefecto = "Cotización generada mediante el asistente de creación."

// ItemBorrador es una línea en construcción. Puede estar estructuralmente
// incompleta mientras se edita (servicio aún no elegido, etc.); el paso 4 no
// permite avanzar hasta que todas las líneas estén completas.
type ItemBorrador struct {
	ServicioID     string
	ProveedorID    string // opcional, depende del servicio elegido
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	MonedaID       string
	Periodicidad   string
	FacturarDesde  time.Time
	FacturarHasta  time.Time
	Atributos      map[string]any
	Nota           string
}

// Completa indica si la línea satisface la puerta del paso 4: servicio,
// moneda y periodicidad elegidos, cantidad > 0 y precio unitario > 0.
func (i ItemBorrador) Completa() bool {
	return i.ServicioID != "" &&
		i.Cantidad.GreaterThan(decimal.Zero) &&
		i.PrecioUnitario.GreaterThan(decimal.Zero) &&
		i.MonedaID != "" &&
		i.Periodicidad != ""
}

// DatosContratoNuevo datos acumulados por la rama de contrato nuevo.
// ClienteRUT solo se completa cuando el cliente fue resuelto por búsqueda
// exacta de RUT.
type DatosContratoNuevo struct {
	ClienteRUT    string
	ClienteNombre string
	TipoCodigo    string
	Codigo        string
	FechaInicio   time.Time
	FechaFin      time.Time
}

// Borrador es el estado transitorio del asistente: existe solo en memoria,
// se muta paso a paso y se descarta al confirmar o reiniciar. Nunca se envía
// parcialmente.
type Borrador struct {
	Paso Paso
	Tipo TipoOperacion

	// Rama contrato nuevo.
	Nuevo DatosContratoNuevo

	// Rama contrato existente.
	ContratoID string

	// Fechas del contrato elegido o ingresado, usadas como valor por defecto
	// de la ventana de vigencia del paso 3.
	ContratoDesde time.Time
	ContratoHasta time.Time

	VigenciaDesde time.Time
	VigenciaHasta time.Time
	Nota          string

	Items []ItemBorrador

	confirmando bool
}

// PasoValido evalúa la puerta de validación del paso indicado. Avanzar más
// allá de un paso es imposible mientras su puerta sea falsa, y posible en el
// instante en que pasa a verdadera.
func (b *Borrador) PasoValido(p Paso) bool {
	switch p {
	case PasoTipoOperacion:
		return b.Tipo == ContratoNuevo || b.Tipo == ContratoExistente
	case PasoDatosContrato:
		if b.Tipo == ContratoExistente {
			return b.ContratoID != ""
		}
		n := b.Nuevo
		return n.ClienteRUT != "" &&
			entity.TipoCodigoValido(n.TipoCodigo) &&
			strings.TrimSpace(n.Codigo) != "" &&
			!n.FechaInicio.IsZero() &&
			!n.FechaFin.IsZero()
	case PasoVentana:
		return !b.VigenciaDesde.IsZero() && !b.VigenciaHasta.IsZero()
	case PasoItems:
		if len(b.Items) == 0 {
			return false
		}
		for _, item := range b.Items {
			if !item.Completa() {
				return false
			}
		}
		return true
	case PasoResumen:
		return true
	}
	return false
}
