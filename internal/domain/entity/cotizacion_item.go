package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodicidades de facturación de un ítem.
const (
	PeriodicidadMensual    = "MENSUAL"
	PeriodicidadTrimestral = "TRIMESTRAL"
	PeriodicidadSemestral  = "SEMESTRAL"
	PeriodicidadAnual      = "ANUAL"
	PeriodicidadUnica      = "UNICA"
)

// CotizacionItem es una línea de una versión de cotización. Pertenece en
// exclusiva a su versión: una nueva versión recibe su propia copia de ítems,
// numerados 1..N contiguos, y la lista de una versión ya enviada no se altera
// salvo creando otra versión.
type CotizacionItem struct {
	ID             string
	CotizacionID   string
	Numero         int
	ServicioID     string
	ProveedorID    string // opcional
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	MonedaID       string
	Periodicidad   string
	FacturarDesde  time.Time
	FacturarHasta  time.Time
	Atributos      map[string]any // bolsa de atributos sin esquema, puede anidar
	Nota           string
	CreatedAt      time.Time
}
