package asistente

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/pkg/moneda"
)

// LineaResumen es una línea del paso 5 con su subtotal formateado en la
// convención es-CL. Los subtotales se agrupan por moneda: no hay conversión
// entre monedas.
type LineaResumen struct {
	Numero       int
	ServicioID   string
	ProveedorID  string
	Cantidad     decimal.Decimal
	Periodicidad string
	MonedaID     string
	Subtotal     decimal.Decimal
	Formateado   string
}

// Resumen vista de solo lectura del paso 5: las líneas del borrador con sus
// subtotales y el total por moneda, ya formateados para presentación.
type Resumen struct {
	Tipo          TipoOperacion
	Lineas        []LineaResumen
	TotalesPorMon map[string]string
}

// GenerarResumen arma la vista del paso 5 del borrador en curso. El resumen
// no muta el borrador: confirmar sigue siendo un paso aparte.
func (o *Orquestador) GenerarResumen(userID string) (*Resumen, error) {
	b, err := o.Obtener(userID)
	if err != nil {
		return nil, err
	}
	if !b.PasoValido(PasoItems) {
		return nil, domain.ErrInvalidInput
	}

	res := &Resumen{
		Tipo:          b.Tipo,
		Lineas:        make([]LineaResumen, 0, len(b.Items)),
		TotalesPorMon: map[string]string{},
	}
	totales := map[string]decimal.Decimal{}
	simbolos := map[string]string{}
	decimales := map[string]int{}

	for i, item := range b.Items {
		if _, ok := simbolos[item.MonedaID]; !ok {
			m, err := o.monedaRepo.GetByID(item.MonedaID)
			if err != nil {
				return nil, err
			}
			if m == nil {
				return nil, domain.ErrInvalidInput
			}
			simbolos[item.MonedaID] = m.Simbolo
			decimales[item.MonedaID] = m.Decimales
		}
		subtotal := item.Cantidad.Mul(item.PrecioUnitario)
		totales[item.MonedaID] = totales[item.MonedaID].Add(subtotal)
		res.Lineas = append(res.Lineas, LineaResumen{
			Numero:       i + 1,
			ServicioID:   item.ServicioID,
			ProveedorID:  item.ProveedorID,
			Cantidad:     item.Cantidad,
			Periodicidad: item.Periodicidad,
			MonedaID:     item.MonedaID,
			Subtotal:     subtotal,
			Formateado:   moneda.Formatear(subtotal, simbolos[item.MonedaID], decimales[item.MonedaID]),
		})
	}
	for id, total := range totales {
		res.TotalesPorMon[id] = moneda.Formatear(total, simbolos[id], decimales[id])
	}
	return res, nil
}
