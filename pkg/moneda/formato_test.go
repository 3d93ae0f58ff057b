package moneda_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/contratos-api/pkg/moneda"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Convención es-CL: punto de miles, coma decimal.
func TestFormatear_PesosSinDecimales(t *testing.T) {
	assert.Equal(t, "$ 1.234.568", moneda.Formatear(d("1234567.5"), "$", 0))
	assert.Equal(t, "$ 200", moneda.Formatear(d("200"), "$", 0))
	assert.Equal(t, "$ 0", moneda.Formatear(d("0"), "$", 0))
}

func TestFormatear_UFConDosDecimales(t *testing.T) {
	assert.Equal(t, "UF 3,50", moneda.Formatear(d("3.5"), "UF", 2))
	assert.Equal(t, "UF 12.345,68", moneda.Formatear(d("12345.678"), "UF", 2))
}

// Formatear es solo presentación: el monto original no se altera.
func TestFormatear_NoMutaElMonto(t *testing.T) {
	monto := d("99.99")
	_ = moneda.Formatear(monto, "US$", 2)
	assert.True(t, monto.Equal(d("99.99")))
}
