// Package moneda formatea montos para presentación con la convención es-CL
// (punto de miles, coma decimal). Solo presentación: nunca convierte entre
// monedas ni altera el valor almacenado.
package moneda

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-CL"))

// Formatear devuelve el monto con separadores es-CL y el símbolo de la moneda:
// Formatear(d(1234567.5), "$", 0) == "$ 1.234.568".
func Formatear(monto decimal.Decimal, simbolo string, decimales int) string {
	f, _ := monto.Float64()
	return printer.Sprintf("%s %v", simbolo,
		number.Decimal(f, number.Scale(decimales)))
}
