// Package rut valida, formatea y limpia el RUT chileno (módulo 11).
// Es la llave natural de los clientes en todo el sistema, por lo que las tres
// operaciones son independientes entre sí: Format nunca valida y Clean nunca
// reformatea.
package rut

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate verifica que el RUT tenga un dígito verificador correcto según el
// algoritmo módulo 11. Acepta "12.345.678-5", "12345678-5" o "123456785".
func Validate(rut string) bool {
	norm := normalize(rut)
	if len(norm) < 2 {
		return false
	}
	body := norm[:len(norm)-1]
	dv := norm[len(norm)-1]
	expected, err := computeDV(body)
	if err != nil {
		return false
	}
	return dv == expected
}

// ComputeDV calcula el dígito verificador para el cuerpo del RUT (solo dígitos,
// con o sin puntos). Retorna '0'..'9' o 'K'.
func ComputeDV(body string) (byte, error) {
	return computeDV(normalize(body))
}

// Format reinserta los puntos de miles cada 3 dígitos desde la derecha y el
// guión antes del dígito verificador: Format("123456785") == "12.345.678-5".
// No valida: un RUT con dígito verificador incorrecto se formatea igual.
func Format(rut string) string {
	norm := normalize(rut)
	if len(norm) < 2 {
		return rut
	}
	body := norm[:len(norm)-1]
	dv := norm[len(norm)-1]

	var b strings.Builder
	for i, c := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte('-')
	b.WriteByte(dv)
	return b.String()
}

// Clean elimina solo los puntos de miles y los espacios, preservando el guión
// previo al dígito verificador: Clean("12.345.678-5") == "12345678-5".
// Es la forma canónica para transporte y persistencia.
func Clean(rut string) string {
	var b strings.Builder
	for _, r := range rut {
		if r == '.' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalize quita puntos, guiones y espacios, y pasa a mayúscula el dígito
// verificador ('k' -> 'K').
func normalize(rut string) string {
	var b strings.Builder
	for _, r := range rut {
		switch {
		case r == '.' || r == '-' || unicode.IsSpace(r):
			continue
		case r == 'k':
			b.WriteByte('K')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// computeDV aplica la suma ponderada módulo 11 sobre el cuerpo ya normalizado.
// Los multiplicadores van de 2 a 7 partiendo del dígito menos significativo y
// se reinician en 2 después del 7.
func computeDV(body string) (byte, error) {
	if body == "" {
		return 0, fmt.Errorf("rut: cuerpo vacío")
	}
	sum := 0
	mult := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("rut: el cuerpo debe ser numérico, se encontró %q", c)
		}
		sum += int(c-'0') * mult
		mult++
		if mult > 7 {
			mult = 2
		}
	}
	expected := 11 - sum%11
	switch expected {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + expected), nil
	}
}
