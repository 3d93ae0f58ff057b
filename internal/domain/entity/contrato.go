package entity

import "time"

// Tipos de código de proyecto: el código externo de un contrato proviene de
// uno de estos tres espacios de nombres fijos.
const (
	TipoCodigoSAP        = "SAP"
	TipoCodigoOC         = "OC"
	TipoCodigoLicitacion = "LICITACION"
)

// TipoCodigoValido indica si el tipo pertenece a uno de los tres espacios fijos.
func TipoCodigoValido(tipo string) bool {
	return tipo == TipoCodigoSAP || tipo == TipoCodigoOC || tipo == TipoCodigoLicitacion
}

// Contrato de servicios de un cliente. El cliente se referencia por su RUT
// (forma canónica de pkg/rut.Clean). Un contrato puede acumular muchas
// cotizaciones a lo largo de su vida.
type Contrato struct {
	ID          string
	ClienteRUT  string
	TipoCodigo  string
	Codigo      string
	FechaInicio time.Time
	FechaFin    time.Time
	Nota        string
	CreatedAt   time.Time
}

// Vigente indica si el contrato está vigente a la fecha dada.
func (c *Contrato) Vigente(en time.Time) bool {
	return !en.Before(c.FechaInicio) && !en.After(c.FechaFin)
}
