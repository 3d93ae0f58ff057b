package entity

import "time"

// Cliente identificado por su RUT (llave natural en todo el sistema, siempre
// en la forma canónica de pkg/rut.Clean: "12345678-5").
type Cliente struct {
	RUT       string
	Nombre    string
	Giro      string
	Email     string
	Telefono  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
