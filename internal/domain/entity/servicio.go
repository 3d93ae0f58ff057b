package entity

import "time"

// Servicio ofrecido por la empresa, agrupado en una familia.
type Servicio struct {
	ID        string
	FamiliaID string
	Nombre    string
	Activo    bool
	CreatedAt time.Time
}

// Proveedor que puede respaldar un servicio. La lista de proveedores se
// consulta por servicio.
type Proveedor struct {
	ID        string
	Nombre    string
	RUT       string
	CreatedAt time.Time
}

// Moneda de cotización (catálogo: CLP, UF, USD, ...). Decimales indica la
// cantidad de decimales con que se expresa el precio unitario.
type Moneda struct {
	ID        string
	Nombre    string
	Simbolo   string
	Decimales int
}
