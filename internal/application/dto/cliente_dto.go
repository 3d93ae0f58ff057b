package dto

import "time"

// CreateClienteRequest entrada para crear un cliente. El RUT se valida con su
// dígito verificador y se almacena en forma canónica.
type CreateClienteRequest struct {
	RUT      string `json:"rut" validate:"required"`
	Nombre   string `json:"nombre" validate:"required,min=1,max=200"`
	Giro     string `json:"giro"`
	Email    string `json:"email" validate:"omitempty,email"`
	Telefono string `json:"telefono"`
}

// UpdateClienteRequest entrada para actualizar un cliente (campos opcionales;
// el RUT es la llave y no se cambia).
type UpdateClienteRequest struct {
	Nombre   *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Giro     *string `json:"giro"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

// ClienteResponse salida de un cliente. RUTFormateado incluye puntos de miles
// para presentación.
type ClienteResponse struct {
	RUT           string    `json:"rut"`
	RUTFormateado string    `json:"rut_formateado"`
	Nombre        string    `json:"nombre"`
	Giro          string    `json:"giro"`
	Email         string    `json:"email"`
	Telefono      string    `json:"telefono"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ClienteListResponse lista paginada de clientes.
type ClienteListResponse struct {
	Items []ClienteResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
