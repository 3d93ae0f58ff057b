package dto

// ServicioResponse servicio del catálogo.
type ServicioResponse struct {
	ID        string `json:"id"`
	FamiliaID string `json:"familia_id"`
	Nombre    string `json:"nombre"`
	Activo    bool   `json:"activo"`
}

// ProveedorResponse proveedor habilitado para un servicio.
type ProveedorResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	RUT    string `json:"rut"`
}

// MonedaResponse moneda de cotización.
type MonedaResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Simbolo   string `json:"simbolo"`
	Decimales int    `json:"decimales"`
}
