package dto

import "time"

// CreateContratoRequest entrada para crear un contrato. TipoCodigo es uno de
// los tres espacios fijos (SAP, OC, LICITACION).
type CreateContratoRequest struct {
	ClienteRUT  string    `json:"cliente_rut" validate:"required"`
	TipoCodigo  string    `json:"tipo_codigo" validate:"required,oneof=SAP OC LICITACION"`
	Codigo      string    `json:"codigo" validate:"required,min=1,max=50"`
	FechaInicio time.Time `json:"fecha_inicio" validate:"required"`
	FechaFin    time.Time `json:"fecha_fin" validate:"required"`
	Nota        string    `json:"nota"`
}

// ContratoResponse salida de un contrato.
type ContratoResponse struct {
	ID          string    `json:"id"`
	ClienteRUT  string    `json:"cliente_rut"`
	TipoCodigo  string    `json:"tipo_codigo"`
	Codigo      string    `json:"codigo"`
	FechaInicio time.Time `json:"fecha_inicio"`
	FechaFin    time.Time `json:"fecha_fin"`
	Vigente     bool      `json:"vigente"`
	Nota        string    `json:"nota"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListContratosRequest filtros de búsqueda de contratos.
type ListContratosRequest struct {
	ClienteRUT    string `query:"cliente_rut"`
	NombreCliente string `query:"nombre_cliente"`
	SoloVigentes  bool   `query:"solo_vigentes"`
	PageRequest
}

// ContratoListResponse lista paginada de contratos.
type ContratoListResponse struct {
	Items []ContratoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
