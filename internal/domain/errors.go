package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrClienteNotFound     = errors.New("cliente no encontrado para el RUT indicado")
	ErrEstadoTerminal      = errors.New("la cotización está en un estado terminal y no admite cambios")
	ErrTransicionInvalida  = errors.New("transición no disponible para el estado actual")
	ErrComentarioRequerido = errors.New("la transición requiere un comentario")
	ErrMotivoRequerido     = errors.New("la transición requiere un motivo de rechazo")
	ErrSesionExpirada      = errors.New("sesión expirada")
)
