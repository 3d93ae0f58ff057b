package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain"
)

// respondError mapea los errores sentinela del dominio a códigos HTTP. Los
// handlers delegan aquí el tramo común y solo tratan aparte los errores con
// mensaje específico del recurso.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrComentarioRequerido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "COMENTARIO_REQUERIDO", Message: "la transición exige un comentario"})
	case errors.Is(err, domain.ErrMotivoRequerido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MOTIVO_REQUERIDO", Message: "el rechazo exige un motivo"})
	case errors.Is(err, domain.ErrSesionExpirada):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión expirada"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acción no permitida para sus roles"})
	case errors.Is(err, domain.ErrClienteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "CLIENTE_NOT_FOUND", Message: "cliente no encontrado"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrEstadoTerminal):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ESTADO_TERMINAL", Message: "la cotización está en un estado terminal"})
	case errors.Is(err, domain.ErrTransicionInvalida):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TRANSICION_INVALIDA", Message: "la transición no está disponible para el estado actual"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "operación en conflicto con otra en curso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
