package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/pkg/jwt"
)

// Locals keys para la identidad de la petición en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRoles     = "roles"
	LocalExpiresAt = "expires_at"
)

// AuthMiddleware valida el Bearer Token JWT y carga UserID, roles y expiración
// a c.Locals. La sesión de cada petición se reconstruye completa desde el
// token: no hay estado de sesión en el servidor.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, roles, expiresAt, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRoles, roles)
		c.Locals(LocalExpiresAt, expiresAt)
		return c.Next()
	}
}

// RequirePermiso autoriza la petición contra el evaluador de permisos: algún
// rol de la sesión debe figurar entre los autorizados para la acción.
func RequirePermiso(ev *authz.Evaluator, accion authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ses := GetSesion(c)
		if ses.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión no establecida"})
		}
		if len(ses.Roles) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "token sin roles"})
		}
		if !ev.Can(ses, accion) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acción no permitida para sus roles"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRoles devuelve los roles del contexto (después del middleware de auth).
func GetRoles(c *fiber.Ctx) []string {
	v := c.Locals(LocalRoles)
	if v == nil {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}

// GetSesion arma la sesión explícita de la petición desde los locals cargados
// por AuthMiddleware.
func GetSesion(c *fiber.Ctx) authz.Session {
	ses := authz.Session{
		UserID: GetUserID(c),
		Roles:  GetRoles(c),
	}
	if v := c.Locals(LocalExpiresAt); v != nil {
		if exp, ok := v.(time.Time); ok {
			ses.ExpiresAt = exp
		}
	}
	return ses
}
