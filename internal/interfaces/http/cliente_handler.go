package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/application/usecase"
)

// ClienteHandler maneja las peticiones HTTP para el recurso Cliente.
type ClienteHandler struct {
	uc *usecase.ClienteUseCase
}

// NewClienteHandler construye el handler inyectando el caso de uso.
func NewClienteHandler(uc *usecase.ClienteUseCase) *ClienteHandler {
	return &ClienteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClienteRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClienteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clientes [post]
func (h *ClienteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.RUT == "" || in.Nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rut y nombre son requeridos"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByRUT godoc
// @Summary      Buscar cliente por RUT (coincidencia exacta)
// @Tags         clientes
// @Produce      json
// @Param        rut  path  string  true  "RUT del cliente"
// @Success      200  {object}  dto.ClienteResponse
// @Failure      400  {object}  dto.ErrorResponse  "RUT malformado"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clientes/{rut} [get]
func (h *ClienteHandler) GetByRUT(c *fiber.Ctx) error {
	rut := c.Params("rut")
	if rut == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_RUT", Message: "rut es requerido"})
	}
	out, err := h.uc.GetByRUT(rut)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clientes
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ClienteListResponse
// @Router       /api/clientes [get]
func (h *ClienteHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        rut   path  string  true  "RUT del cliente"
// @Param        body  body  dto.UpdateClienteRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ClienteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clientes/{rut} [put]
func (h *ClienteHandler) Update(c *fiber.Ctx) error {
	rut := c.Params("rut")
	if rut == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_RUT", Message: "rut es requerido"})
	}
	var in dto.UpdateClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(rut, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
