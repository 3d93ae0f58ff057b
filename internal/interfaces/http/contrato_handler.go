package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/application/usecase"
)

// ContratoHandler maneja las peticiones HTTP para el recurso Contrato.
type ContratoHandler struct {
	uc *usecase.ContratoUseCase
}

// NewContratoHandler construye el handler inyectando el caso de uso.
func NewContratoHandler(uc *usecase.ContratoUseCase) *ContratoHandler {
	return &ContratoHandler{uc: uc}
}

// Create godoc
// @Summary      Crear contrato
// @Tags         contratos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContratoRequest  true  "Datos del contrato"
// @Success      201   {object}  dto.ContratoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contratos [post]
func (h *ContratoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContratoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener contrato por ID
// @Tags         contratos
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ContratoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contratos/{id} [get]
func (h *ContratoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar contratos por RUT o nombre de cliente
// @Tags         contratos
// @Produce      json
// @Param        cliente_rut     query  string  false  "RUT exacto del cliente"
// @Param        nombre_cliente  query  string  false  "Nombre parcial del cliente"
// @Param        solo_vigentes   query  bool    false  "Limitar a contratos vigentes"
// @Success      200  {object}  dto.ContratoListResponse
// @Router       /api/contratos [get]
func (h *ContratoHandler) List(c *fiber.Ctx) error {
	in := dto.ListContratosRequest{
		ClienteRUT:    c.Query("cliente_rut"),
		NombreCliente: c.Query("nombre_cliente"),
		SoloVigentes:  c.QueryBool("solo_vigentes", false),
	}
	in.Limit = c.QueryInt("limit", 20)
	in.Offset = c.QueryInt("offset", 0)
	out, err := h.uc.List(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
