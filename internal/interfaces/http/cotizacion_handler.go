package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

// CotizacionHandler maneja las peticiones HTTP para cotizaciones: creación,
// versionado, ítems, transiciones de estado e historial.
type CotizacionHandler struct {
	motor *cotizacion.Engine
}

// NewCotizacionHandler construye el handler inyectando el motor de cotizaciones.
func NewCotizacionHandler(motor *cotizacion.Engine) *CotizacionHandler {
	return &CotizacionHandler{motor: motor}
}

// Create godoc
// @Summary      Crear cotización (versión 1, BORRADOR)
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCotizacionRequest  true  "Datos de la cotización"
// @Success      201   {object}  dto.CotizacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones [post]
func (h *CotizacionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCotizacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cot, err := h.motor.Crear(GetSesion(c), in.ContratoID, in.VigenciaDesde, in.VigenciaHasta, in.Nota)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCotizacionResponse(cot))
}

// GetByID godoc
// @Summary      Obtener cotización con sus ítems
// @Tags         cotizaciones
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.CotizacionDetalleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [get]
func (h *CotizacionHandler) GetByID(c *fiber.Ctx) error {
	cot, items, err := h.motor.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CotizacionDetalleResponse{
		CotizacionResponse: *toCotizacionResponse(cot),
		Items:              toItemResponses(items),
	}
	return c.JSON(out)
}

// ListByContrato godoc
// @Summary      Listar cotizaciones de un contrato
// @Tags         cotizaciones
// @Produce      json
// @Param        contrato_id  query  string  true  "ID del contrato"
// @Success      200  {array}  dto.CotizacionResponse
// @Router       /api/cotizaciones [get]
func (h *CotizacionHandler) ListByContrato(c *fiber.Ctx) error {
	contratoID := c.Query("contrato_id")
	if contratoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_CONTRATO", Message: "contrato_id es requerido"})
	}
	list, err := h.motor.ListByContrato(contratoID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CotizacionResponse, 0, len(list))
	for _, cot := range list {
		out = append(out, *toCotizacionResponse(cot))
	}
	return c.JSON(out)
}

// Versiones godoc
// @Summary      Historial de versiones de un código de cotización
// @Tags         cotizaciones
// @Produce      json
// @Param        codigo  path  string  true  "Código COT-YYYY-NNNNNNNN"
// @Success      200  {array}  dto.CotizacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/codigo/{codigo}/versiones [get]
func (h *CotizacionHandler) Versiones(c *fiber.Ctx) error {
	list, err := h.motor.Versiones(c.Params("codigo"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CotizacionResponse, 0, len(list))
	for _, cot := range list {
		out = append(out, *toCotizacionResponse(cot))
	}
	return c.JSON(out)
}

// NuevaVersion godoc
// @Summary      Crear una versión nueva con la lista completa de ítems
// @Description  La versión actual pasa a REEMPLAZADA y la nueva recibe los ítems numerados 1..N.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización a versionar"
// @Param        body  body  dto.CrearVersionRequest  true  "Ítems de la versión nueva"
// @Success      201   {object}  dto.CotizacionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/versiones [post]
func (h *CotizacionHandler) NuevaVersion(c *fiber.Ctx) error {
	var in dto.CrearVersionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	nueva, err := h.motor.NuevaVersion(GetSesion(c), c.Params("id"), toItemEntities(in.Items))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCotizacionResponse(nueva))
}

// ReemplazarItems godoc
// @Summary      Escribir la lista completa de ítems de la versión
// @Description  Reemplazo al por mayor: la lista anterior se descarta. Pensado para completar una versión en BORRADOR.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.ReemplazarItemsRequest  true  "Lista completa de ítems"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/items [put]
func (h *CotizacionHandler) ReemplazarItems(c *fiber.Ctx) error {
	var in dto.ReemplazarItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.motor.EnviarItems(c.Params("id"), toItemEntities(in.Items)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transiciones godoc
// @Summary      Transiciones disponibles desde el estado actual
// @Description  Filtradas por rol: aprobar, rechazar y volver a borrador solo se ofrecen a Owner y Gerencial/TeamLeader.
// @Tags         cotizaciones
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {array}  dto.TransicionResponse
// @Router       /api/cotizaciones/{id}/transiciones [get]
func (h *CotizacionHandler) Transiciones(c *fiber.Ctx) error {
	list, err := h.motor.TransicionesDisponibles(GetSesion(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransicionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TransicionResponse{
			ID:                    t.ID,
			EstadoDestino:         t.EstadoDestino,
			RequiereComentario:    t.RequiereComentario,
			RequiereMotivoRechazo: t.RequiereMotivoRechazo,
		})
	}
	return c.JSON(out)
}

// CambiarEstado godoc
// @Summary      Aplicar una transición de estado
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cotización"
// @Param        body  body  dto.CambiarEstadoRequest  true  "Transición elegida"
// @Success      200   {object}  dto.CotizacionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/transiciones [post]
func (h *CotizacionHandler) CambiarEstado(c *fiber.Ctx) error {
	var in dto.CambiarEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cot, err := h.motor.CambiarEstado(GetSesion(c), c.Params("id"), in.TransicionID, in.Comentario, in.MotivoRechazo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCotizacionResponse(cot))
}

// Historial godoc
// @Summary      Historial de cambios de estado
// @Tags         cotizaciones
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {array}  dto.CambioEstadoResponse
// @Router       /api/cotizaciones/{id}/historial [get]
func (h *CotizacionHandler) Historial(c *fiber.Ctx) error {
	list, err := h.motor.Historial(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CambioEstadoResponse, 0, len(list))
	for _, cambio := range list {
		out = append(out, dto.CambioEstadoResponse{
			ID:            cambio.ID,
			TransicionID:  cambio.TransicionID,
			EstadoOrigen:  cambio.EstadoOrigen,
			EstadoDestino: cambio.EstadoDestino,
			Comentario:    cambio.Comentario,
			MotivoRechazo: cambio.MotivoRechazo,
			UsuarioID:     cambio.UsuarioID,
			CreatedAt:     cambio.CreatedAt,
		})
	}
	return c.JSON(out)
}

func toCotizacionResponse(cot *entity.Cotizacion) *dto.CotizacionResponse {
	if cot == nil {
		return nil
	}
	return &dto.CotizacionResponse{
		ID:            cot.ID,
		ContratoID:    cot.ContratoID,
		Codigo:        cot.Codigo,
		Version:       cot.Version,
		Estado:        cot.Estado,
		VigenciaDesde: cot.VigenciaDesde,
		VigenciaHasta: cot.VigenciaHasta,
		Nota:          cot.Nota,
		CreadaPor:     cot.CreadaPor,
		CreatedAt:     cot.CreatedAt,
	}
}

func toItemResponses(items []*entity.CotizacionItem) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemResponse{
			ID:             it.ID,
			Numero:         it.Numero,
			ServicioID:     it.ServicioID,
			ProveedorID:    it.ProveedorID,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			MonedaID:       it.MonedaID,
			Periodicidad:   it.Periodicidad,
			FacturarDesde:  it.FacturarDesde,
			FacturarHasta:  it.FacturarHasta,
			Atributos:      it.Atributos,
			Nota:           it.Nota,
		})
	}
	return out
}

func toItemEntities(items []dto.ItemRequest) []*entity.CotizacionItem {
	out := make([]*entity.CotizacionItem, 0, len(items))
	for _, it := range items {
		out = append(out, &entity.CotizacionItem{
			ServicioID:     it.ServicioID,
			ProveedorID:    it.ProveedorID,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			MonedaID:       it.MonedaID,
			Periodicidad:   it.Periodicidad,
			FacturarDesde:  it.FacturarDesde,
			FacturarHasta:  it.FacturarHasta,
			Atributos:      it.Atributos,
			Nota:           it.Nota,
		})
	}
	return out
}
