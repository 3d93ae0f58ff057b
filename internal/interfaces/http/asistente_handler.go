package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/asistente"
	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
)

// AsistenteHandler expone el asistente de creación guiada: un borrador por
// usuario que se muta paso a paso y se confirma al final.
type AsistenteHandler struct {
	orq *asistente.Orquestador
}

// NewAsistenteHandler construye el handler del asistente.
func NewAsistenteHandler(orq *asistente.Orquestador) *AsistenteHandler {
	return &AsistenteHandler{orq: orq}
}

// Iniciar godoc
// @Summary      Iniciar un borrador del asistente (paso 1)
// @Tags         asistente
// @Produce      json
// @Success      201  {object}  dto.BorradorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/asistente [post]
func (h *AsistenteHandler) Iniciar(c *fiber.Ctx) error {
	b, err := h.orq.Iniciar(GetSesion(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBorradorResponse(b))
}

// Obtener godoc
// @Summary      Obtener el borrador en curso
// @Tags         asistente
// @Produce      json
// @Success      200  {object}  dto.BorradorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/asistente [get]
func (h *AsistenteHandler) Obtener(c *fiber.Ctx) error {
	b, err := h.orq.Obtener(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// Reiniciar godoc
// @Summary      Descartar el borrador en curso
// @Tags         asistente
// @Success      204
// @Router       /api/asistente [delete]
func (h *AsistenteHandler) Reiniciar(c *fiber.Ctx) error {
	h.orq.Reiniciar(GetUserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// SeleccionarTipo godoc
// @Summary      Elegir la rama del paso 1 (contrato nuevo o existente)
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SeleccionarTipoRequest  true  "Rama elegida"
// @Success      200   {object}  dto.BorradorResponse
// @Router       /api/asistente/tipo [put]
func (h *AsistenteHandler) SeleccionarTipo(c *fiber.Ctx) error {
	var in dto.SeleccionarTipoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.SeleccionarTipo(GetSesion(c), asistente.TipoOperacion(in.Tipo))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// ResolverCliente godoc
// @Summary      Resolver cliente por RUT exacto (rama contrato nuevo)
// @Description  Un RUT malformado retorna 400; un RUT válido sin cliente retorna 404 sin invalidar el borrador.
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolverClienteRequest  true  "RUT a resolver"
// @Success      200   {object}  dto.ClienteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/asistente/cliente [put]
func (h *AsistenteHandler) ResolverCliente(c *fiber.Ctx) error {
	var in dto.ResolverClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cliente, err := h.orq.ResolverCliente(GetUserID(c), in.RUT)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rut": cliente.RUT, "nombre": cliente.Nombre})
}

// DefinirContratoNuevo godoc
// @Summary      Registrar los datos del contrato a crear (rama contrato nuevo)
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContratoNuevoRequest  true  "Datos del contrato"
// @Success      200   {object}  dto.BorradorResponse
// @Router       /api/asistente/contrato-nuevo [put]
func (h *AsistenteHandler) DefinirContratoNuevo(c *fiber.Ctx) error {
	var in dto.ContratoNuevoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.DefinirContratoNuevo(GetUserID(c), in.TipoCodigo, in.Codigo, in.FechaInicio, in.FechaFin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// BuscarContratos godoc
// @Summary      Buscar contratos para la rama existente
// @Description  La búsqueda se limita a contratos vigentes salvo que incluir_vencidos venga en true.
// @Tags         asistente
// @Produce      json
// @Param        cliente_rut       query  string  false  "RUT exacto del cliente"
// @Param        nombre_cliente    query  string  false  "Nombre parcial del cliente"
// @Param        incluir_vencidos  query  bool    false  "Incluir contratos no vigentes"
// @Success      200  {object}  dto.ContratoListResponse
// @Router       /api/asistente/contratos [get]
func (h *AsistenteHandler) BuscarContratos(c *fiber.Ctx) error {
	filtros := repository.ContratoFiltros{
		ClienteRUT:    c.Query("cliente_rut"),
		NombreCliente: c.Query("nombre_cliente"),
		Limit:         c.QueryInt("limit", 20),
		Offset:        c.QueryInt("offset", 0),
	}
	list, err := h.orq.BuscarContratos(filtros, c.QueryBool("incluir_vencidos", false))
	if err != nil {
		return respondError(c, err)
	}
	ahora := time.Now()
	items := make([]dto.ContratoResponse, 0, len(list))
	for _, ct := range list {
		items = append(items, dto.ContratoResponse{
			ID:          ct.ID,
			ClienteRUT:  ct.ClienteRUT,
			TipoCodigo:  ct.TipoCodigo,
			Codigo:      ct.Codigo,
			FechaInicio: ct.FechaInicio,
			FechaFin:    ct.FechaFin,
			Vigente:     ct.Vigente(ahora),
			Nota:        ct.Nota,
			CreatedAt:   ct.CreatedAt,
		})
	}
	return c.JSON(dto.ContratoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filtros.Limit, Offset: filtros.Offset, Total: len(items)},
	})
}

// SeleccionarContrato godoc
// @Summary      Fijar el contrato elegido (rama contrato existente)
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SeleccionarContratoRequest  true  "Contrato elegido"
// @Success      200   {object}  dto.BorradorResponse
// @Router       /api/asistente/contrato [put]
func (h *AsistenteHandler) SeleccionarContrato(c *fiber.Ctx) error {
	var in dto.SeleccionarContratoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.SeleccionarContrato(GetUserID(c), in.ContratoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// DefinirVentana godoc
// @Summary      Registrar la ventana de vigencia y la nota (paso 3)
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VentanaRequest  true  "Ventana de vigencia"
// @Success      200   {object}  dto.BorradorResponse
// @Router       /api/asistente/ventana [put]
func (h *AsistenteHandler) DefinirVentana(c *fiber.Ctx) error {
	var in dto.VentanaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.DefinirVentana(GetUserID(c), in.VigenciaDesde, in.VigenciaHasta, in.Nota)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// AgregarItem godoc
// @Summary      Agregar una línea al borrador (paso 4)
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemBorradorRequest  true  "Línea"
// @Success      200   {object}  dto.BorradorResponse
// @Router       /api/asistente/items [post]
func (h *AsistenteHandler) AgregarItem(c *fiber.Ctx) error {
	var in dto.ItemBorradorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.AgregarItem(GetUserID(c), toItemBorrador(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// ActualizarItem godoc
// @Summary      Reemplazar una línea del borrador
// @Description  Si cambia el servicio, la selección de proveedor se descarta.
// @Tags         asistente
// @Accept       json
// @Produce      json
// @Param        indice  path  int  true  "Posición de la línea (desde 0)"
// @Param        body    body  dto.ItemBorradorRequest  true  "Línea"
// @Success      200     {object}  dto.BorradorResponse
// @Router       /api/asistente/items/{indice} [put]
func (h *AsistenteHandler) ActualizarItem(c *fiber.Ctx) error {
	indice, err := c.ParamsInt("indice")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	var in dto.ItemBorradorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.orq.ActualizarItem(GetUserID(c), indice, toItemBorrador(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// QuitarItem godoc
// @Summary      Quitar una línea del borrador
// @Tags         asistente
// @Produce      json
// @Param        indice  path  int  true  "Posición de la línea (desde 0)"
// @Success      200     {object}  dto.BorradorResponse
// @Router       /api/asistente/items/{indice} [delete]
func (h *AsistenteHandler) QuitarItem(c *fiber.Ctx) error {
	indice, err := c.ParamsInt("indice")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	b, err := h.orq.QuitarItem(GetUserID(c), indice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// Proveedores godoc
// @Summary      Proveedores habilitados para un servicio
// @Tags         asistente
// @Produce      json
// @Param        servicio_id  query  string  true  "ID del servicio"
// @Success      200  {array}  dto.ProveedorResponse
// @Router       /api/asistente/proveedores [get]
func (h *AsistenteHandler) Proveedores(c *fiber.Ctx) error {
	servicioID := c.Query("servicio_id")
	if servicioID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_SERVICIO", Message: "servicio_id es requerido"})
	}
	list, err := h.orq.ProveedoresDisponibles(servicioID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProveedorResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProveedorResponse{ID: p.ID, Nombre: p.Nombre, RUT: p.RUT})
	}
	return c.JSON(out)
}

// Avanzar godoc
// @Summary      Avanzar al paso siguiente si la puerta del paso actual lo permite
// @Tags         asistente
// @Produce      json
// @Success      200  {object}  dto.BorradorResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/asistente/avanzar [post]
func (h *AsistenteHandler) Avanzar(c *fiber.Ctx) error {
	b, err := h.orq.Avanzar(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// Retroceder godoc
// @Summary      Volver al paso anterior sin perder lo ingresado
// @Tags         asistente
// @Produce      json
// @Success      200  {object}  dto.BorradorResponse
// @Router       /api/asistente/retroceder [post]
func (h *AsistenteHandler) Retroceder(c *fiber.Ctx) error {
	b, err := h.orq.Retroceder(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBorradorResponse(b))
}

// Resumen godoc
// @Summary      Vista del paso 5: líneas y totales por moneda formateados
// @Tags         asistente
// @Produce      json
// @Success      200  {object}  dto.ResumenResponse
// @Router       /api/asistente/resumen [get]
func (h *AsistenteHandler) Resumen(c *fiber.Ctx) error {
	res, err := h.orq.GenerarResumen(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	lineas := make([]dto.LineaResumenResponse, 0, len(res.Lineas))
	for _, l := range res.Lineas {
		lineas = append(lineas, dto.LineaResumenResponse{
			Numero:       l.Numero,
			ServicioID:   l.ServicioID,
			ProveedorID:  l.ProveedorID,
			Cantidad:     l.Cantidad,
			Periodicidad: l.Periodicidad,
			MonedaID:     l.MonedaID,
			Subtotal:     l.Subtotal,
			Formateado:   l.Formateado,
		})
	}
	return c.JSON(dto.ResumenResponse{
		Tipo:    string(res.Tipo),
		Lineas:  lineas,
		Totales: res.TotalesPorMon,
	})
}

// Confirmar godoc
// @Summary      Confirmar el borrador: contrato, cotización e ítems en secuencia
// @Description  Ante el primer fallo la secuencia aborta sin rollback y el borrador se conserva para reintentar.
// @Tags         asistente
// @Produce      json
// @Success      201  {object}  dto.ConfirmarResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/asistente/confirmar [post]
func (h *AsistenteHandler) Confirmar(c *fiber.Ctx) error {
	res, err := h.orq.Confirmar(GetSesion(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ConfirmarResponse{
		ContratoID:   res.ContratoID,
		CotizacionID: res.CotizacionID,
		Codigo:       res.Codigo,
		Version:      res.Version,
	})
}

func toItemBorrador(in dto.ItemBorradorRequest) asistente.ItemBorrador {
	return asistente.ItemBorrador{
		ServicioID:     in.ServicioID,
		ProveedorID:    in.ProveedorID,
		Cantidad:       in.Cantidad,
		PrecioUnitario: in.PrecioUnitario,
		MonedaID:       in.MonedaID,
		Periodicidad:   in.Periodicidad,
		FacturarDesde:  in.FacturarDesde,
		FacturarHasta:  in.FacturarHasta,
		Atributos:      in.Atributos,
		Nota:           in.Nota,
	}
}

func toBorradorResponse(b *asistente.Borrador) dto.BorradorResponse {
	items := make([]dto.ItemBorradorRequest, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, dto.ItemBorradorRequest{
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
	return dto.BorradorResponse{
		Paso:          int(b.Paso),
		Tipo:          string(b.Tipo),
		ClienteRUT:    b.Nuevo.ClienteRUT,
		ClienteNombre: b.Nuevo.ClienteNombre,
		ContratoID:    b.ContratoID,
		VigenciaDesde: b.VigenciaDesde,
		VigenciaHasta: b.VigenciaHasta,
		Nota:          b.Nota,
		Items:         items,
		PuedeAvanzar:  b.Paso < asistente.PasoResumen && b.PasoValido(b.Paso),
	}
}
