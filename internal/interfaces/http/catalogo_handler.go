package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/usecase"
)

// CatalogoHandler expone los catálogos de solo lectura.
type CatalogoHandler struct {
	uc *usecase.CatalogoUseCase
}

// NewCatalogoHandler construye el handler de catálogos.
func NewCatalogoHandler(uc *usecase.CatalogoUseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// Servicios godoc
// @Summary      Listar servicios
// @Tags         catalogos
// @Produce      json
// @Success      200  {array}  dto.ServicioResponse
// @Router       /api/catalogos/servicios [get]
func (h *CatalogoHandler) Servicios(c *fiber.Ctx) error {
	out, err := h.uc.Servicios()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Proveedores godoc
// @Summary      Proveedores habilitados para un servicio
// @Tags         catalogos
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {array}  dto.ProveedorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalogos/servicios/{id}/proveedores [get]
func (h *CatalogoHandler) Proveedores(c *fiber.Ctx) error {
	out, err := h.uc.Proveedores(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Monedas godoc
// @Summary      Listar monedas de cotización
// @Tags         catalogos
// @Produce      json
// @Success      200  {array}  dto.MonedaResponse
// @Router       /api/catalogos/monedas [get]
func (h *CatalogoHandler) Monedas(c *fiber.Ctx) error {
	out, err := h.uc.Monedas()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
