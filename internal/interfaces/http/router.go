package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contratos-api/internal/application/asistente"
	"github.com/jhoicas/contratos-api/internal/application/auth"
	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClienteUC   *usecase.ClienteUseCase
	ContratoUC  *usecase.ContratoUseCase
	CatalogoUC  *usecase.CatalogoUseCase
	Motor       *cotizacion.Engine
	Orquestador *asistente.Orquestador
	Permisos    *authz.Evaluator
	JWTSecret   string
}

// Router registra las rutas de la API. Las escrituras llevan además del JWT
// un chequeo de permiso contra el evaluador; los chequeos finos por
// transición los hace el motor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	consulta := RequirePermiso(deps.Permisos, authz.AccionConsultar)

	// Clientes
	clientes := protected.Group("/clientes")
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Get("/", consulta, clienteHandler.List)
	clientes.Get("/:rut", consulta, clienteHandler.GetByRUT)
	clientes.Post("/", RequirePermiso(deps.Permisos, authz.AccionClienteCrear), clienteHandler.Create)
	clientes.Put("/:rut", RequirePermiso(deps.Permisos, authz.AccionClienteEditar), clienteHandler.Update)

	// Contratos
	contratos := protected.Group("/contratos")
	contratoHandler := NewContratoHandler(deps.ContratoUC)
	contratos.Get("/", consulta, contratoHandler.List)
	contratos.Get("/:id", consulta, contratoHandler.GetByID)
	contratos.Post("/", RequirePermiso(deps.Permisos, authz.AccionContratoCrear), contratoHandler.Create)

	// Cotizaciones
	cotizaciones := protected.Group("/cotizaciones")
	cotizacionHandler := NewCotizacionHandler(deps.Motor)
	cotizaciones.Get("/", consulta, cotizacionHandler.ListByContrato)
	cotizaciones.Get("/codigo/:codigo/versiones", consulta, cotizacionHandler.Versiones)
	cotizaciones.Get("/:id", consulta, cotizacionHandler.GetByID)
	cotizaciones.Get("/:id/transiciones", consulta, cotizacionHandler.Transiciones)
	cotizaciones.Get("/:id/historial", consulta, cotizacionHandler.Historial)
	cotizaciones.Post("/", RequirePermiso(deps.Permisos, authz.AccionCotizacionCrear), cotizacionHandler.Create)
	cotizaciones.Post("/:id/versiones", RequirePermiso(deps.Permisos, authz.AccionCotizacionVersionar), cotizacionHandler.NuevaVersion)
	cotizaciones.Put("/:id/items", RequirePermiso(deps.Permisos, authz.AccionCotizacionVersionar), cotizacionHandler.ReemplazarItems)
	cotizaciones.Post("/:id/transiciones", RequirePermiso(deps.Permisos, authz.AccionCotizacionCambiarEstado), cotizacionHandler.CambiarEstado)

	// Catálogos (solo lectura)
	catalogos := protected.Group("/catalogos", consulta)
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)
	catalogos.Get("/servicios", catalogoHandler.Servicios)
	catalogos.Get("/servicios/:id/proveedores", catalogoHandler.Proveedores)
	catalogos.Get("/monedas", catalogoHandler.Monedas)

	// Asistente de creación guiada
	asistenteGroup := protected.Group("/asistente", RequirePermiso(deps.Permisos, authz.AccionAsistente))
	asistenteHandler := NewAsistenteHandler(deps.Orquestador)
	asistenteGroup.Post("/", asistenteHandler.Iniciar)
	asistenteGroup.Get("/", asistenteHandler.Obtener)
	asistenteGroup.Delete("/", asistenteHandler.Reiniciar)
	asistenteGroup.Put("/tipo", asistenteHandler.SeleccionarTipo)
	asistenteGroup.Put("/cliente", asistenteHandler.ResolverCliente)
	asistenteGroup.Put("/contrato-nuevo", asistenteHandler.DefinirContratoNuevo)
	asistenteGroup.Get("/contratos", asistenteHandler.BuscarContratos)
	asistenteGroup.Put("/contrato", asistenteHandler.SeleccionarContrato)
	asistenteGroup.Put("/ventana", asistenteHandler.DefinirVentana)
	asistenteGroup.Post("/items", asistenteHandler.AgregarItem)
	asistenteGroup.Put("/items/:indice", asistenteHandler.ActualizarItem)
	asistenteGroup.Delete("/items/:indice", asistenteHandler.QuitarItem)
	asistenteGroup.Get("/proveedores", asistenteHandler.Proveedores)
	asistenteGroup.Post("/avanzar", asistenteHandler.Avanzar)
	asistenteGroup.Post("/retroceder", asistenteHandler.Retroceder)
	asistenteGroup.Get("/resumen", asistenteHandler.Resumen)
	asistenteGroup.Post("/confirmar", asistenteHandler.Confirmar)
}
