package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/contratos-api/internal/application/asistente"
	"github.com/jhoicas/contratos-api/internal/application/auth"
	"github.com/jhoicas/contratos-api/internal/application/authz"
	"github.com/jhoicas/contratos-api/internal/application/cotizacion"
	"github.com/jhoicas/contratos-api/internal/application/usecase"
	"github.com/jhoicas/contratos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/contratos-api/internal/interfaces/http"
	"github.com/jhoicas/contratos-api/pkg/config"
	"github.com/jhoicas/contratos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clienteRepo := postgres.NewClienteRepository(pool)
	contratoRepo := postgres.NewContratoRepository(pool)
	cotizacionRepo := postgres.NewCotizacionRepository(pool)
	transicionRepo := postgres.NewTransicionRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	servicioRepo := postgres.NewServicioRepository(pool)
	monedaRepo := postgres.NewMonedaRepository(pool)

	permisos := authz.NewEvaluator()
	motor := cotizacion.NewEngine(cotizacionRepo, transicionRepo, permisos)
	orquestador := asistente.NewOrquestador(
		clienteRepo, contratoRepo, servicioRepo, monedaRepo, motor, permisos,
	)

	clienteUC := usecase.NewClienteUseCase(clienteRepo)
	contratoUC := usecase.NewContratoUseCase(contratoRepo, clienteRepo)
	catalogoUC := usecase.NewCatalogoUseCase(servicioRepo, monedaRepo)
	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Contratos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ClienteUC:   clienteUC,
		ContratoUC:  contratoUC,
		CatalogoUC:  catalogoUC,
		Motor:       motor,
		Orquestador: orquestador,
		Permisos:    permisos,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
