package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/notekeeper/notes-api/docs"
	"github.com/notekeeper/notes-api/internal/api/handler"
	"github.com/notekeeper/notes-api/internal/api/middleware"
	"github.com/notekeeper/notes-api/internal/core/ports"
	"github.com/notekeeper/notes-api/internal/infrastructure/http/handlers"
)

// RouterConfig carries what NewRouter wires into the Echo instance.
type RouterConfig struct {
	// BaseURL prefixes every address rendered in responses. Empty means
	// scheme://host of each request.
	BaseURL string
	Logger  zerolog.Logger

	Users ports.UserService
	Notes ports.NoteService

	// Dependencies are pinged by GET /health/ready.
	Dependencies map[string]handlers.Pinger
	// Registerer receives the HTTP request metrics. nil leaves them off.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if cfg.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "notes",
			Registerer: cfg.Registerer,
		}))
	}
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(middleware.ConstraintOutcomes())

	// --- Dependencies ---
	rootHandler := handler.NewRootHandler(cfg.BaseURL)
	userHandler := handler.NewUserHandler(cfg.Users, cfg.BaseURL)
	noteHandler := handler.NewNoteHandler(cfg.Notes, cfg.BaseURL)

	e.GET("/", rootHandler.Index)

	// --- User routes ---
	users := e.Group("/user")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PATCH("/:id", userHandler.Patch)
	users.DELETE("/:id", userHandler.Delete)

	// --- Note routes ---
	notes := e.Group("/note")
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.GET("/:id", noteHandler.Get)
	notes.GET("/:id/createdBy", noteHandler.Creator)
	notes.PUT("/:id", noteHandler.Update)
	notes.PATCH("/:id", noteHandler.Patch)
	notes.DELETE("/:id", noteHandler.Delete)

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Dependencies)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
