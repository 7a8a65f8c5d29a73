package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/serraej/member-evaluations/docs"
	"github.com/serraej/member-evaluations/internal/api/handler"
	"github.com/serraej/member-evaluations/internal/api/middleware"
	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

// Deps are the services the router exposes over HTTP.
type Deps struct {
	Auth        ports.AuthService
	Directory   ports.DirectoryService
	Evaluations ports.EvaluationService
	Reports     ports.ReportService
	// Health maps a dependency name to its readiness ping.
	Health         map[string]handler.PingFunc
	AllowedOrigins []string
	Log            zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// default registry, which also holds the domain counters.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps.AllowedOrigins)))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "evaluations",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	memberHandler := handler.NewMemberHandler(deps.Directory, deps.Auth)
	functionHandler := handler.NewFunctionHandler(deps.Directory)
	evaluationHandler := handler.NewEvaluationHandler(deps.Evaluations)
	reportHandler := handler.NewReportHandler(deps.Reports)
	requireAuth := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Public directory routes ---
	e.GET("/v1/members/all", memberHandler.All)
	e.GET("/api/get-members", memberHandler.Grouped)

	fn := e.Group("/functions/v1")
	fn.POST("/get-notion-members", functionHandler.NotionMembers)
	fn.OPTIONS("/get-notion-members", functionHandler.Preflight)
	fn.GET("/get-all-notion-members", functionHandler.AllNotionMembers)
	fn.OPTIONS("/get-all-notion-members", functionHandler.Preflight)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", requireAuth)
	v1.GET("/me", authHandler.Me)
	v1.GET("/members", memberHandler.List)
	v1.GET("/rubric", evaluationHandler.Rubric)
	v1.POST("/evaluations", evaluationHandler.Submit)
	v1.GET("/drafts", evaluationHandler.ListDrafts)
	v1.POST("/drafts/submit", evaluationHandler.SubmitDrafts)
	v1.PUT("/drafts/:subject_id", evaluationHandler.SaveDraft)
	v1.DELETE("/drafts/:subject_id", evaluationHandler.DiscardDraft)
	v1.GET("/reports", reportHandler.Get, middleware.RBAC(domain.RoleDirector))

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func corsConfig(origins []string) echomiddleware.CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomiddleware.CORSConfig{
		// The member functions answer their own preflights.
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions && strings.HasPrefix(c.Request().URL.Path, "/functions/")
		},
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}
}
