package rest

import (
	"net/http"

	"github.com/coltranesx/Project-Area/application/commands/bus"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/handlers"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/middleware"
	"github.com/coltranesx/Project-Area/pkg/auth"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options holds the optional parts of the router. Nil members are skipped.
type Options struct {
	// Validator enables JWT workspace scoping.
	Validator *auth.JWTValidator
	// Metrics adds request metrics and the /metrics endpoint.
	Metrics *observability.Collector
	// Websocket serves the change channel at /api/v1/ws.
	Websocket http.Handler
	// AllowedOrigins enables CORS for the listed origins.
	AllowedOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Metrics != nil {
		router.Use(rt.opts.Metrics.Middleware)
	}

	if len(rt.opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.WorkspaceHeader},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.opts.Validator, rt.errors, rt.logger))

		documentHandler := handlers.NewDocumentHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
		r.Route("/document", func(r chi.Router) {
			r.Get("/", documentHandler.GetDocument)
			r.Put("/name", documentHandler.RenameProject)
			r.Post("/save", documentHandler.QuickSave)
			r.Post("/export", documentHandler.Export)
			r.Post("/import", documentHandler.Import)
			r.Post("/reset", documentHandler.Reset)
		})
		r.Get("/workspaces", documentHandler.ListWorkspaces)

		r.Route("/nodes", func(r chi.Router) {
			nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
			r.Post("/", nodeHandler.CreateNode)
			r.Post("/delete-selected", nodeHandler.DeleteSelected)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Patch("/{nodeID}/title", nodeHandler.EditTitle)
			r.Patch("/{nodeID}/label", nodeHandler.EditLabel)
			r.Post("/{nodeID}/cycle-color", nodeHandler.CycleColor)
		})

		changeHandler := handlers.NewChangeHandler(rt.commandBus, rt.errors, rt.logger)
		r.Post("/changes/nodes", changeHandler.NodeChanges)
		r.Post("/changes/edges", changeHandler.EdgeChanges)
		r.Post("/connections", changeHandler.Connect)

		if rt.opts.Websocket != nil {
			r.Method(http.MethodGet, "/ws", rt.opts.Websocket)
		}
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
