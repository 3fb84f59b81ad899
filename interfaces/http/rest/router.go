package rest

import (
	"net/http"
	"strings"

	"comments-backend/application/commands/bus"
	querybus "comments-backend/application/queries/bus"
	"comments-backend/interfaces/http/rest/handlers"
	"comments-backend/interfaces/http/rest/middleware"
	"comments-backend/pkg/common"
	pkgerrors "comments-backend/pkg/errors"
	"comments-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Readiness reports whether the thread finished seeding
type Readiness interface {
	Ready() bool
	LoadErr() error
	Version() int
}

// RouterConfig holds transport settings
type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	DefaultSort    string
	ActorID        string
	Debug          bool
	Auth           middleware.AuthOptions
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	readiness  Readiness
	tracer     *observability.Tracer
	config     RouterConfig
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	readiness Readiness,
	tracer *observability.Tracer,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		readiness:  readiness,
		tracer:     tracer,
		config:     config,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.config.Debug)

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(rt.tracer.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(versionMiddleware)

	if rt.config.EnableCORS {
		origins := rt.config.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v2", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.config.Auth, errorHandler, rt.logger))

		commentHandler := handlers.NewCommentHandler(
			rt.commandBus,
			rt.queryBus,
			errorHandler,
			rt.config.DefaultSort,
			rt.config.ActorID,
			rt.logger,
		)

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.ListComments)
			r.Post("/", commentHandler.AddComment)
			r.Delete("/{commentID}", commentHandler.RemoveComment)
		})

		r.Get("/session", commentHandler.GetSession)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	rt.respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports 503 until the thread has been seeded
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.readiness == nil || rt.readiness.Ready() {
		body := map[string]interface{}{"status": "ready"}
		if rt.readiness != nil {
			body["version"] = rt.readiness.Version()
		}
		rt.respond(w, http.StatusOK, body)
		return
	}

	body := map[string]interface{}{"status": "not ready"}
	if err := rt.readiness.LoadErr(); err != nil {
		body["reason"] = err.Error()
	}
	rt.respond(w, http.StatusServiceUnavailable, body)
}

func (rt *Router) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		rt.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("X-API-Version", "v2")
		}
		next.ServeHTTP(w, r)
	})
}
