package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-api/internal/auth"
	"github.com/frahmantamala/employee-api/internal/employee"
	"github.com/frahmantamala/employee-api/internal/transport"
	"github.com/frahmantamala/employee-api/internal/transport/middleware"
	"github.com/frahmantamala/employee-api/internal/transport/swagger"
	"github.com/frahmantamala/employee-api/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	User     *user.Handler
	Employee *employee.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	// RequestLogging turns on the request/response log middleware.
	RequestLogging bool
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.RequestLogging {
		router.Use(middleware.LoggingMiddleware(nil))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	if h.Health != nil {
		router.Get("/health", h.Health.HealthCheckHandler)
		router.Get("/ping", h.Health.PingHandler)
	}

	router.Route("/api", func(r chi.Router) {
		if h.Employee != nil {
			r.Route("/employees", h.Employee.Routes)
		}

		if h.Auth == nil {
			return
		}
		r.Route("/users", func(ur chi.Router) {
			ur.Post("/signup", h.Auth.Signup)
			ur.Post("/login", h.Auth.Login)

			if h.User != nil {
				ur.Group(func(pr chi.Router) {
					pr.Use(h.Auth.AuthMiddleware)
					pr.Get("/profile", h.User.GetProfile)
				})
			}
		})
	})
}
