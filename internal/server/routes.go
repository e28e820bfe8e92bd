package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/omarluq/twcfg/internal/auth"
	"github.com/omarluq/twcfg/internal/config"
)

// NewRouter creates the HTTP handler with all routes configured.
// Routes:
//   - GET / and GET /pages/{hash} - HTML site
//   - GET /api/pages[?q=], GET /api/pages/{hash} - page API (no auth required)
//   - POST /api/pages, PUT/DELETE /api/pages/{hash} - page writes (auth when configured)
//   - GET /api/descriptor[?field=], GET /api/descriptor/match?path= - live descriptor
//   - GET /health, GET /metrics
//
// metrics may be nil, which disables the /metrics route.
func NewRouter(cfg *config.ServerConfig, h *Handler, logger zerolog.Logger, metrics *Metrics) http.Handler {
	r := chi.NewRouter()

	// Middleware order:
	// 1. LoggerMiddleware + RequestIDMiddleware (IDs land in every log line)
	// 2. LoggingMiddleware (access log)
	// 3. Recoverer (panics become 500s and are still logged)
	// 4. Metrics, rate limit, timeout
	r.Use(LoggerMiddleware(logger))
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(RateLimitMiddleware(cfg.RateLimitRPM))
	if timeout, ok := cfg.GetTimeoutOption().Get(); ok {
		r.Use(middleware.Timeout(timeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, ErrTypeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, ErrTypeInvalidRequest, "method not allowed")
	})

	r.Get("/", h.Index)
	r.Get("/pages/{hash}", h.Page)
	r.Get("/health", h.Health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	writeLimiter := NewWriteLimiter(cfg.WriteLimitRPS)
	maxBody := cfg.GetMaxBodyBytesOption().OrElse(0)

	r.Route("/api", func(r chi.Router) {
		r.Get("/descriptor", h.Descriptor)
		r.Get("/descriptor/match", h.Match)

		r.Get("/pages", h.ListPages)
		r.Get("/pages/{hash}", h.GetPage)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(auth.FromConfig(&cfg.Auth)))
			r.Use(writeLimiter.Middleware)
			r.Use(MaxBodyBytesMiddleware(func() int64 { return maxBody }))

			r.Post("/pages", h.CreatePage)
			r.Put("/pages/{hash}", h.UpdatePage)
			r.Delete("/pages/{hash}", h.DeletePage)
		})
	})

	return r
}
