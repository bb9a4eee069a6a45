package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Bahjat/seo-check-api/internal/platform/middleware"
	"github.com/Bahjat/seo-check-api/internal/platform/requestid"
)

// RouteRegistrar is implemented by every HTTP surface of the service.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter builds the root handler: request IDs, access logs, panic
// recovery and CORS in front of the given route groups.
func NewRouter(logger *slog.Logger, allowedOrigins []string, registrars ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	}))

	for _, reg := range registrars {
		reg.RegisterRoutes(r)
	}

	return r
}
