package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/profiles-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for profile use-cases.
type Handler struct {
	service *application.Service
	logger  *slog.Logger
}

// NewHandler tags every adapter log line with serviceName. A nil logger
// falls back to slog.Default().
func NewHandler(service *application.Service, serviceName string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if serviceName == "" {
		serviceName = "profiles-service"
	}
	return &Handler{
		service: service,
		logger: logger.With(
			"service", serviceName,
			"module", "http",
			"layer", "adapter",
		),
	}
}

// NewRouter registers the health endpoints and the token-gated profile routes.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(handler.recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/profiles", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/", handler.createProfile)
		r.Get("/", handler.getMyProfile)
		r.Put("/", handler.updateMyProfile)
	})

	return r
}
