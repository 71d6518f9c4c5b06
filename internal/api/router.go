// Package api provides the HTTP surface of the pipeline: login, invoice
// upload, artifact download, and the health and metrics endpoints.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sehoon/invoice-pipeline/internal/auth"
	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/ingest"
	"github.com/sehoon/invoice-pipeline/internal/storage"
)

// RouterConfig bundles the dependencies of the router.
type RouterConfig struct {
	Users       storage.UserQuerier
	JWTService  *auth.JWTService
	TokenExpiry time.Duration
	Ingest      *ingest.Service
	Processed   blobstore.Store
	Readiness   map[string]Pinger
	Log         zerolog.Logger
}

// NewRouter creates a chi.Mux with all routes, middleware, and handlers
// configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(RecoverMiddleware(cfg.Log))
	r.Use(MetricsMiddleware)

	// Operational endpoints (no auth required)
	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(cfg.Readiness))
	r.Handle("/metrics", promhttp.Handler())

	// Login (no auth required)
	r.Post("/api/v1/login", LoginHandler(cfg.Users, cfg.JWTService, cfg.TokenExpiry))

	// API routes (admin JWT required)
	r.Route("/api/v1/invoices", func(r chi.Router) {
		r.Use(auth.JWTAuth(cfg.JWTService))
		r.Use(auth.RequireAdmin)

		r.Post("/", UploadInvoiceHandler(cfg.Ingest))
		r.Get("/download", DownloadInvoiceHandler(cfg.Processed))
	})

	return r
}
