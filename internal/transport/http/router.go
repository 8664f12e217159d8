// Package http assembles the HTTP surface: one router, one middleware
// chain, and the module handlers mounted side by side.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hackhub/internal/files"
	judginghandler "hackhub/internal/judging/handler"
	"hackhub/internal/platform/metrics"
	"hackhub/internal/platform/middleware"
	registrationhandler "hackhub/internal/registration/handler"
)

const requestTimeout = 15 * time.Second

// Deps carries everything the router needs. Health is consulted by the
// readiness probe; nil checks are skipped.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Registration registrationhandler.Service
	Judging      judginghandler.Service
	Files        files.Registry
	Health       []func() error
}

// NewRouter wires the middleware chain and mounts every module.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(d.Metrics))

	judging := judginghandler.New(d.Judging, d.Logger)

	r.Get("/healthz", handleHealth(d.Health))
	r.Handle("/metrics", promhttp.Handler())
	judging.RegisterPublic(r)

	// Everything below requires a forwarded identity.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(d.Logger))
		r.Use(middleware.ContentTypeJSON)

		registrationhandler.New(d.Registration, d.Logger).Register(r)
		judging.Register(r)
		files.NewHandler(d.Files).Register(r)
	})

	return r
}

func handleHealth(checks []func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
