// Package httpserver owns the process HTTP server: construction from the
// service configuration and graceful drain on shutdown.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"hackhub/internal/platform/config"
)

// Header reads are bounded so a stalled proxy connection cannot pin a
// goroutine; request bodies stay unbounded because the router applies its
// own per-request timeout.
const readHeaderTimeout = 5 * time.Second

// New builds the gateway server from config.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Shutdown drains in-flight requests, waiting at most the configured
// shutdown timeout before giving up on stragglers.
func Shutdown(srv *http.Server, cfg config.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
