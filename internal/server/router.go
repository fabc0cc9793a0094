// Package server implements the HTTP server and routing logic.
package server

import (
	"context"
	"net/http"

	"github.com/maruel/discdb/internal/config"
	"github.com/maruel/discdb/internal/server/dto"
	"github.com/maruel/discdb/internal/server/handlers"
	"github.com/maruel/discdb/internal/server/metrics"
	"github.com/maruel/discdb/internal/server/ratelimit"
	"github.com/maruel/discdb/internal/storage"
)

// Config holds the settings the HTTP layer needs.
type Config struct {
	*config.Config

	// Version is reported by /health.
	Version string
}

// NewRouter creates and configures the HTTP router.
//
// The rate limiters' background goroutines stop when ctx is done.
func NewRouter(ctx context.Context, store *storage.DiscStore, cfg *Config) http.Handler {
	limiters := ratelimit.NewConfig(cfg.RateLimits.WritePerMin, cfg.RateLimits.ReadPerMin)
	context.AfterFunc(ctx, limiters.Close)
	m := metrics.New(store.Len)

	mux := &http.ServeMux{}
	dh := handlers.NewDiscHandler(store)
	hh := handlers.NewHealthHandler(cfg.Version)
	sh := handlers.NewSchemaHandler()

	mux.HandleFunc("GET /{$}", dh.Welcome)

	// Disc endpoints
	mux.Handle("GET /Id", Wrap(dh.ListDiscs, cfg, limiters, m))
	mux.Handle("GET /Id/{id}", Wrap(dh.GetDisc, cfg, limiters, m))
	mux.Handle("POST /Id", Wrap(dh.CreateDisc, cfg, limiters, m))
	mux.Handle("DELETE /Id/{id}", Wrap(dh.DeleteDisc, cfg, limiters, m))

	// Operational endpoints
	mux.Handle("GET /health", Wrap(hh.Health, cfg, limiters, m))
	mux.Handle("GET /schema", Wrap(sh.Schema, cfg, limiters, m))
	mux.Handle("GET /metrics", m.Handler())

	// Anything else, including a known path with the wrong method.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(r.Context(), w, dto.RouteNotFound(), false)
	})

	var h http.Handler = m.Middleware(mux)
	h = trimTrailingSlash(h)
	h = allowCORS(h)
	h = recoverPanics(h, cfg, m)
	return logRequests(h)
}
