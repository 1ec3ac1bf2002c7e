// Package httptransport assembles the HTTP surface: the shared middleware
// chain, the per-module route groups, and the operational endpoints. Business
// logic stays in the service packages; this layer only wires them together.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ongfinder/internal/platform/metrics"
	"ongfinder/internal/platform/middleware"
)

// Registrar is implemented by each module handler; Register mounts the
// module's routes on the shared router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the root router with the shared middleware chain and
// mounts every module handler plus /metrics and /healthz.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, handlers ...Registrar) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(30 * time.Second))

	for _, h := range handlers {
		h.Register(r)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
