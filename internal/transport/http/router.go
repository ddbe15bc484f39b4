package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atlas/internal/catalog/handler"
	"atlas/internal/platform/metrics"
	"atlas/internal/platform/middleware"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
// Domain routes register themselves; transport owns only health and metrics.
func NewRouter(catalog *handler.Handler, log *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	catalog.Register(r)
	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
