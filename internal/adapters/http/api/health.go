package api

import (
	"errors"
	"net/http"

	"github.com/okian/riichi/internal/adapters/repository"
	"github.com/okian/riichi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps LeaderboardDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps LeaderboardDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// HandleHealth handles GET /healthz requests. The process is live as soon as
// it answers; ready turns true once a replay has been published.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := h.deps.TopN(r.Context(), 1)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Ready: true})
	case errors.Is(err, repository.ErrNotReady):
		writeJSON(w, http.StatusOK, healthResponse{Status: "starting", Ready: false})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
