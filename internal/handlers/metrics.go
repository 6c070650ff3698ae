package handlers

import (
	"net/http"

	"github.com/calebhoward/bastion/internal/metrics"
	"github.com/calebhoward/bastion/pkg/api"
)

// HistoryProvider is the slice of the sampler the handler needs.
type HistoryProvider interface {
	History() []metrics.Snapshot
}

// MetricsHandler serves the sampled host metrics history to privileged callers
type MetricsHandler struct {
	provider HistoryProvider
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(provider HistoryProvider) *MetricsHandler {
	return &MetricsHandler{provider: provider}
}

// History returns the retained snapshots oldest-first. Role enforcement
// happens in the route middleware; this handler only reads the buffer.
func (h *MetricsHandler) History(w http.ResponseWriter, r *http.Request) {
	snapshots := h.provider.History()
	if snapshots == nil {
		// Serialize as [] rather than null before the first sample lands.
		snapshots = []metrics.Snapshot{}
	}
	api.WriteData(w, http.StatusOK, snapshots)
}
