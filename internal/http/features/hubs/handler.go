package hubs

import (
	"net/http"

	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/internal/metrics"
	"github.com/percytech/hubgate/pkg/hub"
)

// Handler serves the hub registry.
type Handler struct {
	metrics *metrics.Metrics
}

// NewHandler creates a new hubs handler. metrics may be nil.
func NewHandler(m *metrics.Metrics) *Handler {
	return &Handler{metrics: m}
}

// ListResponse wraps the hub registry.
type ListResponse struct {
	Hubs    []hub.Hub `json:"hubs"`
	Default hub.ID    `json:"default"`
}

// ResolveResponse is the answer to a host resolution query.
type ResolveResponse struct {
	Host string  `json:"host"`
	Hub  hub.Hub `json:"hub"`
}

// List returns every registered hub in resolution order.
// GET /v1/hubs
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, ListResponse{
		Hubs:    hub.All(),
		Default: hub.Default().ID,
	})
}

// Resolve maps a hostname to its hub. With no host parameter the
// request's own host is resolved, which lets a frontend ask "which hub
// am I?" with a single parameterless call.
// GET /v1/hubs/resolve?host=app.percymd.com
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")

	var resolved hub.Hub
	if host == "" {
		resolved = httputil.RequestHub(r)
		host = r.Host
	} else {
		resolved = hub.ResolveHost(host)
	}

	if h.metrics != nil {
		h.metrics.HostResolutions.WithLabelValues(string(resolved.ID)).Inc()
	}

	httputil.JSON(w, http.StatusOK, ResolveResponse{
		Host: host,
		Hub:  resolved,
	})
}
