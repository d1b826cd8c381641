package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
)

// Handler routes operational requests.
type Handler struct {
	metrics *metric.Registry
	logger  logger.Logger
	mux     *http.ServeMux
}

// New creates a Handler. A nil registry disables /metrics.
func New(metrics *metric.Registry, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		metrics: metrics,
		logger:  log,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /healthz", h.handleHealthz)
	h.mux.HandleFunc("GET /version", h.handleVersion)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
