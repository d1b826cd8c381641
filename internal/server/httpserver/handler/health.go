package handler

import (
	"io"
	"net/http"

	"github.com/yndnr/respd-go/internal/infra/buildinfo"
)

// handleHealthz handles GET /healthz.
func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// handleVersion handles GET /version.
func (h *Handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, buildinfo.Get())
}
