package httpapi

import (
	"net/http"
)

// StorageHealth local storage degradation, as reported by store.CachedKV.
type StorageHealth interface {
	Degraded() bool
	LastError() error
}

type HealthHandler struct {
	mode    string
	storage StorageHealth
}

func NewHealthHandler(mode string, storage StorageHealth) *HealthHandler {
	return &HealthHandler{mode: mode, storage: storage}
}

type healthStatus struct {
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	Degraded  bool   `json:"degraded"`
	LastError string `json:"last_error,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := healthStatus{Status: "ok", Mode: h.mode}
	if h.storage != nil && h.storage.Degraded() {
		out.Status = "degraded"
		out.Degraded = true
		if err := h.storage.LastError(); err != nil {
			out.LastError = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
