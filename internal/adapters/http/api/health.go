package api

import "net/http"

// ReadinessChecker reports whether the model artifacts are loaded.
type ReadinessChecker interface {
	Ready() bool
}

type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps ReadinessChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ReadinessChecker) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz requests. It answers 503 until the
// service is ready so orchestrators hold traffic back during startup.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting", Ready: false})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Ready: true})
}
