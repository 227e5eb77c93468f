package api

import (
	"net/http"

	"github.com/okian/gesture/internal/domain/types"
)

// InfoProvider describes the loaded model.
type InfoProvider interface {
	Info() types.ModelInfo
}

// InfoHandler handles model info requests.
type InfoHandler struct {
	deps InfoProvider
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(deps InfoProvider) *InfoHandler {
	return &InfoHandler{deps: deps}
}

// HandleInfo handles GET /info requests.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Info())
}
