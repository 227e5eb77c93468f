package api

import "net/http"

// RootMessage is returned by GET /.
const RootMessage = "Maze Hand Gesture Control API is running."

// RootHandler answers the liveness banner.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests. Unknown paths fall through to 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}
