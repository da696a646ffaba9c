package api

import (
	"net/http"
)

// BaselinesHandler handles baseline table reads.
type BaselinesHandler struct {
	deps Dependencies
}

// NewBaselinesHandler creates a new baselines handler.
func NewBaselinesHandler(deps Dependencies) *BaselinesHandler {
	return &BaselinesHandler{deps: deps}
}

// HandleGetBaselines handles GET /baselines requests. The table belongs to
// the latest completed run; before the first run the endpoint returns 404.
func (h *BaselinesHandler) HandleGetBaselines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rows, err := h.deps.Baselines(r.Context())
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
