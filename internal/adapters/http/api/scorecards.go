package api

import (
	"fmt"
	"net/http"
	"strings"
)

// ScorecardsHandler handles per-employee scorecard reads.
type ScorecardsHandler struct {
	deps Dependencies
}

// NewScorecardsHandler creates a new scorecards handler.
func NewScorecardsHandler(deps Dependencies) *ScorecardsHandler {
	return &ScorecardsHandler{deps: deps}
}

// HandleGetScorecard handles GET /scorecards/{employee_id} requests.
func (h *ScorecardsHandler) HandleGetScorecard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/scorecards/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing employee id", ErrBadRequest))
		return
	}

	card, err := h.deps.Scorecard(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
