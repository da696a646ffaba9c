package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	service "github.com/okian/talentmatch/internal/app"
)

// RunsHandler handles scoring-run requests.
type RunsHandler struct {
	deps Dependencies
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies) *RunsHandler {
	return &RunsHandler{deps: deps}
}

// Run history limits.
const (
	defaultRunHistoryLimit = 20
	maxRunHistoryLimit     = 100
)

// HandleRuns routes the runs collection endpoint by method: POST triggers
// a scoring run, GET lists recent runs.
func (h *RunsHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.HandlePostRun(w, r)
	case http.MethodGet:
		h.HandleGetRunHistory(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandlePostRun handles POST /runs requests. Requests carrying a request_id
// already seen are acknowledged as duplicates without starting a run; a run
// already in flight yields 409 and releases the request_id so the caller
// can retry.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if req.EvaluationYear < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: evaluation_year must be positive", ErrBadRequest))
		return
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx := r.Context()
	if h.deps.SeenAndRecord(ctx, requestID) {
		writeJSON(w, http.StatusOK, runResponse{Status: "duplicate", RequestID: requestID, Duplicate: true})
		return
	}

	runID, err := h.deps.StartRun(ctx, requestID, req.EvaluationYear)
	if err != nil {
		h.deps.Unrecord(ctx, requestID)
		if errors.Is(err, service.ErrRunInFlight) {
			writeError(w, http.StatusConflict, "run_in_flight", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusAccepted, runResponse{Status: "accepted", RunID: runID, RequestID: requestID})
}

// HandleGetRunHistory handles GET /runs requests, newest run first. An
// empty history is a 200 with an empty list, not a 404.
func (h *RunsHandler) HandleGetRunHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultRunHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if parsed > maxRunHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit must not exceed %d", ErrBadRequest, maxRunHistoryLimit))
			return
		}
		n = parsed
	}

	history, err := h.deps.RunHistory(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if history == nil {
		history = []RunInfo{}
	}
	writeJSON(w, http.StatusOK, history)
}

// HandleGetLatestRun handles GET /runs/latest requests.
func (h *RunsHandler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	info, err := h.deps.LatestRun(r.Context())
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
