// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/talentmatch/internal/adapters/repository"
	service "github.com/okian/talentmatch/internal/app"
	"github.com/okian/talentmatch/internal/domain/dedupe"
	"github.com/okian/talentmatch/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// StartRun launches an asynchronous scoring run and returns its run ID.
	StartRun(ctx context.Context, requestID string, evaluationYear int) (string, error)

	// Read operations expose results from the latest completed run.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, employeeID string) (Entry, error)
	Scorecard(ctx context.Context, employeeID string) (Scorecard, error)
	Baselines(ctx context.Context) ([]BaselineRow, error)
	LatestRun(ctx context.Context) (RunInfo, error)
	RunHistory(ctx context.Context, limit int) ([]RunInfo, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Scorecard mirrors the per-employee breakdown returned by scorecard queries.
type Scorecard = types.Scorecard

// BaselineRow mirrors one baselined variable of the latest run.
type BaselineRow = types.BaselineRow

// RunInfo mirrors the metadata of a completed scoring run.
type RunInfo = types.RunInfo

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	runsHandler       *RunsHandler
	rankingsHandler   *RankingsHandler
	scorecardsHandler *ScorecardsHandler
	baselinesHandler  *BaselinesHandler
}

// NewServer builds a Server with all handlers bound to deps. maxRankingLimit
// caps the limit query parameter on ranking reads.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		runsHandler:       NewRunsHandler(deps),
		rankingsHandler:   NewRankingsHandler(deps, maxRankingLimit),
		scorecardsHandler: NewScorecardsHandler(deps),
		baselinesHandler:  NewBaselinesHandler(deps),
	}
}

// Register attaches all API routes to mux. Every route passes through the
// metrics middleware so request counts and latencies land in Prometheus.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleRuns, "runs"))
	mux.HandleFunc("/runs/latest", MetricsMiddleware(s.runsHandler.HandleGetLatestRun, "runs_latest"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/rankings/", MetricsMiddleware(s.rankingsHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/scorecards/", MetricsMiddleware(s.scorecardsHandler.HandleGetScorecard, "scorecard"))
	mux.HandleFunc("/baselines", MetricsMiddleware(s.baselinesHandler.HandleGetBaselines, "baselines"))
}

// runRequest is the payload accepted by POST /runs. Both fields are
// optional: a blank request_id is replaced with a fresh UUID and a zero
// evaluation_year falls back to the configured default.
type runRequest struct {
	RequestID      string `json:"request_id"`
	EvaluationYear int    `json:"evaluation_year"`
}

// runResponse acknowledges a run request.
type runResponse struct {
	Status    string `json:"status"`
	RunID     string `json:"run_id,omitempty"`
	RequestID string `json:"request_id"`
	Duplicate bool   `json:"duplicate"`
}

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound reports whether err should map to a 404 response.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, service.ErrUnknownEmployee) ||
		errors.Is(err, service.ErrNoRun)
}
