// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	repository "github.com/okian/talentmatch/internal/adapters/repository"
	storage "github.com/okian/talentmatch/internal/adapters/storage"
	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/compose"
	"github.com/okian/talentmatch/internal/domain/dedupe"
	"github.com/okian/talentmatch/internal/domain/match"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/logger"
	"github.com/okian/talentmatch/pkg/metrics"
)

// Storage is the slice of the storage layer the run lifecycle needs.
type Storage interface {
	LoadDataset(ctx context.Context, year int) (*model.Dataset, error)
	RecordRun(ctx context.Context, info types.RunInfo) error
	LatestRun(ctx context.Context) (types.RunInfo, error)
	RunHistory(ctx context.Context, limit int) ([]types.RunInfo, error)
}

// Service implements the API dependencies for the talent-match system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     Storage
	rankings  repository.Store
	deduper   dedupe.Deduper
	estimator *baseline.Estimator
	engine    *match.Engine

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	evaluationYear int
	weights        compose.Weights

	// Run state. Only one run may be in flight; results are published as
	// an immutable snapshot swapped in atomically at the end of a run.
	inFlight  atomic.Bool
	snapshot  atomic.Pointer[runSnapshot]
	runCancel context.CancelFunc

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStorage sets the storage layer the run lifecycle reads from.
func WithStorage(store Storage) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRankingStore sets a custom ranking repository.
func WithRankingStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.rankings = store
		}
	}
}

// WithWorkerCount sets the number of worker goroutines per run.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the scoring task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the request deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEvaluationYear sets the default evaluation year for runs.
func WithEvaluationYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.evaluationYear = year
		}
	}
}

// WithWeights sets the group weight table used by the composer.
func WithWeights(w compose.Weights) Option {
	return func(s *Service) {
		if len(w) > 0 {
			s.weights = w
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      10000, // Default queue size
		dedupeSize:     4096,  // Default dedupe cache size
		evaluationYear: 2025,
		weights:        compose.DefaultWeights(),
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStorage
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting talent-match service...")

	// Initialize components
	if s.rankings == nil {
		s.rankings = repository.NewTreapStore(ctx)
		s.logger.Info(ctx, "using treap store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.estimator = baseline.NewEstimator()
	s.engine = match.NewEngine()

	s.started = true
	s.logger.Info(ctx, "talent-match service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("evaluationYear", s.evaluationYear),
	)

	return nil
}

// Stop gracefully shuts down the service. An in-flight run is canceled
// and discarded; the last published snapshot stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping talent-match service...")

	// Cancel any in-flight run
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}

	// Close ranking store
	if s.rankings != nil {
		if closer, ok := s.rankings.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "talent-match service stopped")
}

// SeenAndRecord atomically checks if a run request id was seen and records
// it if not. Returns true if the request was already seen, false if it was
// newly recorded. This is the ONLY method for deduplication - thread-safe
// and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRunDuplicate()
	}
	return seen
}

// Unrecord removes a request ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// StartRun launches a scoring run asynchronously and returns its id.
// A zero year falls back to the configured evaluation year. Returns
// ErrRunInFlight while a previous run is still executing; on a failed
// run the request id is unrecorded so the caller may retry.
func (s *Service) StartRun(ctx context.Context, requestID string, year int) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrRunInFlight
	}

	if year <= 0 {
		year = s.evaluationYear
	}
	runID := uuid.NewString()

	// The run must outlive the triggering request but die with the service.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.runCancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		defer s.inFlight.Store(false)

		if _, err := s.executeRun(runCtx, runID, requestID, year); err != nil {
			s.logger.Error(runCtx, "scoring run failed",
				logger.String("runID", runID),
				logger.Error(err),
			)
			if requestID != "" {
				s.deduper.Unrecord(runCtx, requestID)
			}
		}
	}()

	return runID, nil
}

// RunOnce executes one scoring run synchronously and returns its summary.
func (s *Service) RunOnce(ctx context.Context) (types.RunInfo, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.RunInfo{}, ErrNotStarted
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return types.RunInfo{}, ErrRunInFlight
	}
	defer s.inFlight.Store(false)

	return s.executeRun(ctx, uuid.NewString(), "", s.evaluationYear)
}

// TopN returns the top N ranking entries of the latest run.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.rankings.TopN(ctx, n)
}

// Rank returns the ranking entry for a given employee id.
func (s *Service) Rank(ctx context.Context, employeeID string) (types.Entry, error) {
	return s.rankings.Rank(ctx, employeeID)
}

// Scorecard returns the full scoring detail of one employee in the latest run.
func (s *Service) Scorecard(ctx context.Context, employeeID string) (types.Scorecard, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return types.Scorecard{}, ErrNoRun
	}
	card, ok := snap.scorecards[employeeID]
	if !ok {
		return types.Scorecard{}, ErrUnknownEmployee
	}
	return card, nil
}

// Baselines returns the baseline table published by the latest run.
func (s *Service) Baselines(ctx context.Context) ([]types.BaselineRow, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoRun
	}
	rows := make([]types.BaselineRow, len(snap.baselines))
	copy(rows, snap.baselines)
	return rows, nil
}

// LatestRun returns the most recent completed run, falling back to the
// persisted history when the service has not run since starting.
func (s *Service) LatestRun(ctx context.Context) (types.RunInfo, error) {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.info, nil
	}
	info, err := s.store.LatestRun(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoRuns) {
			return types.RunInfo{}, ErrNoRun
		}
		return types.RunInfo{}, err
	}
	return info, nil
}

// RunHistory returns up to limit persisted runs, newest first.
func (s *Service) RunHistory(ctx context.Context, limit int) ([]types.RunInfo, error) {
	return s.store.RunHistory(ctx, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"evaluation_year": s.evaluationYear,
		"worker_count":    s.workerCount,
		"queue_size":      s.queueSize,
		"dedupe_size":     s.dedupeSize,
		"run_in_flight":   s.inFlight.Load(),
	}

	if s.started {
		ranked := s.rankings.Count(ctx)
		stats["employees_ranked"] = ranked
		stats["dedupe_entries"] = s.deduper.Size()

		// Update metrics
		metrics.UpdateEmployeesRanked(ranked)
	}

	if snap := s.snapshot.Load(); snap != nil {
		stats["last_run"] = snap.info
		stats["score_distribution"] = snap.dist
		stats["categories"] = snap.categories
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
