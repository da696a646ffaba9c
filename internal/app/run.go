package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	queue "github.com/okian/talentmatch/internal/adapters/mq/queue"
	worker "github.com/okian/talentmatch/internal/adapters/mq/worker"
	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/compose"
	"github.com/okian/talentmatch/internal/domain/match"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/logger"
	"github.com/okian/talentmatch/pkg/metrics"
)

// runSnapshot is the immutable result of one completed run. Readers load
// it through an atomic pointer and never see a half-published run.
type runSnapshot struct {
	info       types.RunInfo
	scorecards map[string]types.Scorecard
	baselines  []types.BaselineRow
	dist       types.ScoreDistribution
	categories map[string]int
}

// executeRun drives one whole scoring run: load, baseline, fan-out, collect,
// publish. Any error aborts the run without publishing anything; the
// previously published snapshot keeps serving reads.
func (s *Service) executeRun(ctx context.Context, runID, requestID string, year int) (types.RunInfo, error) {
	started := time.Now()
	metrics.RecordRunStarted()
	s.logger.Info(ctx, "scoring run started",
		logger.String("runID", runID),
		logger.Int("year", year),
	)

	fail := func(err error) (types.RunInfo, error) {
		metrics.RecordRunFailed()
		return types.RunInfo{}, err
	}

	// Weight errors abort before any employee is touched.
	if err := s.weights.Validate(); err != nil {
		return fail(fmt.Errorf("weight table: %w", err))
	}

	ds, err := s.store.LoadDataset(ctx, year)
	if err != nil {
		return fail(fmt.Errorf("load dataset: %w", err))
	}
	idx := ds.BuildIndex()
	cohort := ds.Cohort()
	metrics.UpdateCohortSize(len(cohort))

	table, err := s.estimator.Build(ctx, cohort, idx)
	if err != nil {
		return fail(fmt.Errorf("build baselines: %w", err))
	}
	metrics.UpdateBaselineVariables(len(table))

	cards, err := s.scoreAll(ctx, ds, idx, table)
	if err != nil {
		return fail(err)
	}

	entries := make([]types.Entry, 0, len(cards))
	scorecards := make(map[string]types.Scorecard, len(cards))
	categories := make(map[string]int, len(compose.Categories()))
	finals := make([]float64, 0, len(cards))
	for _, card := range cards {
		scorecards[card.EmployeeID] = card
		categories[card.Category]++
		finals = append(finals, card.FinalScore)
		entries = append(entries, entryFromScorecard(card))
	}

	if err := s.rankings.Replace(ctx, entries); err != nil {
		return fail(fmt.Errorf("publish rankings: %w", err))
	}

	finished := time.Now()
	info := types.RunInfo{
		RunID:           runID,
		RequestID:       requestID,
		EvaluationYear:  year,
		CohortSize:      len(cohort),
		EmployeesScored: len(cards),
		BaselineCount:   len(table),
		StartedAt:       started.UTC(),
		FinishedAt:      finished.UTC(),
		DurationMs:      finished.Sub(started).Milliseconds(),
	}

	// The run is published at this point; a history write failure is
	// logged but does not retract the results.
	if err := s.store.RecordRun(ctx, info); err != nil {
		s.logger.Error(ctx, "failed to record run history",
			logger.String("runID", runID),
			logger.Error(err),
		)
	}

	s.snapshot.Store(&runSnapshot{
		info:       info,
		scorecards: scorecards,
		baselines:  baselineRows(table),
		dist:       distribution(finals),
		categories: categories,
	})

	metrics.UpdateEmployeesRanked(len(entries))
	for _, c := range compose.Categories() {
		metrics.UpdateCategoryCount(string(c), categories[string(c)])
	}
	metrics.RecordRunCompleted()
	metrics.RecordRunDuration(float64(info.DurationMs))

	s.logger.Info(ctx, "scoring run completed",
		logger.String("runID", runID),
		logger.Int("cohortSize", info.CohortSize),
		logger.Int("employeesScored", info.EmployeesScored),
		logger.Int("baselineCount", info.BaselineCount),
		logger.Int64("durationMs", info.DurationMs),
	)

	return info, nil
}

// scoreAll fans the dataset's employees out over a run-scoped queue and
// worker pool and collects their scorecards. Order is not preserved; the
// ranking repository imposes the final order.
func (s *Service) scoreAll(ctx context.Context, ds *model.Dataset, idx *model.Index, table baseline.Table) ([]types.Scorecard, error) {
	q := queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	metrics.UpdateQueueCapacity(s.queueSize)

	scorer := &runScorer{
		engine:  s.engine,
		idx:     idx,
		table:   table,
		weights: s.weights,
	}
	collector := newRunCollector(len(ds.Employees))
	pool := worker.NewPool(s.workerCount, q, scorer, collector)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(runCtx)

	// The queue stays bounded even when the dataset is larger: the
	// producer backs off until the workers free a slot.
	for _, emp := range ds.Employees {
		for !q.Enqueue(runCtx, emp) {
			if err := runCtx.Err(); err != nil {
				_ = q.Close()
				pool.Stop()
				return nil, fmt.Errorf("%w: %w", ErrEnqueue, err)
			}
			select {
			case <-runCtx.Done():
				_ = q.Close()
				pool.Stop()
				return nil, fmt.Errorf("%w: %w", ErrEnqueue, runCtx.Err())
			case <-time.After(time.Millisecond):
			}
		}
	}
	_ = q.Close()

	if err := pool.Wait(runCtx); err != nil {
		return nil, fmt.Errorf("scoring fan-out: %w", err)
	}
	return collector.cards(), nil
}

// runScorer runs the full per-employee pipeline: strategy dispatch, group
// aggregation, and final composition.
type runScorer struct {
	engine  *match.Engine
	idx     *model.Index
	table   baseline.Table
	weights compose.Weights
}

func (r *runScorer) Score(ctx context.Context, emp model.Employee) (types.Scorecard, error) {
	rates, skips := r.engine.Rates(emp, r.idx, r.table)
	groupRates := compose.Aggregate(rates)
	final, category := compose.Compose(groupRates, r.weights)

	for i := 0; i < skips.MissingBaseline; i++ {
		metrics.RecordMissingBaseline()
	}
	for i := 0; i < skips.MissingRawValue; i++ {
		metrics.RecordMissingRawValue()
	}

	groups := make([]types.GroupScore, 0, len(model.Groups()))
	for _, g := range model.Groups() {
		gs := types.GroupScore{
			Group:  g.String(),
			Weight: r.weights[g],
		}
		if gr, ok := groupRates[g]; ok {
			gs.Rate = gr.Rate
			gs.TVCount = gr.TVCount
			gs.MinTVRate = gr.MinTVRate
			gs.MaxTVRate = gr.MaxTVRate
		} else {
			gs.Absent = true
			metrics.RecordEmptyGroup(g.String())
		}
		groups = append(groups, gs)
	}

	rows := make([]types.ScorecardRow, 0, len(rates))
	for _, rate := range rates {
		metrics.RecordTVRate(rate.Group.String())
		rows = append(rows, types.ScorecardRow{
			Group:         rate.Group.String(),
			VariableCode:  rate.VariableCode,
			VariableName:  model.VariableName(rate.VariableCode),
			BaselineValue: rate.BaselineMean,
			RawValue:      rate.Raw,
			MatchRate:     rate.Value,
			GroupRate:     groupRates[rate.Group].Rate,
			GroupWeight:   r.weights[rate.Group],
		})
	}

	return types.Scorecard{
		EmployeeID:       emp.ID,
		FullName:         emp.FullName,
		Directorate:      emp.Directorate,
		Role:             emp.Role,
		Grade:            emp.Grade,
		CurrentRating:    emp.CurrentRating,
		FinalScore:       final,
		Category:         string(category),
		Groups:           groups,
		Rows:             rows,
		MissingBaselines: skips.MissingBaseline,
		MissingRawValues: skips.MissingRawValue,
	}, nil
}

// runCollector gathers scorecards from the worker pool.
type runCollector struct {
	mu        sync.Mutex
	collected []types.Scorecard
}

func newRunCollector(capacity int) *runCollector {
	return &runCollector{
		collected: make([]types.Scorecard, 0, capacity),
	}
}

func (c *runCollector) Collect(ctx context.Context, card types.Scorecard) error {
	c.mu.Lock()
	c.collected = append(c.collected, card)
	c.mu.Unlock()
	return nil
}

func (c *runCollector) cards() []types.Scorecard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collected
}

// entryFromScorecard projects a scorecard onto its ranking entry. The
// repository assigns ranks during Replace.
func entryFromScorecard(card types.Scorecard) types.Entry {
	return types.Entry{
		EmployeeID:    card.EmployeeID,
		FullName:      card.FullName,
		Directorate:   card.Directorate,
		Role:          card.Role,
		Grade:         card.Grade,
		CurrentRating: card.CurrentRating,
		FinalScore:    card.FinalScore,
		Category:      card.Category,
		Groups:        card.Groups,
	}
}

// baselineRows flattens the baseline table into publishable rows in
// registry order.
func baselineRows(table baseline.Table) []types.BaselineRow {
	rows := make([]types.BaselineRow, 0, len(table))
	for _, v := range model.Variables() {
		stats, ok := table[v.Code]
		if !ok {
			continue
		}
		rows = append(rows, types.BaselineRow{
			VariableCode: v.Code,
			VariableName: v.Name,
			Group:        v.Group.String(),
			Mean:         stats.Mean,
			StdDev:       stats.StdDev,
			SampleSize:   stats.SampleSize,
			Min:          stats.Min,
			Max:          stats.Max,
		})
	}
	return rows
}

// distribution summarizes the final-score spread of one run.
func distribution(finals []float64) types.ScoreDistribution {
	if len(finals) == 0 {
		return types.ScoreDistribution{}
	}

	sorted := make([]float64, len(finals))
	copy(sorted, finals)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return types.ScoreDistribution{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   round2(sum / float64(n)),
		Median: round2(median),
	}
}

// round2 rounds to two decimal places, matching the published score
// precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
