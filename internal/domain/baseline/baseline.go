// Package baseline computes reference-cohort statistics for scored variables.
package baseline

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentmatch/internal/domain/model"
)

// Default estimator configuration constants.
const (
	defaultParallelism = 8
	valueScale         = 100 // two decimal places
)

// Stats is one baseline row: the cohort statistics of a single variable.
// StdDev uses the sample (n-1) formula; a sample of one has StdDev 0.
type Stats struct {
	Mean       float64
	StdDev     float64
	SampleSize int
	Min        float64
	Max        float64
}

// Table maps variable codes to baseline statistics. A variable with zero
// eligible samples has no entry: downstream treats the absence as "no match
// rate computable", never as zero.
type Table map[string]Stats

// Codes returns the table's variable codes in sorted order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Compute derives rounded statistics from a sample. The second return is
// false for an empty sample, meaning no baseline row should exist.
func Compute(values []float64) (Stats, bool) {
	n := len(values)
	if n == 0 {
		return Stats{}, false
	}

	sum := 0.0
	minV := values[0]
	maxV := values[0]
	for _, v := range values {
		sum += v
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return Stats{
		Mean:       round2(mean),
		StdDev:     round2(std),
		SampleSize: n,
		Min:        round2(minV),
		Max:        round2(maxV),
	}, true
}

// round2 rounds to two decimal places, matching the precision of every
// published statistic.
func round2(v float64) float64 {
	return math.Round(v*valueScale) / valueScale
}

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithParallelism caps the number of variables aggregated concurrently.
func WithParallelism(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// Estimator builds the baseline table of one run from the reference cohort.
type Estimator struct {
	parallelism int
}

// NewEstimator creates an estimator with configuration options.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		parallelism: defaultParallelism,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Build computes baselines for every continuous variable (the competency
// pillars and the psychometric tests) across the cohort. Null raw values are
// excluded from the sample, not zeroed. Variables partition cleanly, so each
// is aggregated on its own goroutine.
func (e *Estimator) Build(ctx context.Context, cohort []model.Employee, idx *model.Index) (Table, error) {
	vars := append(
		model.VariablesByGroup(model.GroupCompetency),
		model.VariablesByGroup(model.GroupCognitive)...,
	)

	results := make([]*Stats, len(vars))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, v := range vars {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("baseline build aborted: %w", err)
			}
			values := collect(v, cohort, idx)
			if stats, ok := Compute(values); ok {
				results[i] = &stats
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(Table, len(vars))
	for i, v := range vars {
		if results[i] != nil {
			table[v.Code] = *results[i]
		}
	}
	return table, nil
}

// collect gathers the cohort's raw values for one variable.
func collect(v model.Variable, cohort []model.Employee, idx *model.Index) []float64 {
	var values []float64
	for _, emp := range cohort {
		switch v.Group {
		case model.GroupCompetency:
			if score, ok := idx.CompetencyByEmployee[emp.ID][v.Code]; ok {
				values = append(values, score)
			}
		case model.GroupCognitive:
			if profile, ok := idx.PsychByEmployee[emp.ID]; ok {
				if score, ok := profile.PsychValue(v.Code); ok {
					values = append(values, score)
				}
			}
		}
	}
	return values
}
