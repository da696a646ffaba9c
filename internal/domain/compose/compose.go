// Package compose aggregates match rates into group rates and the final
// weighted score with its category band.
package compose

import (
	"fmt"
	"math"

	"github.com/okian/talentmatch/internal/domain/match"
	"github.com/okian/talentmatch/internal/domain/model"
)

// Composition constants.
const (
	valueScale      = 100   // two decimal places
	weightTolerance = 0.001 // float slack on the 1.00 weight-sum invariant
)

// Default group weights.
const (
	defaultCompetencyWeight = 0.50
	defaultCognitiveWeight  = 0.25
	defaultBehavioralWeight = 0.20
	defaultContextualWeight = 0.05
)

// GroupRate is the aggregate of one (employee, group) pair: the arithmetic
// mean of the TV rates the employee has in the group, plus diagnostics. An
// employee with zero TVs in a group has no GroupRate at all; the absence is
// converted to a zero contribution only at final weighting.
type GroupRate struct {
	Group     model.Group
	Rate      float64 // mean of TV rates, two decimals
	TVCount   int
	MinTVRate float64
	MaxTVRate float64
}

// Aggregate computes the per-group aggregates of one employee's rates.
// Groups without any rate are simply missing from the result.
func Aggregate(rates []match.Rate) map[model.Group]GroupRate {
	sums := make(map[model.Group]*GroupRate)
	totals := make(map[model.Group]float64)

	for _, r := range rates {
		gr := sums[r.Group]
		if gr == nil {
			gr = &GroupRate{Group: r.Group, MinTVRate: r.Value, MaxTVRate: r.Value}
			sums[r.Group] = gr
		}
		gr.TVCount++
		gr.MinTVRate = math.Min(gr.MinTVRate, r.Value)
		gr.MaxTVRate = math.Max(gr.MaxTVRate, r.Value)
		totals[r.Group] += r.Value
	}

	out := make(map[model.Group]GroupRate, len(sums))
	for g, gr := range sums {
		gr.Rate = round2(totals[g] / float64(gr.TVCount))
		gr.MinTVRate = round2(gr.MinTVRate)
		gr.MaxTVRate = round2(gr.MaxTVRate)
		out[g] = *gr
	}
	return out
}

// Weights maps each group to its share of the final score.
type Weights map[model.Group]float64

// DefaultWeights returns the fixed production weight table.
func DefaultWeights() Weights {
	return Weights{
		model.GroupCompetency: defaultCompetencyWeight,
		model.GroupCognitive:  defaultCognitiveWeight,
		model.GroupBehavioral: defaultBehavioralWeight,
		model.GroupContextual: defaultContextualWeight,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks the structural invariants: all four groups present, no
// unknown group, no negative weight, and a total of 1.00.
func (w Weights) Validate() error {
	for g, v := range w {
		if !g.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownGroup, g)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNegativeWeight, g, v)
		}
	}
	for _, g := range model.Groups() {
		if _, ok := w[g]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingGroup, g)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("%w: got %.4f", ErrWeightSum, w.Sum())
	}
	return nil
}

// Category is a final-score band label.
type Category string

// Category bands in descending order.
const (
	CategoryExcellent Category = "Excellent"
	CategoryGood      Category = "Good"
	CategoryModerate  Category = "Moderate"
	CategoryLow       Category = "Low"
)

// Categories returns all bands in descending score order.
func Categories() []Category {
	return []Category{CategoryExcellent, CategoryGood, CategoryModerate, CategoryLow}
}

// Categorize maps a final score to its band. Lower bounds are inclusive and
// only the top band includes its upper bound: [80,100] Excellent, [60,80)
// Good, [40,60) Moderate, [0,40) Low.
func Categorize(score float64) Category {
	switch {
	case score >= 80:
		return CategoryExcellent
	case score >= 60:
		return CategoryGood
	case score >= 40:
		return CategoryModerate
	default:
		return CategoryLow
	}
}

// Compose folds the group rates into the final weighted score. A group with
// no aggregate contributes zero here, and only here. The result is rounded
// to two decimals and, with valid weights and bounded rates, always lands in
// [0,100].
func Compose(groups map[model.Group]GroupRate, w Weights) (float64, Category) {
	total := 0.0
	for _, g := range model.Groups() {
		if gr, ok := groups[g]; ok {
			total += gr.Rate * w[g]
		}
	}
	final := round2(total)
	return final, Categorize(final)
}

// round2 rounds to two decimal places, the precision of every published
// score.
func round2(v float64) float64 {
	return math.Round(v*valueScale) / valueScale
}
