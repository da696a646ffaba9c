// Package match converts raw employee values and cohort baselines into
// bounded match rates, one strategy per talent group.
package match

import (
	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/model"
)

// Rate bounds shared by every strategy.
const (
	maxRate = 100.0
	minRate = 0.0
)

// Rate is one computed (employee, variable) match rate. BaselineMean and Raw
// are pointers because only the continuous strategies compare against a
// numeric baseline, and banded variables have a raw value but no baseline.
type Rate struct {
	Group        model.Group
	VariableCode string
	BaselineMean *float64
	Raw          *float64
	Value        float64 // in [0,100]
}

// Skips tallies the variables excluded for one employee. Exclusions are
// silent by contract; the tallies keep them observable.
type Skips struct {
	MissingBaseline int
	MissingRawValue int
}

func (s *Skips) add(other Skips) {
	s.MissingBaseline += other.MissingBaseline
	s.MissingRawValue += other.MissingRawValue
}

// Strategy computes the match rates of one group for one employee. A
// strategy may emit fewer rates than the group has variables (exclusions)
// and reports those through Skips.
type Strategy interface {
	Group() model.Group
	Rates(emp model.Employee, idx *model.Index, table baseline.Table) ([]Rate, Skips)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStrategy replaces the strategy registered for its group.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s != nil {
			e.strategies[s.Group()] = s
		}
	}
}

// Engine dispatches to the per-group strategies in stable group order.
type Engine struct {
	strategies map[model.Group]Strategy
}

// NewEngine creates an engine with the standard four strategies registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strategies: map[model.Group]Strategy{
			model.GroupCompetency: NewContinuousStrategy(model.GroupCompetency),
			model.GroupCognitive:  NewContinuousStrategy(model.GroupCognitive),
			model.GroupBehavioral: NewClusterStrategy(),
			model.GroupContextual: NewBandedStrategy(),
		},
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rates computes every match rate of one employee across all groups.
func (e *Engine) Rates(emp model.Employee, idx *model.Index, table baseline.Table) ([]Rate, Skips) {
	var all []Rate
	var skips Skips
	for _, g := range model.Groups() {
		s, ok := e.strategies[g]
		if !ok {
			continue
		}
		rates, sk := s.Rates(emp, idx, table)
		all = append(all, rates...)
		skips.add(sk)
	}
	return all, skips
}
