package match

import (
	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/model"
)

// Banded rates. Contextual variables are deterministic lookups on the
// employee record; no cohort statistics are involved.
const (
	rateFull    = 100.0
	ratePartial = 75.0
	rateBase    = 50.0
)

// Grade banding: tier 1 is the most senior.
const (
	seniorTierCutoff = 2 // tiers 1..2 score full
	middleTier       = 3 // tier 3 scores partial
)

// Tenure banding in months of service.
const (
	tenureFullMin = 24
	tenureFullMax = 60
	tenureLowMin  = 12
	tenureLowMax  = 23
	tenureHighMin = 61
	tenureHighMax = 72
)

// BandedStrategy scores the contextual group from the employee's grade tier
// and tenure.
type BandedStrategy struct{}

// NewBandedStrategy creates the contextual banded strategy.
func NewBandedStrategy() *BandedStrategy {
	return &BandedStrategy{}
}

// Group returns the group this strategy serves.
func (s *BandedStrategy) Group() model.Group { return model.GroupContextual }

// Rates always emits both contextual rates; every input value lands in some
// band, so nothing is skipped.
func (s *BandedStrategy) Rates(emp model.Employee, _ *model.Index, _ baseline.Table) ([]Rate, Skips) {
	tier := float64(emp.GradeTier)
	months := float64(emp.TenureMonths)

	return []Rate{
		{Group: model.GroupContextual, VariableCode: model.VarGradeFit, Raw: &tier, Value: GradeRate(emp.GradeTier)},
		{Group: model.GroupContextual, VariableCode: model.VarTenureFit, Raw: &months, Value: TenureRate(emp.TenureMonths)},
	}, Skips{}
}

// GradeRate bands an ordinal grade tier: the two most senior tiers score
// full, the next tier partial, everything else base.
func GradeRate(tier int) float64 {
	switch {
	case tier >= 1 && tier <= seniorTierCutoff:
		return rateFull
	case tier == middleTier:
		return ratePartial
	default:
		return rateBase
	}
}

// TenureRate bands months of service: a settled 24-60 months scores full,
// the adjacent ranges partial, everything else base.
func TenureRate(months int) float64 {
	switch {
	case months >= tenureFullMin && months <= tenureFullMax:
		return rateFull
	case months >= tenureLowMin && months <= tenureLowMax:
		return ratePartial
	case months >= tenureHighMin && months <= tenureHighMax:
		return ratePartial
	default:
		return rateBase
	}
}
