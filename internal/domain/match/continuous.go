package match

import (
	"math"

	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/model"
)

// One baseline standard deviation of distance costs this many points.
const pointsPerStdDev = 10.0

// ContinuousStrategy scores numeric variables against cohort baselines with
// a linear decay in standard-deviation units. Used by both the competency
// and cognitive groups.
type ContinuousStrategy struct {
	group model.Group
}

// NewContinuousStrategy creates a continuous strategy for one group.
func NewContinuousStrategy(group model.Group) *ContinuousStrategy {
	return &ContinuousStrategy{group: group}
}

// Group returns the group this strategy serves.
func (s *ContinuousStrategy) Group() model.Group { return s.group }

// Rates walks the group's variables in registry order. A variable without a
// baseline row, or without a raw value for this employee, contributes no
// rate: it is excluded from the group average, never counted as zero.
func (s *ContinuousStrategy) Rates(emp model.Employee, idx *model.Index, table baseline.Table) ([]Rate, Skips) {
	var rates []Rate
	var skips Skips

	for _, v := range model.VariablesByGroup(s.group) {
		stats, ok := table[v.Code]
		if !ok {
			skips.MissingBaseline++
			continue
		}
		raw, ok := s.rawValue(emp, idx, v.Code)
		if !ok {
			skips.MissingRawValue++
			continue
		}
		mean := stats.Mean
		rates = append(rates, Rate{
			Group:        s.group,
			VariableCode: v.Code,
			BaselineMean: &mean,
			Raw:          &raw,
			Value:        ContinuousRate(raw, stats),
		})
	}
	return rates, skips
}

// rawValue looks up the employee's raw value for one variable code.
func (s *ContinuousStrategy) rawValue(emp model.Employee, idx *model.Index, code string) (float64, bool) {
	switch s.group {
	case model.GroupCompetency:
		raw, ok := idx.CompetencyByEmployee[emp.ID][code]
		return raw, ok
	case model.GroupCognitive:
		profile, ok := idx.PsychByEmployee[emp.ID]
		if !ok {
			return 0, false
		}
		return profile.PsychValue(code)
	default:
		return 0, false
	}
}

// ContinuousRate converts one raw value and its baseline into a match rate.
// A degenerate baseline (std dev 0) scores 100 on an exact mean match and 0
// otherwise; everywhere else the rate decays linearly and floors at 0.
func ContinuousRate(raw float64, stats baseline.Stats) float64 {
	if stats.StdDev == 0 {
		if raw == stats.Mean {
			return maxRate
		}
		return minRate
	}
	return math.Max(minRate, maxRate-math.Abs(raw-stats.Mean)/stats.StdDev*pointsPerStdDev)
}
