package match

import (
	"github.com/okian/talentmatch/internal/domain/baseline"
	"github.com/okian/talentmatch/internal/domain/model"
)

// Only themes ranked at or above this cutoff count as active.
const activeThemeCutoff = 5

// The two fixed theme clusters. Theme names are matched exactly.
var (
	thinkerThemes = themeSet("Intellection", "Analytical", "Strategic", "Futuristic")
	doerThemes    = themeSet("Activator", "Responsibility", "Self-Assurance", "Belief")
)

func themeSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// ClusterStrategy scores the behavioral group: one binary rate per theme
// cluster, 100 when at least one of the employee's active themes falls in
// the cluster and 0 otherwise.
type ClusterStrategy struct{}

// NewClusterStrategy creates the behavioral cluster strategy.
func NewClusterStrategy() *ClusterStrategy {
	return &ClusterStrategy{}
}

// Group returns the group this strategy serves.
func (s *ClusterStrategy) Group() model.Group { return model.GroupBehavioral }

// Rates always emits both cluster rates. An employee with no ranked themes
// at all scores 0 on each; nothing is skipped.
func (s *ClusterStrategy) Rates(emp model.Employee, idx *model.Index, _ baseline.Table) ([]Rate, Skips) {
	active := make(map[string]struct{})
	for _, t := range idx.ThemesByEmployee[emp.ID] {
		if t.Rank <= activeThemeCutoff {
			active[t.Theme] = struct{}{}
		}
	}

	return []Rate{
		{Group: model.GroupBehavioral, VariableCode: model.VarThinker, Value: clusterRate(active, thinkerThemes)},
		{Group: model.GroupBehavioral, VariableCode: model.VarDoer, Value: clusterRate(active, doerThemes)},
	}, Skips{}
}

// clusterRate is binary: membership of any active theme makes the rate 100.
func clusterRate(active, cluster map[string]struct{}) float64 {
	for theme := range active {
		if _, ok := cluster[theme]; ok {
			return maxRate
		}
	}
	return minRate
}
