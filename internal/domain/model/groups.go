package model

// Group is a talent group variable (TGV): one of the four weighted
// dimensions a talent variable belongs to.
type Group string

// The four groups.
const (
	GroupCompetency Group = "Competency_Excellence"
	GroupCognitive  Group = "Cognitive_Ability"
	GroupBehavioral Group = "Behavioral_Strengths"
	GroupContextual Group = "Contextual_Fit"
)

// Groups returns all groups in stable weighting order.
func Groups() []Group {
	return []Group{GroupCompetency, GroupCognitive, GroupBehavioral, GroupContextual}
}

// Valid reports whether g is one of the four known groups.
func (g Group) Valid() bool {
	switch g {
	case GroupCompetency, GroupCognitive, GroupBehavioral, GroupContextual:
		return true
	default:
		return false
	}
}

func (g Group) String() string { return string(g) }
