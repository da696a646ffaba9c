package model

// Variable describes one talent variable (TV): a scored attribute with a
// display name and the group it belongs to.
type Variable struct {
	Code  string
	Name  string
	Group Group
}

// Psychometric test codes (Cognitive_Ability).
const (
	VarPauli = "PAULI"
	VarGTQ   = "GTQ"
	VarIQ    = "IQ"
)

// Behavioral cluster codes (Behavioral_Strengths).
const (
	VarThinker = "THINKER"
	VarDoer    = "DOER"
)

// Contextual fit codes (Contextual_Fit).
const (
	VarGradeFit  = "GRADE_FIT"
	VarTenureFit = "TENURE_FIT"
)

// PillarCodes is the fixed set of ten competency pillars
// (Competency_Excellence). Records with codes outside this set are ignored.
var PillarCodes = []string{"STR", "INN", "COL", "COM", "CUS", "DEC", "DRV", "LEA", "ADA", "INT"}

// registry lists every variable in stable order: pillars first, then the
// psychometric, behavioral, and contextual variables.
var registry = []Variable{
	{Code: "STR", Name: "Strategic Thinking", Group: GroupCompetency},
	{Code: "INN", Name: "Innovation", Group: GroupCompetency},
	{Code: "COL", Name: "Collaboration", Group: GroupCompetency},
	{Code: "COM", Name: "Communication", Group: GroupCompetency},
	{Code: "CUS", Name: "Customer Focus", Group: GroupCompetency},
	{Code: "DEC", Name: "Decision Making", Group: GroupCompetency},
	{Code: "DRV", Name: "Drive for Results", Group: GroupCompetency},
	{Code: "LEA", Name: "Leading People", Group: GroupCompetency},
	{Code: "ADA", Name: "Adaptability", Group: GroupCompetency},
	{Code: "INT", Name: "Integrity", Group: GroupCompetency},
	{Code: VarPauli, Name: "Mental Speed and Accuracy", Group: GroupCognitive},
	{Code: VarGTQ, Name: "General Aptitude", Group: GroupCognitive},
	{Code: VarIQ, Name: "Intelligence Quotient", Group: GroupCognitive},
	{Code: VarThinker, Name: "Thinker Cluster", Group: GroupBehavioral},
	{Code: VarDoer, Name: "Doer Cluster", Group: GroupBehavioral},
	{Code: VarGradeFit, Name: "Grade Fit", Group: GroupContextual},
	{Code: VarTenureFit, Name: "Tenure Fit", Group: GroupContextual},
}

// Variables returns the full variable registry in stable order.
func Variables() []Variable {
	out := make([]Variable, len(registry))
	copy(out, registry)
	return out
}

// VariablesByGroup returns the registry entries of one group, in stable order.
func VariablesByGroup(g Group) []Variable {
	var out []Variable
	for _, v := range registry {
		if v.Group == g {
			out = append(out, v)
		}
	}
	return out
}

// VariableName returns the display name for a variable code, falling back to
// the code itself for codes outside the registry.
func VariableName(code string) string {
	for _, v := range registry {
		if v.Code == code {
			return v.Name
		}
	}
	return code
}
