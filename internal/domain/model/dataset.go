package model

import "sort"

// Dataset is the full, read-only input of one scoring run. It is loaded in
// one pass before the pipeline starts and never mutated afterwards.
type Dataset struct {
	EvaluationYear int
	Employees      []Employee
	Ratings        []PerformanceRating
	Competencies   []CompetencyRecord
	Psychometrics  []PsychometricProfile
	Themes         []StrengthTheme
}

// Index is a lookup view over a Dataset. All maps are keyed by employee id.
type Index struct {
	CompetencyByEmployee map[string]map[string]float64 // pillar code -> score, evaluation year only
	PsychByEmployee      map[string]PsychometricProfile
	ThemesByEmployee     map[string][]StrengthTheme // sorted by rank ascending
	RatingByEmployee     map[string]int             // evaluation-year rating
	EmployeeByID         map[string]Employee
}

// BuildIndex builds the lookup view for the dataset's evaluation year.
// Competency records from other years or with unknown pillar codes are
// dropped here so the pipeline never sees them.
func (d *Dataset) BuildIndex() *Index {
	idx := &Index{
		CompetencyByEmployee: make(map[string]map[string]float64, len(d.Employees)),
		PsychByEmployee:      make(map[string]PsychometricProfile, len(d.Psychometrics)),
		ThemesByEmployee:     make(map[string][]StrengthTheme, len(d.Employees)),
		RatingByEmployee:     make(map[string]int, len(d.Employees)),
		EmployeeByID:         make(map[string]Employee, len(d.Employees)),
	}

	known := make(map[string]struct{}, len(PillarCodes))
	for _, code := range PillarCodes {
		known[code] = struct{}{}
	}

	for _, e := range d.Employees {
		idx.EmployeeByID[e.ID] = e
	}
	for _, c := range d.Competencies {
		if c.Year != d.EvaluationYear {
			continue
		}
		if _, ok := known[c.PillarCode]; !ok {
			continue
		}
		scores := idx.CompetencyByEmployee[c.EmployeeID]
		if scores == nil {
			scores = make(map[string]float64)
			idx.CompetencyByEmployee[c.EmployeeID] = scores
		}
		scores[c.PillarCode] = c.Score
	}
	for _, p := range d.Psychometrics {
		idx.PsychByEmployee[p.EmployeeID] = p
	}
	for _, t := range d.Themes {
		idx.ThemesByEmployee[t.EmployeeID] = append(idx.ThemesByEmployee[t.EmployeeID], t)
	}
	for id := range idx.ThemesByEmployee {
		themes := idx.ThemesByEmployee[id]
		sort.Slice(themes, func(i, j int) bool { return themes[i].Rank < themes[j].Rank })
	}
	for _, r := range d.Ratings {
		if r.Year == d.EvaluationYear {
			idx.RatingByEmployee[r.EmployeeID] = r.Rating
		}
	}

	return idx
}

// Cohort returns the reference cohort: employees rated MaxRating in the
// evaluation year, in dataset order.
func (d *Dataset) Cohort() []Employee {
	top := make(map[string]struct{})
	for _, r := range d.Ratings {
		if r.Year == d.EvaluationYear && r.Rating == MaxRating {
			top[r.EmployeeID] = struct{}{}
		}
	}
	var cohort []Employee
	for _, e := range d.Employees {
		if _, ok := top[e.ID]; ok {
			cohort = append(cohort, e)
		}
	}
	return cohort
}

// PsychValue reads one of the three test scores from a profile by variable
// code. The second return is false for unknown codes or missing scores.
func (p PsychometricProfile) PsychValue(code string) (float64, bool) {
	var v *float64
	switch code {
	case VarPauli:
		v = p.Pauli
	case VarGTQ:
		v = p.GTQ
	case VarIQ:
		v = p.IQ
	default:
		return 0, false
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
