package model

// MaxRating is the top value of the 1..5 performance scale. Employees rated
// MaxRating in the evaluation year form the reference cohort.
const MaxRating = 5

// PerformanceRating is one yearly performance review outcome.
type PerformanceRating struct {
	EmployeeID string
	Year       int
	Rating     int // 1..5
}

// CompetencyRecord is one yearly competency pillar score.
type CompetencyRecord struct {
	EmployeeID string
	PillarCode string
	Year       int
	Score      float64 // integer scale 1..5, kept as float64 for the statistics path
}

// PsychometricProfile holds the three continuous test scores of one employee.
// Scores are pointers: a missing test is excluded from every aggregate, never
// treated as zero.
type PsychometricProfile struct {
	EmployeeID string
	Pauli      *float64 // mental speed and accuracy
	GTQ        *float64 // general aptitude
	IQ         *float64
}

// StrengthTheme is one entry of an employee's ranked behavioral-theme list.
type StrengthTheme struct {
	EmployeeID string
	Rank       int // 1 = strongest
	Theme      string
}
