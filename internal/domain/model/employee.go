// Package model contains domain models passed between layers.
package model

// Employee is one scorable person with the organizational attributes
// resolved from their lookup tables.
type Employee struct {
	ID            string // stable identifier, e.g. "EMP-0001"
	FullName      string
	Directorate   string
	Role          string
	Grade         string
	GradeTier     int // ordinal seniority tier, 1 = most senior
	TenureMonths  int
	CurrentRating int // performance rating for the evaluation year, 0 when absent
}
