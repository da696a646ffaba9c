// Package types contains common types used across the application
package types

import "time"

// Entry represents a ranking entry for one scored employee.
type Entry struct {
	Rank          int          `json:"rank"`
	EmployeeID    string       `json:"employee_id"`
	FullName      string       `json:"full_name"`
	Directorate   string       `json:"directorate"`
	Role          string       `json:"role"`
	Grade         string       `json:"grade"`
	CurrentRating int          `json:"current_rating"`
	FinalScore    float64      `json:"final_score"`
	Category      string       `json:"category"`
	Groups        []GroupScore `json:"groups"`
}

// GroupScore is one talent group variable aggregate for an employee.
// Absent marks a group with no computable variables at all; such a
// group carries no rate of its own and contributes zero to the final
// score, which is not the same thing as a group that scored 0.
type GroupScore struct {
	Group     string  `json:"group"`
	Rate      float64 `json:"rate"`
	Weight    float64 `json:"weight"`
	TVCount   int     `json:"tv_count"`
	MinTVRate float64 `json:"min_tv_rate"`
	MaxTVRate float64 `json:"max_tv_rate"`
	Absent    bool    `json:"absent"`
}

// ScorecardRow is one talent-variable line of an employee scorecard.
// BaselineValue and RawValue are nil for variables that have no
// benchmark comparison, such as the strength clusters.
type ScorecardRow struct {
	Group         string   `json:"group"`
	VariableCode  string   `json:"variable_code"`
	VariableName  string   `json:"variable_name"`
	BaselineValue *float64 `json:"baseline_value,omitempty"`
	RawValue      *float64 `json:"raw_value,omitempty"`
	MatchRate     float64  `json:"match_rate"`
	GroupRate     float64  `json:"group_rate"`
	GroupWeight   float64  `json:"group_weight"`
}

// Scorecard is the full scoring detail for one employee in one run.
type Scorecard struct {
	EmployeeID       string         `json:"employee_id"`
	FullName         string         `json:"full_name"`
	Directorate      string         `json:"directorate"`
	Role             string         `json:"role"`
	Grade            string         `json:"grade"`
	CurrentRating    int            `json:"current_rating"`
	FinalScore       float64        `json:"final_score"`
	Category         string         `json:"category"`
	Groups           []GroupScore   `json:"groups"`
	Rows             []ScorecardRow `json:"rows"`
	MissingBaselines int            `json:"missing_baselines"`
	MissingRawValues int            `json:"missing_raw_values"`
}

// BaselineRow is one published benchmark variable.
type BaselineRow struct {
	VariableCode string  `json:"variable_code"`
	VariableName string  `json:"variable_name"`
	Group        string  `json:"group"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	SampleSize   int     `json:"sample_size"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// RunInfo summarizes one completed scoring run.
type RunInfo struct {
	RunID           string    `json:"run_id"`
	RequestID       string    `json:"request_id"`
	EvaluationYear  int       `json:"evaluation_year"`
	CohortSize      int       `json:"cohort_size"`
	EmployeesScored int       `json:"employees_scored"`
	BaselineCount   int       `json:"baseline_count"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationMs      int64     `json:"duration_ms"`
}

// ScoreDistribution summarizes the spread of final scores in a run.
type ScoreDistribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}
