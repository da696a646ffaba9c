package seeddata

import (
	"fmt"
	"time"
)

// Config holds configuration for one seed pass
type Config struct {
	Driver    string        // Database driver (sqlite or postgres)
	DSN       string        // Database connection string, driver default when empty
	Employees int           // Number of employees to generate
	Year      int           // Evaluation year anchoring ratings and competencies
	Years     int           // Yearly snapshots to generate, counting back from Year
	BaseURL   string        // Base URL of a running service, empty skips the verification run
	TopN      int           // Number of ranking entries to fetch after the run
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for seeder output
	Verbose   bool          // Enable verbose logging
}

// validate rejects configurations the generator cannot work with.
func (c *Config) validate() error {
	if c.Employees < 1 {
		return fmt.Errorf("employees must be positive, got %d", c.Employees)
	}
	if c.Year < 1 {
		return fmt.Errorf("year must be positive, got %d", c.Year)
	}
	if c.Years < 1 {
		return fmt.Errorf("years must be positive, got %d", c.Years)
	}
	if c.BaseURL != "" && c.TopN < 1 {
		return fmt.Errorf("top must be positive, got %d", c.TopN)
	}
	return nil
}

// RunAck represents the response from triggering a scoring run
type RunAck struct {
	Status    string `json:"status"`
	RunID     string `json:"run_id"`
	RequestID string `json:"request_id"`
	Duplicate bool   `json:"duplicate"`
}

// RunSummary mirrors the service's published run report
type RunSummary struct {
	RunID           string `json:"run_id"`
	RequestID       string `json:"request_id"`
	EvaluationYear  int    `json:"evaluation_year"`
	CohortSize      int    `json:"cohort_size"`
	EmployeesScored int    `json:"employees_scored"`
	BaselineCount   int    `json:"baseline_count"`
	DurationMs      int64  `json:"duration_ms"`
}

// RankedEntry is one row of the ranking endpoint's response
type RankedEntry struct {
	Rank       int     `json:"rank"`
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	FinalScore float64 `json:"final_score"`
	Category   string  `json:"category"`
}

// Stats holds seed pass statistics
type Stats struct {
	EmployeesGenerated int
	CohortSize         int
	RowsSeeded         int
	RunTriggered       bool
	RunDuplicate       bool
	EmployeesScored    int
	RankingsRetrieved  int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
