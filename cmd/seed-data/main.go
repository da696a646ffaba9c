package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/talentmatch/internal/seeddata"
)

// Default configuration constants.
const (
	defaultEmployees   = 500
	defaultYear        = 2025
	defaultYears       = 3
	defaultTopN        = 10
	defaultTimeout     = 30 * time.Second
	defaultSeedTimeout = 10 * time.Minute
)

func main() {
	var (
		driver    = flag.String("db", "sqlite", "Database driver (sqlite or postgres)")
		dsn       = flag.String("dsn", "", "Database connection string (default: the driver's local default)")
		employees = flag.Int("employees", defaultEmployees, "Number of employees to generate")
		year      = flag.Int("year", defaultYear, "Evaluation year for ratings and competencies")
		years     = flag.Int("years", defaultYears, "Yearly snapshots to generate, counting back from -year")
		baseURL   = flag.String("url", "", "Base URL of a running service; triggers a verification run when set")
		topN      = flag.Int("top", defaultTopN, "Number of ranking entries to fetch after the run")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for seeder output (default: seed_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeddata.ShowHelp()
		return
	}

	// Setup logging
	if err := seeddata.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	// Create seeder configuration
	config := &seeddata.Config{
		Driver:    *driver,
		DSN:       *dsn,
		Employees: *employees,
		Year:      *year,
		Years:     *years,
		BaseURL:   *baseURL,
		TopN:      *topN,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the seeder
	if err := seeddata.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
