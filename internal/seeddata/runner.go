// Package seeddata generates synthetic HR datasets for development and
// load testing, and can drive one scoring run through a live service to
// verify the seeded data end to end.
package seeddata

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/talentmatch/internal/adapters/storage"
	model "github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/pkg/logger"
)

// Run executes a complete seed pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting talent match seeder",
		logger.String("driver", config.Driver),
		logger.String("dsn", config.DSN),
		logger.Int("employees", config.Employees),
		logger.Int("year", config.Year),
		logger.Int("years", config.Years),
		logger.String("baseURL", config.BaseURL),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid seeder config: %w", err)
	}

	// Step 1: Generate the dataset
	org, dataset, err := generateDataset(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}

	// Step 2: Load it into the database
	if err := seedDatabase(ctx, config, org, dataset, stats); err != nil {
		return fmt.Errorf("database seeding failed: %w", err)
	}

	// Step 3: Optionally trigger a scoring run and verify the results
	if config.BaseURL != "" {
		if err := triggerAndVerify(ctx, config, stats); err != nil {
			return fmt.Errorf("scoring run verification failed: %w", err)
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// seedDatabase opens the store, bulk-loads the dataset and verifies the
// employee count afterwards.
func seedDatabase(ctx context.Context, config *Config, org storage.SeedOrg, dataset *model.Dataset, stats *Stats) error {
	logger.Get().Info(ctx, "seeding database",
		logger.String("driver", config.Driver),
		logger.Int("rows", stats.RowsSeeded))

	store, err := storage.Open(ctx, storage.Driver(config.Driver), config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close storage", logger.Error(err))
		}
	}()

	if err := store.SeedDataset(ctx, org, dataset); err != nil {
		return err
	}

	count, err := store.CountEmployees(ctx)
	if err != nil {
		return err
	}
	if count < len(dataset.Employees) {
		return fmt.Errorf("expected at least %d employees after seeding, found %d", len(dataset.Employees), count)
	}

	logger.Get().Info(ctx, "database seeded",
		logger.Int("employees", count),
		logger.Int("rows", stats.RowsSeeded))
	return nil
}

// displayFinalStats prints the final seed pass statistics.
func displayFinalStats(stats *Stats) {
	fields := []logger.Field{
		logger.Int("employeesGenerated", stats.EmployeesGenerated),
		logger.Int("cohortSize", stats.CohortSize),
		logger.Int("rowsSeeded", stats.RowsSeeded),
		logger.Any("runTriggered", stats.RunTriggered),
		logger.String("duration", stats.Duration.String()),
	}

	if stats.RunTriggered {
		var scoredPercent float64
		if stats.EmployeesGenerated > 0 {
			scoredPercent = float64(stats.EmployeesScored) / float64(stats.EmployeesGenerated) * PercentageMultiplier
		}
		fields = append(fields,
			logger.Int("employeesScored", stats.EmployeesScored),
			logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
			logger.Float64("scoredPercent", scoredPercent))
	}

	logger.Get().Info(context.Background(), "final statistics", fields...)
}
