// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults and Load(ctx) to layer
//   file and environment overrides on top.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/okian/talentmatch/internal/domain/compose"
	"github.com/okian/talentmatch/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the dataset backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the data source name handed to the driver. Empty picks
	// the driver's local default.
	DBDSN string `koanf:"db_dsn"`

	// EvaluationYear is the default year whose ratings define the
	// benchmark cohort.
	EvaluationYear int `koanf:"evaluation_year"`

	// QueueSize bounds the in-memory scoring queue of one run.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers per run.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// GroupWeights maps talent group variables to their share of the
	// final score. The table must cover every group and sum to 1.0.
	// Maps cannot be set through flat environment keys, so overrides
	// come from the YAML file only.
	GroupWeights map[string]float64 `koanf:"group_weights"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use (e.g. remote
// config sources) and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DBDriver:        "sqlite",
		EvaluationYear:  2025,
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      4096,
		MaxRankingLimit: 1000,
		GroupWeights:    defaultGroupWeights(),
	}
}

func defaultGroupWeights() map[string]float64 {
	w := compose.DefaultWeights()
	out := make(map[string]float64, len(w))
	for g, v := range w {
		out[g.String()] = v
	}
	return out
}

// Weights converts GroupWeights into a validated weight table.
func (c *Config) Weights() (compose.Weights, error) {
	w := make(compose.Weights, len(c.GroupWeights))
	for name, v := range c.GroupWeights {
		w[model.Group(name)] = v
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
