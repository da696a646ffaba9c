package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	types "github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/metrics"
)

// RecordRun appends one completed run to the history.
func (s *Store) RecordRun(ctx context.Context, info types.RunInfo) error {
	start := time.Now()
	defer func() {
		metrics.RecordStorageQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scoring_runs
			(id, request_id, evaluation_year, cohort_size, employees_scored,
			 baseline_count, duration_ms, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		info.RunID, info.RequestID, info.EvaluationYear, info.CohortSize,
		info.EmployeesScored, info.BaselineCount, info.DurationMs,
		info.StartedAt.UnixMilli(), info.FinishedAt.UnixMilli())
	if err != nil {
		metrics.RecordStorageError()
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently finished run.
// Returns ErrNoRuns when the history is empty.
func (s *Store) LatestRun(ctx context.Context) (types.RunInfo, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStorageQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, evaluation_year, cohort_size, employees_scored,
		       baseline_count, duration_ms, started_at, finished_at
		FROM scoring_runs
		ORDER BY finished_at DESC, id DESC
		LIMIT 1`)

	info, err := scanRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RunInfo{}, ErrNoRuns
		}
		metrics.RecordStorageError()
		return types.RunInfo{}, fmt.Errorf("latest run: %w", err)
	}
	return info, nil
}

// RunHistory returns up to limit runs, newest first.
func (s *Store) RunHistory(ctx context.Context, limit int) ([]types.RunInfo, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStorageQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, evaluation_year, cohort_size, employees_scored,
		       baseline_count, duration_ms, started_at, finished_at
		FROM scoring_runs
		ORDER BY finished_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("run history: %w", err)
	}
	defer rows.Close()

	var history []types.RunInfo
	for rows.Next() {
		info, err := scanRun(rows.Scan)
		if err != nil {
			metrics.RecordStorageError()
			return nil, fmt.Errorf("run history: %w", err)
		}
		history = append(history, info)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("run history: %w", err)
	}
	return history, nil
}

func scanRun(scan func(dest ...any) error) (types.RunInfo, error) {
	var info types.RunInfo
	var startedMs, finishedMs int64
	err := scan(&info.RunID, &info.RequestID, &info.EvaluationYear, &info.CohortSize,
		&info.EmployeesScored, &info.BaselineCount, &info.DurationMs,
		&startedMs, &finishedMs)
	if err != nil {
		return types.RunInfo{}, err
	}
	info.StartedAt = time.UnixMilli(startedMs).UTC()
	info.FinishedAt = time.UnixMilli(finishedMs).UTC()
	return info, nil
}
