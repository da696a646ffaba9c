package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	model "github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/pkg/metrics"
)

// LoadDataset reads the full scoring input for year into memory:
// employees joined to their org lookups, plus every assessment record
// scoped to that year. Psychometric profiles and strength themes are not
// year-scoped in the source system and load in full.
func (s *Store) LoadDataset(ctx context.Context, year int) (*model.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
	}()

	ds := &model.Dataset{EvaluationYear: year}

	if err := s.loadEmployees(ctx, ds, year); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("load employees: %w", err)
	}
	if err := s.loadRatings(ctx, ds, year); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if err := s.loadCompetencies(ctx, ds, year); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("load competencies: %w", err)
	}
	if err := s.loadPsychProfiles(ctx, ds); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("load psych profiles: %w", err)
	}
	if err := s.loadThemes(ctx, ds); err != nil {
		metrics.RecordStorageError()
		return nil, fmt.Errorf("load strength themes: %w", err)
	}
	return ds, nil
}

func (s *Store) loadEmployees(ctx context.Context, ds *model.Dataset, year int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.full_name, d.name, r.name, g.name, g.tier, e.tenure_months,
		       COALESCE(p.rating, 0)
		FROM employees e
		JOIN directorates d ON d.id = e.directorate_id
		JOIN roles r ON r.id = e.role_id
		JOIN grades g ON g.id = e.grade_id
		LEFT JOIN performance_yearly p ON p.employee_id = e.id AND p.year = $1
		ORDER BY e.id`, year)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Directorate, &e.Role, &e.Grade,
			&e.GradeTier, &e.TenureMonths, &e.CurrentRating); err != nil {
			return err
		}
		ds.Employees = append(ds.Employees, e)
	}
	return rows.Err()
}

func (s *Store) loadRatings(ctx context.Context, ds *model.Dataset, year int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, year, rating
		FROM performance_yearly
		WHERE year = $1
		ORDER BY employee_id`, year)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r model.PerformanceRating
		if err := rows.Scan(&r.EmployeeID, &r.Year, &r.Rating); err != nil {
			return err
		}
		ds.Ratings = append(ds.Ratings, r)
	}
	return rows.Err()
}

func (s *Store) loadCompetencies(ctx context.Context, ds *model.Dataset, year int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, pillar_code, year, score
		FROM competencies_yearly
		WHERE year = $1
		ORDER BY employee_id, pillar_code`, year)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.CompetencyRecord
		if err := rows.Scan(&c.EmployeeID, &c.PillarCode, &c.Year, &c.Score); err != nil {
			return err
		}
		ds.Competencies = append(ds.Competencies, c)
	}
	return rows.Err()
}

func (s *Store) loadPsychProfiles(ctx context.Context, ds *model.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, pauli, gtq, iq
		FROM profiles_psych
		ORDER BY employee_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.PsychometricProfile
		var pauli, gtq, iq sql.NullFloat64
		if err := rows.Scan(&p.EmployeeID, &pauli, &gtq, &iq); err != nil {
			return err
		}
		p.Pauli = nullableFloat(pauli)
		p.GTQ = nullableFloat(gtq)
		p.IQ = nullableFloat(iq)
		ds.Psychometrics = append(ds.Psychometrics, p)
	}
	return rows.Err()
}

func (s *Store) loadThemes(ctx context.Context, ds *model.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, theme_rank, theme
		FROM strength_themes
		ORDER BY employee_id, theme_rank`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.StrengthTheme
		if err := rows.Scan(&t.EmployeeID, &t.Rank, &t.Theme); err != nil {
			return err
		}
		ds.Themes = append(ds.Themes, t)
	}
	return rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
