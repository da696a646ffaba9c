package storage

import (
	"context"
	"fmt"

	model "github.com/okian/talentmatch/internal/domain/model"
)

// SeedGrade is one grade lookup row for seeding.
type SeedGrade struct {
	Name string
	Tier int
}

// SeedOrg holds the org lookup values referenced by a seeded dataset.
// Lookup IDs are the names themselves; real HR feeds would carry their
// own identifiers, the schema does not care either way.
type SeedOrg struct {
	Directorates []string
	Roles        []string
	Grades       []SeedGrade
}

// SeedDataset bulk-loads one dataset inside a single transaction.
// Rows with matching keys are overwritten so the seeder can run
// repeatedly against the same database.
func (s *Store) SeedDataset(ctx context.Context, org SeedOrg, ds *model.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range org.Directorates {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO directorates (id, name) VALUES ($1,$2)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, name, name); err != nil {
			return fmt.Errorf("seed directorates: %w", err)
		}
	}
	for _, name := range org.Roles {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO roles (id, name) VALUES ($1,$2)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, name, name); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}
	for _, g := range org.Grades {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO grades (id, name, tier) VALUES ($1,$2,$3)
			ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, tier=EXCLUDED.tier`,
			g.Name, g.Name, g.Tier); err != nil {
			return fmt.Errorf("seed grades: %w", err)
		}
	}

	for _, e := range ds.Employees {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO employees (id, full_name, directorate_id, role_id, grade_id, tenure_months)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE SET
				full_name=EXCLUDED.full_name,
				directorate_id=EXCLUDED.directorate_id,
				role_id=EXCLUDED.role_id,
				grade_id=EXCLUDED.grade_id,
				tenure_months=EXCLUDED.tenure_months`,
			e.ID, e.FullName, e.Directorate, e.Role, e.Grade, e.TenureMonths); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}

	for _, r := range ds.Ratings {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO performance_yearly (employee_id, year, rating)
			VALUES ($1,$2,$3)
			ON CONFLICT (employee_id, year) DO UPDATE SET rating=EXCLUDED.rating`,
			r.EmployeeID, r.Year, r.Rating); err != nil {
			return fmt.Errorf("seed ratings: %w", err)
		}
	}

	for _, c := range ds.Competencies {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO competencies_yearly (employee_id, pillar_code, year, score)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (employee_id, pillar_code, year) DO UPDATE SET score=EXCLUDED.score`,
			c.EmployeeID, c.PillarCode, c.Year, c.Score); err != nil {
			return fmt.Errorf("seed competencies: %w", err)
		}
	}

	for _, p := range ds.Psychometrics {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO profiles_psych (employee_id, pauli, gtq, iq)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (employee_id) DO UPDATE SET
				pauli=EXCLUDED.pauli, gtq=EXCLUDED.gtq, iq=EXCLUDED.iq`,
			p.EmployeeID, p.Pauli, p.GTQ, p.IQ); err != nil {
			return fmt.Errorf("seed psych profiles: %w", err)
		}
	}

	for _, t := range ds.Themes {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO strength_themes (employee_id, theme_rank, theme)
			VALUES ($1,$2,$3)
			ON CONFLICT (employee_id, theme_rank) DO UPDATE SET theme=EXCLUDED.theme`,
			t.EmployeeID, t.Rank, t.Theme); err != nil {
			return fmt.Errorf("seed strength themes: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}

// CountEmployees reports how many employees are stored. The seeder CLI
// uses it to verify a seed pass.
func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}
