package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	model "github.com/okian/talentmatch/internal/domain/model"
	types "github.com/okian/talentmatch/internal/domain/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "talentmatch.db") +
		"?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	store, err := Open(context.Background(), DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func f(v float64) *float64 { return &v }

func testSeed() (SeedOrg, *model.Dataset) {
	org := SeedOrg{
		Directorates: []string{"Technology", "Operations"},
		Roles:        []string{"Engineer", "Analyst"},
		Grades: []SeedGrade{
			{Name: "I", Tier: 1},
			{Name: "III", Tier: 3},
			{Name: "V", Tier: 5},
		},
	}
	ds := &model.Dataset{
		EvaluationYear: 2025,
		Employees: []model.Employee{
			{ID: "EMP-001", FullName: "Alice Pranata", Directorate: "Technology", Role: "Engineer", Grade: "I", TenureMonths: 30},
			{ID: "EMP-002", FullName: "Budi Santoso", Directorate: "Operations", Role: "Analyst", Grade: "III", TenureMonths: 18},
			{ID: "EMP-003", FullName: "Citra Lestari", Directorate: "Technology", Role: "Engineer", Grade: "V", TenureMonths: 70},
		},
		Ratings: []model.PerformanceRating{
			{EmployeeID: "EMP-001", Year: 2025, Rating: 5},
			{EmployeeID: "EMP-001", Year: 2024, Rating: 3},
			{EmployeeID: "EMP-002", Year: 2025, Rating: 4},
			{EmployeeID: "EMP-003", Year: 2025, Rating: 5},
		},
		Competencies: []model.CompetencyRecord{
			{EmployeeID: "EMP-001", PillarCode: "STR", Year: 2025, Score: 4.5},
			{EmployeeID: "EMP-001", PillarCode: "COL", Year: 2025, Score: 4.0},
			{EmployeeID: "EMP-001", PillarCode: "STR", Year: 2024, Score: 2.0},
			{EmployeeID: "EMP-002", PillarCode: "STR", Year: 2025, Score: 3.5},
		},
		Psychometrics: []model.PsychometricProfile{
			{EmployeeID: "EMP-001", Pauli: f(85), GTQ: f(78)},
			{EmployeeID: "EMP-002"},
		},
		Themes: []model.StrengthTheme{
			{EmployeeID: "EMP-001", Rank: 2, Theme: "Achiever"},
			{EmployeeID: "EMP-001", Rank: 1, Theme: "Analytical"},
			{EmployeeID: "EMP-001", Rank: 3, Theme: "Belief"},
			{EmployeeID: "EMP-002", Rank: 1, Theme: "Empathy"},
		},
	}
	return org, ds
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mysql"), "")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "talentmatch.db") +
		"?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

	first, err := Open(ctx, DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(ctx, DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSeedAndLoadDataset(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	org, seed := testSeed()

	if err := store.SeedDataset(ctx, org, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ds, err := store.LoadDataset(ctx, 2025)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(ds.Employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(ds.Employees))
	}
	e := ds.Employees[0]
	if e.ID != "EMP-001" || e.FullName != "Alice Pranata" {
		t.Errorf("unexpected first employee: %+v", e)
	}
	if e.Directorate != "Technology" || e.Role != "Engineer" || e.Grade != "I" {
		t.Errorf("org lookups not joined: %+v", e)
	}
	if e.GradeTier != 1 {
		t.Errorf("expected grade tier 1, got %d", e.GradeTier)
	}
	if e.TenureMonths != 30 {
		t.Errorf("expected tenure 30, got %d", e.TenureMonths)
	}
	if e.CurrentRating != 5 {
		t.Errorf("expected current rating 5, got %d", e.CurrentRating)
	}
	if ds.Employees[1].CurrentRating != 4 {
		t.Errorf("expected EMP-002 rating 4, got %d", ds.Employees[1].CurrentRating)
	}

	// Only the evaluation year's assessment records load.
	if len(ds.Ratings) != 3 {
		t.Errorf("expected 3 ratings for 2025, got %d", len(ds.Ratings))
	}
	for _, r := range ds.Ratings {
		if r.Year != 2025 {
			t.Errorf("rating from wrong year loaded: %+v", r)
		}
	}
	if len(ds.Competencies) != 3 {
		t.Errorf("expected 3 competency records for 2025, got %d", len(ds.Competencies))
	}

	if len(ds.Psychometrics) != 2 {
		t.Fatalf("expected 2 psych profiles, got %d", len(ds.Psychometrics))
	}
	p := ds.Psychometrics[0]
	if p.EmployeeID != "EMP-001" || p.Pauli == nil || *p.Pauli != 85 {
		t.Errorf("unexpected psych profile: %+v", p)
	}
	if p.IQ != nil {
		t.Errorf("expected nil IQ, got %v", *p.IQ)
	}
	empty := ds.Psychometrics[1]
	if empty.Pauli != nil || empty.GTQ != nil || empty.IQ != nil {
		t.Errorf("expected all-null profile for EMP-002: %+v", empty)
	}

	if len(ds.Themes) != 4 {
		t.Fatalf("expected 4 themes, got %d", len(ds.Themes))
	}
	if ds.Themes[0].Theme != "Analytical" || ds.Themes[0].Rank != 1 {
		t.Errorf("themes not ordered by rank: %+v", ds.Themes[0])
	}

	// The loaded dataset feeds the pipeline directly.
	cohort := ds.Cohort()
	if len(cohort) != 2 {
		t.Fatalf("expected cohort of 2, got %d", len(cohort))
	}
	if cohort[0].ID != "EMP-001" || cohort[1].ID != "EMP-003" {
		t.Errorf("unexpected cohort: %v, %v", cohort[0].ID, cohort[1].ID)
	}
}

func TestSeedDataset_RerunOverwrites(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	org, seed := testSeed()

	if err := store.SeedDataset(ctx, org, seed); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	seed.Employees[0].TenureMonths = 31
	seed.Competencies[0].Score = 4.8
	if err := store.SeedDataset(ctx, org, seed); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	ds, err := store.LoadDataset(ctx, 2025)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Employees) != 3 {
		t.Errorf("expected 3 employees after rerun, got %d", len(ds.Employees))
	}
	if ds.Employees[0].TenureMonths != 31 {
		t.Errorf("expected updated tenure 31, got %d", ds.Employees[0].TenureMonths)
	}

	count, err := store.CountEmployees(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected employee count 3, got %d", count)
	}
}

func TestRecordRunAndLatestRun(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.LatestRun(ctx); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns on empty history, got %v", err)
	}

	older := types.RunInfo{
		RunID:           "run-1",
		RequestID:       "req-1",
		EvaluationYear:  2025,
		CohortSize:      40,
		EmployeesScored: 300,
		BaselineCount:   13,
		StartedAt:       time.UnixMilli(1750000000000).UTC(),
		FinishedAt:      time.UnixMilli(1750000002000).UTC(),
		DurationMs:      2000,
	}
	newer := older
	newer.RunID = "run-2"
	newer.RequestID = "req-2"
	newer.CohortSize = 42
	newer.StartedAt = older.StartedAt.Add(time.Hour)
	newer.FinishedAt = older.FinishedAt.Add(time.Hour)

	if err := store.RecordRun(ctx, older); err != nil {
		t.Fatalf("record older: %v", err)
	}
	if err := store.RecordRun(ctx, newer); err != nil {
		t.Fatalf("record newer: %v", err)
	}

	got, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.RunID != "run-2" {
		t.Errorf("expected run-2, got %s", got.RunID)
	}
	if got.CohortSize != 42 || got.EvaluationYear != 2025 {
		t.Errorf("run fields did not round-trip: %+v", got)
	}
	if !got.StartedAt.Equal(newer.StartedAt) || !got.FinishedAt.Equal(newer.FinishedAt) {
		t.Errorf("timestamps did not round-trip: %+v", got)
	}
}

func TestRunHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.UnixMilli(1750000000000).UTC()
	for i := 0; i < 3; i++ {
		info := types.RunInfo{
			RunID:          "run-" + string(rune('a'+i)),
			EvaluationYear: 2025,
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			FinishedAt:     base.Add(time.Duration(i)*time.Minute + time.Second),
			DurationMs:     1000,
		}
		if err := store.RecordRun(ctx, info); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	history, err := store.RunHistory(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(history))
	}
	if history[0].RunID != "run-c" || history[2].RunID != "run-a" {
		t.Errorf("history not newest-first: %s .. %s", history[0].RunID, history[2].RunID)
	}

	limited, err := store.RunHistory(ctx, 2)
	if err != nil {
		t.Fatalf("limited history: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs, got %d", len(limited))
	}
}
