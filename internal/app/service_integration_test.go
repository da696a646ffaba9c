package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	storage "github.com/okian/talentmatch/internal/adapters/storage"
	service "github.com/okian/talentmatch/internal/app"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func fp(v float64) *float64 { return &v }

// seededStore opens a throwaway SQLite store loaded with a small dataset
// whose scores are known by hand:
//
//	EMP-001  97.65  Excellent  (cohort)
//	EMP-002  95.48  Excellent  (cohort)
//	EMP-003  73.75  Good
//	EMP-004   3.75  Low        (no assessments at all)
func seededStore(t *testing.T) *storage.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "talentmatch.db")
	store, err := storage.Open(context.Background(), storage.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	org := storage.SeedOrg{
		Directorates: []string{"Technology", "Finance"},
		Roles:        []string{"Engineering Manager", "Software Engineer", "Analyst", "Director of Finance"},
		Grades: []storage.SeedGrade{
			{Name: "Director", Tier: 1},
			{Name: "Senior Manager", Tier: 2},
			{Name: "Manager", Tier: 3},
			{Name: "Officer", Tier: 4},
		},
	}

	ds := &model.Dataset{
		EvaluationYear: 2025,
		Employees: []model.Employee{
			{ID: "EMP-001", FullName: "Ayu Lestari", Directorate: "Technology", Role: "Engineering Manager", Grade: "Senior Manager", TenureMonths: 36},
			{ID: "EMP-002", FullName: "Bima Nugraha", Directorate: "Technology", Role: "Software Engineer", Grade: "Officer", TenureMonths: 18},
			{ID: "EMP-003", FullName: "Citra Dewi", Directorate: "Finance", Role: "Analyst", Grade: "Manager", TenureMonths: 70},
			{ID: "EMP-004", FullName: "Dian Puspita", Directorate: "Finance", Role: "Director of Finance", Grade: "Director", TenureMonths: 6},
		},
		Ratings: []model.PerformanceRating{
			{EmployeeID: "EMP-001", Year: 2025, Rating: 5},
			{EmployeeID: "EMP-002", Year: 2025, Rating: 5},
			{EmployeeID: "EMP-003", Year: 2025, Rating: 3},
			{EmployeeID: "EMP-004", Year: 2025, Rating: 4},
			// A stale top rating must not leak into the 2025 cohort.
			{EmployeeID: "EMP-003", Year: 2024, Rating: 5},
		},
		Competencies: []model.CompetencyRecord{
			{EmployeeID: "EMP-001", PillarCode: "STR", Year: 2025, Score: 4.5},
			{EmployeeID: "EMP-001", PillarCode: "COL", Year: 2025, Score: 4.0},
			{EmployeeID: "EMP-002", PillarCode: "STR", Year: 2025, Score: 3.5},
			{EmployeeID: "EMP-002", PillarCode: "COL", Year: 2025, Score: 4.0},
			{EmployeeID: "EMP-003", PillarCode: "STR", Year: 2025, Score: 3.29},
			{EmployeeID: "EMP-003", PillarCode: "COL", Year: 2025, Score: 4.0},
			// Prior-year record must be ignored entirely.
			{EmployeeID: "EMP-004", PillarCode: "STR", Year: 2024, Score: 5.0},
		},
		Psychometrics: []model.PsychometricProfile{
			{EmployeeID: "EMP-001", Pauli: fp(80), GTQ: fp(85), IQ: fp(100)},
			{EmployeeID: "EMP-002", Pauli: fp(90), GTQ: fp(85)},
			{EmployeeID: "EMP-003", Pauli: fp(85), IQ: fp(110)},
		},
		Themes: []model.StrengthTheme{
			{EmployeeID: "EMP-001", Rank: 1, Theme: "Strategic"},
			{EmployeeID: "EMP-001", Rank: 2, Theme: "Activator"},
			{EmployeeID: "EMP-001", Rank: 3, Theme: "Achiever"},
			{EmployeeID: "EMP-001", Rank: 4, Theme: "Learner"},
			{EmployeeID: "EMP-001", Rank: 5, Theme: "Command"},
			{EmployeeID: "EMP-002", Rank: 1, Theme: "Responsibility"},
			{EmployeeID: "EMP-002", Rank: 2, Theme: "Futuristic"},
			{EmployeeID: "EMP-002", Rank: 3, Theme: "Woo"},
			{EmployeeID: "EMP-002", Rank: 4, Theme: "Empathy"},
			{EmployeeID: "EMP-002", Rank: 5, Theme: "Developer"},
			{EmployeeID: "EMP-003", Rank: 1, Theme: "Achiever"},
			{EmployeeID: "EMP-003", Rank: 2, Theme: "Learner"},
			{EmployeeID: "EMP-003", Rank: 3, Theme: "Analytical"},
			{EmployeeID: "EMP-003", Rank: 4, Theme: "Harmony"},
			{EmployeeID: "EMP-003", Rank: 5, Theme: "Focus"},
			// A doer theme outside the active top five must not count.
			{EmployeeID: "EMP-003", Rank: 6, Theme: "Activator"},
		},
	}

	if err := store.SeedDataset(context.Background(), org, ds); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
	return store
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service over a seeded HR database", t, func() {
		store := seededStore(t)
		svc := service.New(
			service.WithStorage(store),
			service.WithWorkerCount(4),
			service.WithQueueSize(100),
			service.WithEvaluationYear(2025),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When executing one full scoring run", func() {
			info, err := svc.RunOnce(ctx)
			So(err, ShouldBeNil)

			Convey("Then the run summary should describe the dataset", func() {
				So(info.RunID, ShouldNotBeEmpty)
				So(info.EvaluationYear, ShouldEqual, 2025)
				So(info.CohortSize, ShouldEqual, 2)
				So(info.EmployeesScored, ShouldEqual, 4)
				So(info.BaselineCount, ShouldEqual, 5)
			})

			Convey("And the rankings should hold the exact expected scores", func() {
				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 4)

				So(entries[0].EmployeeID, ShouldEqual, "EMP-001")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].FinalScore, ShouldEqual, 97.65)
				So(entries[0].Category, ShouldEqual, "Excellent")

				So(entries[1].EmployeeID, ShouldEqual, "EMP-002")
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[1].FinalScore, ShouldEqual, 95.48)
				So(entries[1].Category, ShouldEqual, "Excellent")

				So(entries[2].EmployeeID, ShouldEqual, "EMP-003")
				So(entries[2].Rank, ShouldEqual, 3)
				So(entries[2].FinalScore, ShouldEqual, 73.75)
				So(entries[2].Category, ShouldEqual, "Good")

				So(entries[3].EmployeeID, ShouldEqual, "EMP-004")
				So(entries[3].Rank, ShouldEqual, 4)
				So(entries[3].FinalScore, ShouldEqual, 3.75)
				So(entries[3].Category, ShouldEqual, "Low")
			})

			Convey("And individual rank lookups should resolve", func() {
				entry, err := svc.Rank(ctx, "EMP-003")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 3)
				So(entry.FinalScore, ShouldEqual, 73.75)
				So(entry.FullName, ShouldEqual, "Citra Dewi")
				So(entry.Directorate, ShouldEqual, "Finance")
				So(entry.Grade, ShouldEqual, "Manager")
				So(entry.CurrentRating, ShouldEqual, 3)
			})

			Convey("And the scorecard should expose the per-variable detail", func() {
				card, err := svc.Scorecard(ctx, "EMP-003")
				So(err, ShouldBeNil)
				So(card.FinalScore, ShouldEqual, 73.75)
				So(card.Category, ShouldEqual, "Good")
				So(len(card.Groups), ShouldEqual, 4)

				So(card.Groups[0].Group, ShouldEqual, "Competency_Excellence")
				So(card.Groups[0].Rate, ShouldEqual, 95.0)
				So(card.Groups[0].TVCount, ShouldEqual, 2)
				So(card.Groups[0].Weight, ShouldEqual, 0.50)
				So(card.Groups[0].Absent, ShouldBeFalse)

				So(card.Groups[1].Group, ShouldEqual, "Cognitive_Ability")
				So(card.Groups[1].Rate, ShouldEqual, 50.0)
				So(card.Groups[1].TVCount, ShouldEqual, 2)

				So(card.Groups[2].Group, ShouldEqual, "Behavioral_Strengths")
				So(card.Groups[2].Rate, ShouldEqual, 50.0)

				So(card.Groups[3].Group, ShouldEqual, "Contextual_Fit")
				So(card.Groups[3].Rate, ShouldEqual, 75.0)
				So(card.Groups[3].MinTVRate, ShouldEqual, 75.0)
				So(card.Groups[3].MaxTVRate, ShouldEqual, 75.0)

				// STR, COL, PAULI, IQ, THINKER, DOER, GRADE_FIT, TENURE_FIT.
				So(len(card.Rows), ShouldEqual, 8)
				So(card.MissingRawValues, ShouldEqual, 1) // GTQ is null
				So(card.MissingBaselines, ShouldEqual, 8) // pillars without cohort samples

				var pauli types.ScorecardRow
				for _, row := range card.Rows {
					if row.VariableCode == "PAULI" {
						pauli = row
					}
				}
				So(pauli.Group, ShouldEqual, "Cognitive_Ability")
				So(*pauli.BaselineValue, ShouldEqual, 85.0)
				So(*pauli.RawValue, ShouldEqual, 85.0)
				So(pauli.MatchRate, ShouldEqual, 100.0)
				So(pauli.GroupRate, ShouldEqual, 50.0)
			})

			Convey("And an employee with no assessments should have absent groups", func() {
				card, err := svc.Scorecard(ctx, "EMP-004")
				So(err, ShouldBeNil)
				So(card.FinalScore, ShouldEqual, 3.75)
				So(card.Category, ShouldEqual, "Low")

				// No competency or psychometric data: the groups are
				// absent, not scored zero.
				So(card.Groups[0].Absent, ShouldBeTrue)
				So(card.Groups[1].Absent, ShouldBeTrue)

				// No themes: the clusters are present and score zero.
				So(card.Groups[2].Absent, ShouldBeFalse)
				So(card.Groups[2].Rate, ShouldEqual, 0.0)
				So(card.Groups[2].TVCount, ShouldEqual, 2)

				So(card.Groups[3].Rate, ShouldEqual, 75.0)
				So(card.MissingRawValues, ShouldEqual, 5)
			})

			Convey("And the baseline table should match the cohort statistics", func() {
				rows, err := svc.Baselines(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 5)

				So(rows[0].VariableCode, ShouldEqual, "STR")
				So(rows[0].Mean, ShouldEqual, 4.0)
				So(rows[0].StdDev, ShouldEqual, 0.71)
				So(rows[0].SampleSize, ShouldEqual, 2)
				So(rows[0].Min, ShouldEqual, 3.5)
				So(rows[0].Max, ShouldEqual, 4.5)

				byCode := make(map[string]types.BaselineRow, len(rows))
				for _, row := range rows {
					byCode[row.VariableCode] = row
				}
				So(byCode["PAULI"].Mean, ShouldEqual, 85.0)
				So(byCode["PAULI"].StdDev, ShouldEqual, 7.07)
				So(byCode["IQ"].SampleSize, ShouldEqual, 1)
				So(byCode["IQ"].StdDev, ShouldEqual, 0.0)
				So(byCode["COL"].StdDev, ShouldEqual, 0.0)
			})

			Convey("And the stats should carry distribution and categories", func() {
				stats := svc.GetStats()
				So(stats["employees_ranked"], ShouldEqual, 4)

				categories, ok := stats["categories"].(map[string]int)
				So(ok, ShouldBeTrue)
				So(categories["Excellent"], ShouldEqual, 2)
				So(categories["Good"], ShouldEqual, 1)
				So(categories["Low"], ShouldEqual, 1)
				So(categories["Moderate"], ShouldEqual, 0)

				dist, ok := stats["score_distribution"].(types.ScoreDistribution)
				So(ok, ShouldBeTrue)
				So(dist.Min, ShouldEqual, 3.75)
				So(dist.Max, ShouldEqual, 97.65)
				So(dist.Mean, ShouldEqual, 67.66)
				So(dist.Median, ShouldAlmostEqual, 84.615, 0.006)
			})

			Convey("And the run should be persisted in history", func() {
				latest, err := store.LatestRun(ctx)
				So(err, ShouldBeNil)
				So(latest.RunID, ShouldEqual, info.RunID)
				So(latest.CohortSize, ShouldEqual, 2)
			})

			Convey("And a second run should reproduce the same scores", func() {
				again, err := svc.RunOnce(ctx)
				So(err, ShouldBeNil)
				So(again.RunID, ShouldNotEqual, info.RunID)

				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 4)
				So(entries[0].FinalScore, ShouldEqual, 97.65)
				So(entries[1].FinalScore, ShouldEqual, 95.48)
				So(entries[2].FinalScore, ShouldEqual, 73.75)
				So(entries[3].FinalScore, ShouldEqual, 3.75)
			})
		})

		Convey("When triggering a run asynchronously", func() {
			runID, err := svc.StartRun(ctx, "req-async-1", 0)
			So(err, ShouldBeNil)
			So(runID, ShouldNotBeEmpty)

			// Poll until the run lands.
			var latest types.RunInfo
			for i := 0; i < 200; i++ {
				latest, err = svc.LatestRun(ctx)
				if err == nil && latest.RunID == runID {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			Convey("Then it should complete and publish", func() {
				So(err, ShouldBeNil)
				So(latest.RunID, ShouldEqual, runID)
				So(latest.EmployeesScored, ShouldEqual, 4)
			})
		})
	})
}
