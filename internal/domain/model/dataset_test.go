package model_test

import (
	"testing"

	model "github.com/okian/talentmatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestDatasetIndex(t *testing.T) {
	convey.Convey("Given a dataset with two employees", t, func() {
		ds := &model.Dataset{
			EvaluationYear: 2025,
			Employees: []model.Employee{
				{ID: "EMP-0001", FullName: "Sari Wulandari", GradeTier: 2, TenureMonths: 30},
				{ID: "EMP-0002", FullName: "Budi Santoso", GradeTier: 4, TenureMonths: 8},
			},
			Ratings: []model.PerformanceRating{
				{EmployeeID: "EMP-0001", Year: 2025, Rating: 5},
				{EmployeeID: "EMP-0001", Year: 2024, Rating: 3},
				{EmployeeID: "EMP-0002", Year: 2025, Rating: 4},
			},
			Competencies: []model.CompetencyRecord{
				{EmployeeID: "EMP-0001", PillarCode: "STR", Year: 2025, Score: 4},
				{EmployeeID: "EMP-0001", PillarCode: "COL", Year: 2025, Score: 5},
				{EmployeeID: "EMP-0001", PillarCode: "STR", Year: 2024, Score: 2},
				{EmployeeID: "EMP-0002", PillarCode: "XXX", Year: 2025, Score: 3},
			},
			Psychometrics: []model.PsychometricProfile{
				{EmployeeID: "EMP-0001", Pauli: f(85), GTQ: f(90), IQ: nil},
			},
			Themes: []model.StrengthTheme{
				{EmployeeID: "EMP-0001", Rank: 2, Theme: "Analytical"},
				{EmployeeID: "EMP-0001", Rank: 1, Theme: "Achiever"},
			},
		}

		convey.Convey("When building the index", func() {
			idx := ds.BuildIndex()

			convey.Convey("Then competency scores are keyed by employee and pillar", func() {
				convey.So(idx.CompetencyByEmployee["EMP-0001"]["STR"], convey.ShouldEqual, 4)
				convey.So(idx.CompetencyByEmployee["EMP-0001"]["COL"], convey.ShouldEqual, 5)
			})

			convey.Convey("Then records from other years are dropped", func() {
				convey.So(idx.CompetencyByEmployee["EMP-0001"]["STR"], convey.ShouldNotEqual, 2)
			})

			convey.Convey("Then unknown pillar codes are dropped", func() {
				_, ok := idx.CompetencyByEmployee["EMP-0002"]
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("Then themes are sorted by rank", func() {
				themes := idx.ThemesByEmployee["EMP-0001"]
				convey.So(len(themes), convey.ShouldEqual, 2)
				convey.So(themes[0].Theme, convey.ShouldEqual, "Achiever")
				convey.So(themes[1].Theme, convey.ShouldEqual, "Analytical")
			})

			convey.Convey("Then ratings are scoped to the evaluation year", func() {
				convey.So(idx.RatingByEmployee["EMP-0001"], convey.ShouldEqual, 5)
				convey.So(idx.RatingByEmployee["EMP-0002"], convey.ShouldEqual, 4)
			})

			convey.Convey("Then employees are reachable by id", func() {
				convey.So(idx.EmployeeByID["EMP-0002"].FullName, convey.ShouldEqual, "Budi Santoso")
			})
		})

		convey.Convey("When deriving the cohort", func() {
			cohort := ds.Cohort()

			convey.Convey("Then only top-rated employees of the evaluation year are included", func() {
				convey.So(len(cohort), convey.ShouldEqual, 1)
				convey.So(cohort[0].ID, convey.ShouldEqual, "EMP-0001")
			})
		})
	})
}

func TestPsychValue(t *testing.T) {
	convey.Convey("Given a psychometric profile with a missing test", t, func() {
		p := model.PsychometricProfile{EmployeeID: "EMP-0001", Pauli: f(82.5), GTQ: nil, IQ: f(110)}

		convey.Convey("Then present scores are returned", func() {
			v, ok := p.PsychValue(model.VarPauli)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 82.5)
		})

		convey.Convey("Then missing scores report absence rather than zero", func() {
			_, ok := p.PsychValue(model.VarGTQ)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then unknown codes report absence", func() {
			_, ok := p.PsychValue("EQ")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestVariableRegistry(t *testing.T) {
	convey.Convey("Given the variable registry", t, func() {
		convey.Convey("Then there are exactly ten competency pillars", func() {
			convey.So(len(model.PillarCodes), convey.ShouldEqual, 10)
			convey.So(len(model.VariablesByGroup(model.GroupCompetency)), convey.ShouldEqual, 10)
		})

		convey.Convey("Then the cognitive group has the three tests", func() {
			vars := model.VariablesByGroup(model.GroupCognitive)
			convey.So(len(vars), convey.ShouldEqual, 3)
			convey.So(vars[0].Code, convey.ShouldEqual, model.VarPauli)
			convey.So(vars[1].Code, convey.ShouldEqual, model.VarGTQ)
			convey.So(vars[2].Code, convey.ShouldEqual, model.VarIQ)
		})

		convey.Convey("Then every variable belongs to a valid group", func() {
			for _, v := range model.Variables() {
				convey.So(v.Group.Valid(), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then names resolve with a fallback for unknown codes", func() {
			convey.So(model.VariableName(model.VarGTQ), convey.ShouldEqual, "General Aptitude")
			convey.So(model.VariableName("ZZZ"), convey.ShouldEqual, "ZZZ")
		})

		convey.Convey("Then the four groups are valid and unknown names are not", func() {
			for _, g := range model.Groups() {
				convey.So(g.Valid(), convey.ShouldBeTrue)
			}
			convey.So(model.Group("Technical_Skill").Valid(), convey.ShouldBeFalse)
		})
	})
}
