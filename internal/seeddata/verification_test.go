package seeddata

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestVerifyRankings(t *testing.T) {
	convey.Convey("Given a finished run summary", t, func() {
		run := &RunSummary{RunID: "run-1", EmployeesScored: 3}

		convey.Convey("A sorted, dense, well-categorised ranking passes", func() {
			rankings := []RankedEntry{
				{Rank: 1, EmployeeID: "EMP-0001", FullName: "Ayu Lestari", FinalScore: 91.25, Category: "Excellent"},
				{Rank: 1, EmployeeID: "EMP-0002", FullName: "Bima Nugraha", FinalScore: 91.25, Category: "Excellent"},
				{Rank: 2, EmployeeID: "EMP-0003", FullName: "Citra Dewi", FinalScore: 55.10, Category: "Moderate"},
			}
			convey.So(verifyRankings(run, rankings, true), convey.ShouldBeNil)
		})

		convey.Convey("An empty ranking fails", func() {
			convey.So(verifyRankings(run, nil, false), convey.ShouldNotBeNil)
		})

		convey.Convey("A run that scored nobody fails", func() {
			empty := &RunSummary{RunID: "run-2"}
			rankings := []RankedEntry{{Rank: 1, EmployeeID: "EMP-0001", FinalScore: 50, Category: "Moderate"}}
			convey.So(verifyRankings(empty, rankings, false), convey.ShouldNotBeNil)
		})

		convey.Convey("An unsorted ranking fails", func() {
			rankings := []RankedEntry{
				{Rank: 1, EmployeeID: "EMP-0001", FinalScore: 10.00, Category: "Low"},
				{Rank: 2, EmployeeID: "EMP-0002", FinalScore: 90.00, Category: "Excellent"},
			}
			convey.So(verifyRankings(run, rankings, false), convey.ShouldNotBeNil)
		})

		convey.Convey("A gapped rank sequence fails", func() {
			rankings := []RankedEntry{
				{Rank: 1, EmployeeID: "EMP-0001", FinalScore: 90.00, Category: "Excellent"},
				{Rank: 3, EmployeeID: "EMP-0002", FinalScore: 70.00, Category: "Good"},
			}
			convey.So(verifyRankings(run, rankings, false), convey.ShouldNotBeNil)
		})

		convey.Convey("Tied scores with different ranks fail", func() {
			rankings := []RankedEntry{
				{Rank: 1, EmployeeID: "EMP-0001", FinalScore: 90.00, Category: "Excellent"},
				{Rank: 2, EmployeeID: "EMP-0002", FinalScore: 90.00, Category: "Excellent"},
			}
			convey.So(verifyRankings(run, rankings, false), convey.ShouldNotBeNil)
		})

		convey.Convey("A mislabelled category fails", func() {
			rankings := []RankedEntry{
				{Rank: 1, EmployeeID: "EMP-0001", FinalScore: 90.00, Category: "Low"},
			}
			convey.So(verifyRankings(run, rankings, false), convey.ShouldNotBeNil)
		})

		convey.Convey("A leading rank other than one fails", func() {
			rankings := []RankedEntry{
				{Rank: 2, EmployeeID: "EMP-0001", FinalScore: 90.00, Category: "Excellent"},
			}
			convey.So(verifyRankings(run, rankings, false), convey.ShouldNotBeNil)
		})
	})
}

func TestCategoryForScore(t *testing.T) {
	convey.Convey("Scores map onto the published bands", t, func() {
		convey.So(categoryForScore(100), convey.ShouldEqual, "Excellent")
		convey.So(categoryForScore(80), convey.ShouldEqual, "Excellent")
		convey.So(categoryForScore(79.99), convey.ShouldEqual, "Good")
		convey.So(categoryForScore(60), convey.ShouldEqual, "Good")
		convey.So(categoryForScore(59.99), convey.ShouldEqual, "Moderate")
		convey.So(categoryForScore(40), convey.ShouldEqual, "Moderate")
		convey.So(categoryForScore(39.99), convey.ShouldEqual, "Low")
		convey.So(categoryForScore(0), convey.ShouldEqual, "Low")
	})
}
