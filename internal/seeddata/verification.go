package seeddata

import (
	"fmt"
	"log"
)

// Score band cut-offs, matching the service's published categories.
const (
	excellentFloor = 80.0
	goodFloor      = 60.0
	moderateFloor  = 40.0
)

// verifyRankings checks the ranking against the run summary: entries must
// be sorted by score, ranks must be dense, and every category must line up
// with its score band.
func verifyRankings(run *RunSummary, rankings []RankedEntry, verbose bool) error {
	log.Println("🔍 Verifying results...")

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}
	if run.EmployeesScored == 0 {
		return fmt.Errorf("run %s scored no employees", run.RunID)
	}

	if rankings[0].Rank != 1 {
		return fmt.Errorf("top entry has rank %d, want 1", rankings[0].Rank)
	}
	for i := 1; i < len(rankings); i++ {
		prev, cur := rankings[i-1], rankings[i]
		if cur.FinalScore > prev.FinalScore {
			return fmt.Errorf("ranking not sorted: %s (%.2f) listed above %s (%.2f)",
				prev.EmployeeID, prev.FinalScore, cur.EmployeeID, cur.FinalScore)
		}
		switch {
		case cur.FinalScore == prev.FinalScore:
			if cur.Rank != prev.Rank {
				return fmt.Errorf("tied entries %s and %s carry ranks %d and %d",
					prev.EmployeeID, cur.EmployeeID, prev.Rank, cur.Rank)
			}
		case cur.Rank != prev.Rank+1:
			return fmt.Errorf("ranks not dense: %s has rank %d after rank %d",
				cur.EmployeeID, cur.Rank, prev.Rank)
		}
	}

	for _, entry := range rankings {
		if got, want := entry.Category, categoryForScore(entry.FinalScore); got != want {
			return fmt.Errorf("entry %s scored %.2f but is categorised %q, want %q",
				entry.EmployeeID, entry.FinalScore, got, want)
		}
	}

	displayTopPerformers(rankings, verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// categoryForScore maps a final score onto its reporting band.
func categoryForScore(score float64) string {
	switch {
	case score >= excellentFloor:
		return "Excellent"
	case score >= goodFloor:
		return "Good"
	case score >= moderateFloor:
		return "Moderate"
	default:
		return "Low"
	}
}

// displayTopPerformers shows the top of the retrieved ranking.
func displayTopPerformers(rankings []RankedEntry, verbose bool) {
	topN := 10
	if len(rankings) < topN {
		topN = len(rankings)
	}

	log.Printf("🏆 Top %d performers:", topN)
	for i := 0; i < topN; i++ {
		entry := rankings[i]
		log.Printf("   %d. %s (%s) - Score: %.2f [%s]",
			entry.Rank, entry.FullName, entry.EmployeeID, entry.FinalScore, entry.Category)
	}

	if verbose {
		avgScore := calculateAverageScore(rankings)
		maxScore := rankings[0].FinalScore
		minScore := rankings[len(rankings)-1].FinalScore

		log.Printf(`📊 Score statistics:
   Average: %.2f
   Maximum: %.2f
   Minimum: %.2f
`, avgScore, maxScore, minScore)
	}
}

// calculateAverageScore calculates the average final score of the entries.
func calculateAverageScore(rankings []RankedEntry) float64 {
	if len(rankings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range rankings {
		sum += entry.FinalScore
	}

	return sum / float64(len(rankings))
}
