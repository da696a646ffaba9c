package seeddata

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"runtime"

	"github.com/okian/talentmatch/internal/adapters/storage"
	model "github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	percentDivisor     = 100
	scorePrecision     = 100
)

// Rating distribution cut-offs (cumulative percent). Roughly one employee
// in five lands in the top band so every year has a usable cohort.
const (
	ratingFiveCutoff  = 20
	ratingFourCutoff  = 55
	ratingThreeCutoff = 85
	ratingTwoCutoff   = 95
)

// Competency drift distribution (percent). A pillar score usually matches
// the yearly rating and drifts one point either way the rest of the time.
const (
	competencyDriftDown = 25
	competencyDriftUp   = 75
)

// Psychometric score bands and sparsity.
const (
	pauliMin   = 55.0
	pauliSpan  = 45.0
	gtqMin     = 75.0
	gtqSpan    = 55.0
	iqMin      = 80.0
	iqSpan     = 55.0

	psychMissingChance = 10 // percent per score

	psychRatingDivisor = 8.0
	psychRandomShare   = 0.5
)

// Employee shape constants.
const (
	tenureMin     = 3
	tenureSpan    = 238
	topThemeCount = 5
)

// Name pools for synthetic employees.
var (
	firstNames = []string{
		"Ayu", "Bima", "Citra", "Dian", "Eka", "Fajar", "Gita", "Hendra",
		"Indah", "Joko", "Kartika", "Lukman", "Maya", "Nadia", "Oka", "Putri",
		"Raden", "Sari", "Taufik", "Umar", "Vina", "Wawan", "Yanti", "Zaki",
	}
	lastNames = []string{
		"Lestari", "Nugraha", "Dewi", "Puspita", "Rahma", "Santoso", "Wibowo",
		"Pratama", "Saputra", "Utami", "Hidayat", "Kusuma", "Wijaya", "Purnama",
		"Hartono", "Gunawan", "Anggraini", "Firmansyah", "Siregar", "Maulana",
	}
)

// Org chart pools. Grade tiers run from 1 (most senior) down.
var (
	directorates = []string{"Technology", "Finance", "Human Capital", "Operations", "Commercial"}
	roles        = []string{
		"Engineering Manager", "Software Engineer", "Data Analyst", "Product Manager",
		"Finance Analyst", "HR Business Partner", "Operations Lead", "Account Executive",
	}
	grades = []storage.SeedGrade{
		{Name: "Director", Tier: 1},
		{Name: "Senior Manager", Tier: 2},
		{Name: "Manager", Tier: 3},
		{Name: "Officer", Tier: 4},
		{Name: "Associate", Tier: 5},
	}
)

// strengthThemes is the pool ranked theme lists are drawn from. It covers
// the full Thinker and Doer cluster themes plus common fillers.
var strengthThemes = []string{
	"Intellection", "Analytical", "Strategic", "Futuristic",
	"Activator", "Responsibility", "Self-Assurance", "Belief",
	"Achiever", "Learner", "Focus", "Relator", "Communication",
	"Harmony", "Discipline", "Ideation", "Empathy", "Maximizer",
	"Arranger", "Positivity", "Adaptability", "Input",
}

// employeeBundle holds every generated row belonging to one employee.
type employeeBundle struct {
	employee     model.Employee
	ratings      []model.PerformanceRating
	competencies []model.CompetencyRecord
	psych        model.PsychometricProfile
	themes       []model.StrengthTheme
}

// generateDataset builds the synthetic org chart and a full dataset for the
// configured number of employees.
func generateDataset(ctx context.Context, config *Config, stats *Stats) (storage.SeedOrg, *model.Dataset, error) {
	logger.Get().Info(ctx, "generating dataset",
		logger.Int("employees", config.Employees),
		logger.Int("year", config.Year),
		logger.Int("years", config.Years))

	org := storage.SeedOrg{
		Directorates: directorates,
		Roles:        roles,
		Grades:       grades,
	}

	// Pre-allocate employee IDs so bundles can be generated out of order.
	ids := make([]string, config.Employees)
	for i := range ids {
		ids[i] = fmt.Sprintf("EMP-%04d", i+1)
	}

	type bundleResult struct {
		index  int
		bundle employeeBundle
		err    error
	}
	resultChan := make(chan bundleResult, config.Employees)

	// Use worker pool for bundle generation
	workerCount := minInt(runtime.NumCPU(), config.Employees)
	perWorker := config.Employees / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.Employees // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- bundleResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- bundleResult{index: i, bundle: generateEmployeeBundle(ids[i], config)}
				}
			}
		}(start, end)
	}

	// Collect results
	bundles := make([]employeeBundle, config.Employees)
	for i := 0; i < config.Employees; i++ {
		select {
		case <-ctx.Done():
			return storage.SeedOrg{}, nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return storage.SeedOrg{}, nil, fmt.Errorf("failed to generate employee %d: %w", result.index, result.err)
			}
			bundles[result.index] = result.bundle
		}
	}

	dataset := assembleDataset(config, bundles, stats)

	stats.EmployeesGenerated = len(dataset.Employees)
	logger.Get().Info(ctx, "generated dataset",
		logger.Int("employees", stats.EmployeesGenerated),
		logger.Int("cohort", stats.CohortSize),
		logger.Int("rows", stats.RowsSeeded))

	return org, dataset, nil
}

// assembleDataset flattens the bundles into one dataset and makes sure the
// evaluation year has a cohort to anchor the baselines on.
func assembleDataset(config *Config, bundles []employeeBundle, stats *Stats) *model.Dataset {
	cohort := 0
	for _, b := range bundles {
		if b.employee.CurrentRating == model.MaxRating {
			cohort++
		}
	}
	if cohort == 0 && len(bundles) > 0 {
		// A run aborts without at least one top-rated employee, so promote one.
		promoteToCohort(&bundles[0], config.Year)
		cohort = 1
	}
	stats.CohortSize = cohort

	dataset := &model.Dataset{EvaluationYear: config.Year}
	for _, b := range bundles {
		dataset.Employees = append(dataset.Employees, b.employee)
		dataset.Ratings = append(dataset.Ratings, b.ratings...)
		dataset.Competencies = append(dataset.Competencies, b.competencies...)
		dataset.Psychometrics = append(dataset.Psychometrics, b.psych)
		dataset.Themes = append(dataset.Themes, b.themes...)
	}

	stats.RowsSeeded = len(dataset.Employees) + len(dataset.Ratings) +
		len(dataset.Competencies) + len(dataset.Psychometrics) + len(dataset.Themes)

	return dataset
}

// promoteToCohort rewrites one bundle's evaluation-year rating to the top
// of the scale.
func promoteToCohort(b *employeeBundle, year int) {
	b.employee.CurrentRating = model.MaxRating
	for i := range b.ratings {
		if b.ratings[i].Year == year {
			b.ratings[i].Rating = model.MaxRating
		}
	}
}

// generateEmployeeBundle creates one employee with a full rating history,
// yearly competency scores, a psychometric profile and a ranked theme list.
func generateEmployeeBundle(id string, config *Config) employeeBundle {
	grade := grades[randomInt(len(grades))]

	bundle := employeeBundle{
		employee: model.Employee{
			ID:           id,
			FullName:     randomName(),
			Directorate:  directorates[randomInt(len(directorates))],
			Role:         roles[randomInt(len(roles))],
			Grade:        grade.Name,
			GradeTier:    grade.Tier,
			TenureMonths: tenureMin + randomInt(tenureSpan),
		},
		psych: model.PsychometricProfile{EmployeeID: id},
	}

	firstYear := config.Year - config.Years + 1
	for year := firstYear; year <= config.Year; year++ {
		rating := randomRating()
		bundle.ratings = append(bundle.ratings, model.PerformanceRating{
			EmployeeID: id,
			Year:       year,
			Rating:     rating,
		})
		for _, code := range model.PillarCodes {
			bundle.competencies = append(bundle.competencies, model.CompetencyRecord{
				EmployeeID: id,
				PillarCode: code,
				Year:       year,
				Score:      competencyScore(rating),
			})
		}
		if year == config.Year {
			bundle.employee.CurrentRating = rating
			bundle.psych = psychProfile(id, rating)
		}
	}

	for rank, theme := range pickThemes() {
		bundle.themes = append(bundle.themes, model.StrengthTheme{
			EmployeeID: id,
			Rank:       rank + 1,
			Theme:      theme,
		})
	}

	return bundle
}

// randomName draws a full name from the pools. Collisions are fine, names
// are display data only.
func randomName() string {
	return firstNames[randomInt(len(firstNames))] + " " + lastNames[randomInt(len(lastNames))]
}

// randomRating draws a yearly rating from the configured distribution.
func randomRating() int {
	roll := randomInt(percentDivisor)
	switch {
	case roll < ratingFiveCutoff:
		return 5
	case roll < ratingFourCutoff:
		return 4
	case roll < ratingThreeCutoff:
		return 3
	case roll < ratingTwoCutoff:
		return 2
	default:
		return 1
	}
}

// competencyScore draws a pillar score around the yearly rating on the 1..5
// integer scale.
func competencyScore(rating int) float64 {
	score := rating
	roll := randomInt(percentDivisor)
	switch {
	case roll < competencyDriftDown:
		score--
	case roll >= competencyDriftUp:
		score++
	}
	if score < 1 {
		score = 1
	}
	if score > model.MaxRating {
		score = model.MaxRating
	}
	return float64(score)
}

// psychProfile draws the three test scores. Each score leans on the
// evaluation-year rating and is occasionally missing, the way real intake
// data is.
func psychProfile(id string, rating int) model.PsychometricProfile {
	profile := model.PsychometricProfile{EmployeeID: id}
	if randomInt(percentDivisor) >= psychMissingChance {
		profile.Pauli = psychScore(rating, pauliMin, pauliSpan)
	}
	if randomInt(percentDivisor) >= psychMissingChance {
		profile.GTQ = psychScore(rating, gtqMin, gtqSpan)
	}
	if randomInt(percentDivisor) >= psychMissingChance {
		profile.IQ = psychScore(rating, iqMin, iqSpan)
	}
	return profile
}

// psychScore places a score inside [min, min+span): higher ratings push the
// draw toward the top of the band.
func psychScore(rating int, min, span float64) *float64 {
	fraction := float64(rating-1)/psychRatingDivisor + getRandomFloat()*psychRandomShare
	v := math.Round((min+fraction*span)*scorePrecision) / scorePrecision
	return &v
}

// pickThemes draws a ranked top-five theme list without repeats.
func pickThemes() []string {
	pool := make([]string, len(strengthThemes))
	copy(pool, strengthThemes)

	picked := make([]string, topThemeCount)
	for i := 0; i < topThemeCount; i++ {
		j := i + randomInt(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		picked[i] = pool[i]
	}
	return picked
}

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
