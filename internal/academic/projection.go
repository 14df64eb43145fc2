package academic

import (
	"math"
	"sort"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

const (
	daysPerMonth = 30.44
	// minPace keeps paces and durations away from zero.
	minPace = 0.1
	// defaultCreditsPerExam is used when there is no exam to average over.
	defaultCreditsPerExam = 6.0
)

// Scenario is a completion estimate under a hypothetical exam rate.
type Scenario struct {
	Name                string    `json:"name"`
	ExamsPerMonth       int       `json:"exams_per_month"`
	MonthsRemaining     float64   `json:"months_remaining"`
	EstimatedCompletion time.Time `json:"estimated_completion_date"`
}

// Prediction estimates when the degree will be completed at the current pace.
type Prediction struct {
	EstimatedCompletion time.Time  `json:"estimated_completion_date"`
	MonthsRemaining     float64    `json:"months_remaining"`
	PacePerMonth        float64    `json:"pace_per_month"`
	ExamsPerMonth       float64    `json:"exams_per_month"`
	CreditsNeeded       int        `json:"credits_needed"`
	ExamsNeeded         int        `json:"exams_needed"`
	Scenarios           []Scenario `json:"scenarios"`
}

var scenarioPaces = []struct {
	name  string
	exams int
}{
	{"slow", 1},
	{"medium", 2},
	{"fast", 3},
}

// PredictCompletion projects a graduation date from the pace of dated passed
// exams, measured from the first one up to now. It reports false when no
// passed exam carries a date.
func PredictCompletion(passed, planned []model.Exam, totalRequired int, now time.Time) (Prediction, bool) {
	var dated []time.Time
	for _, e := range passed {
		if e.Status == model.StatusPassed && e.Date != nil {
			dated = append(dated, *e.Date)
		}
	}
	if len(dated) == 0 {
		return Prediction{}, false
	}
	sort.Slice(dated, func(i, j int) bool { return dated[i].Before(dated[j]) })

	days := math.Floor(calendarDay(now).Sub(calendarDay(dated[0])).Hours() / 24)
	durationMonths := max(days, 1) / daysPerMonth
	durationMonths = max(durationMonths, minPace)

	earned := TotalCreditsEarned(passed)
	needed := RemainingCredits(passed, totalRequired)
	passedCount := countStatus(passed, model.StatusPassed)

	creditsPerMonth := float64(earned) / durationMonths
	examsPerMonth := float64(passedCount) / durationMonths
	months := float64(needed) / max(creditsPerMonth, minPace)

	p := Prediction{
		EstimatedCompletion: addMonths(now, months),
		MonthsRemaining:     round1(months),
		PacePerMonth:        round1(creditsPerMonth),
		ExamsPerMonth:       round1(examsPerMonth),
		CreditsNeeded:       needed,
		ExamsNeeded:         len(planned),
	}

	perExam := averageCreditsPerExam(passed, planned)
	for _, sp := range scenarioPaces {
		m := float64(needed) / max(perExam*float64(sp.exams), minPace)
		p.Scenarios = append(p.Scenarios, Scenario{
			Name:                sp.name,
			ExamsPerMonth:       sp.exams,
			MonthsRemaining:     round1(m),
			EstimatedCompletion: addMonths(now, m),
		})
	}
	return p, true
}

// averageCreditsPerExam prefers planned exams, then passed ones, then a
// typical 6-credit course.
func averageCreditsPerExam(passed, planned []model.Exam) float64 {
	if len(planned) > 0 {
		return float64(sumCredits(planned)) / float64(len(planned))
	}
	if n := countStatus(passed, model.StatusPassed); n > 0 {
		return float64(TotalCreditsEarned(passed)) / float64(n)
	}
	return defaultCreditsPerExam
}

func countStatus(exams []model.Exam, status model.ExamStatus) int {
	n := 0
	for _, e := range exams {
		if e.Status == status {
			n++
		}
	}
	return n
}

// calendarDay drops the clock and zone from t, keeping the date as read in
// t's own location. Stored exam dates are zone-less.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func addMonths(now time.Time, months float64) time.Time {
	return now.AddDate(0, 0, int(math.Round(months*daysPerMonth)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
