package academic

import "github.com/pavelanni/unitracker/internal/model"

// SimpleAverage is the mean grade over passed exams. It returns 0 when no
// exam has a grade.
func SimpleAverage(exams []model.Exam) float64 {
	var sum float64
	var n int
	for _, e := range exams {
		if !e.HasGrade() {
			continue
		}
		sum += *e.Grade
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// WeightedAverage is the credit-weighted mean grade over passed exams.
func WeightedAverage(exams []model.Exam) float64 {
	sum, credits := weightedSum(exams)
	if credits == 0 {
		return 0
	}
	return sum / float64(credits)
}

// weightedSum returns Σ(grade·credits) and Σcredits over graded passed exams.
func weightedSum(exams []model.Exam) (float64, int) {
	var sum float64
	var credits int
	for _, e := range exams {
		if !e.HasGrade() {
			continue
		}
		sum += *e.Grade * float64(e.Credits)
		credits += e.Credits
	}
	return sum, credits
}

// TotalCreditsEarned sums credits over passed exams, graded or not.
func TotalCreditsEarned(exams []model.Exam) int {
	var total int
	for _, e := range exams {
		if e.Status == model.StatusPassed {
			total += e.Credits
		}
	}
	return total
}

// RemainingCredits is the credits still needed to graduate, never negative.
func RemainingCredits(exams []model.Exam, totalRequired int) int {
	return max(0, totalRequired-TotalCreditsEarned(exams))
}

// ProgressPercentage is earned/total as a percentage clamped to [0, 100].
func ProgressPercentage(earned, totalRequired int) float64 {
	if totalRequired <= 0 {
		return 0
	}
	pct := float64(earned) / float64(totalRequired) * 100
	return min(100, max(0, pct))
}

// Summary aggregates the dashboard figures.
type Summary struct {
	Passed, Failed, Planned int

	SimpleAverage      float64
	WeightedAverage    float64
	SimpleAverage110   float64
	WeightedAverage110 float64

	CreditsEarned    int
	CreditsRequired  int
	CreditsRemaining int
	Progress         float64
}

// Summarize computes the dashboard figures for all exams.
func Summarize(exams []model.Exam, settings model.Settings) Summary {
	sc := ScaleFromSettings(settings)
	s := Summary{
		SimpleAverage:   SimpleAverage(exams),
		WeightedAverage: WeightedAverage(exams),
		CreditsEarned:   TotalCreditsEarned(exams),
		CreditsRequired: settings.TotalCredits,
	}
	for _, e := range exams {
		switch e.Status {
		case model.StatusPassed:
			s.Passed++
		case model.StatusFailed:
			s.Failed++
		case model.StatusPlanned:
			s.Planned++
		}
	}
	s.SimpleAverage110 = sc.To110(s.SimpleAverage)
	s.WeightedAverage110 = sc.To110(s.WeightedAverage)
	s.CreditsRemaining = RemainingCredits(exams, settings.TotalCredits)
	s.Progress = ProgressPercentage(s.CreditsEarned, settings.TotalCredits)
	return s
}
