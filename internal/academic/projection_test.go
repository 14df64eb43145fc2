package academic

import (
	"math"
	"testing"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

var refNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func datedExam(id int64, credits int, g float64, d time.Time) model.Exam {
	e := passedExam(id, credits, g)
	e.Date = &d
	return e
}

func TestPredictCompletionNoDates(t *testing.T) {
	tests := []struct {
		name   string
		passed []model.Exam
	}{
		{"no exams", nil},
		{"undated passed", []model.Exam{passedExam(1, 6, 27)}},
		{"only failed dated", func() []model.Exam {
			d := refNow.AddDate(0, -3, 0)
			return []model.Exam{{ID: 1, Credits: 6, Status: model.StatusFailed, Date: &d}}
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := PredictCompletion(tt.passed, nil, 180, refNow); ok {
				t.Error("expected no prediction")
			}
		})
	}
}

func TestPredictCompletionSameDay(t *testing.T) {
	passed := []model.Exam{datedExam(1, 6, 28, refNow)}

	p, ok := PredictCompletion(passed, nil, 180, refNow)
	if !ok {
		t.Fatal("expected a prediction")
	}
	// Duration floors at 0.1 months, so pace is 60 credits a month.
	if !approx(p.PacePerMonth, 60) {
		t.Errorf("pace = %v, want 60", p.PacePerMonth)
	}
	if !approx(p.MonthsRemaining, 2.9) {
		t.Errorf("months = %v, want 2.9", p.MonthsRemaining)
	}
	if want := refNow.AddDate(0, 0, 88); !p.EstimatedCompletion.Equal(want) {
		t.Errorf("completion = %v, want %v", p.EstimatedCompletion, want)
	}
	if p.CreditsNeeded != 174 {
		t.Errorf("credits needed = %d, want 174", p.CreditsNeeded)
	}
}

func TestPredictCompletionCountsCalendarDays(t *testing.T) {
	// 01:30 on 17 October in UTC+2 is still 16 October in UTC.
	rome := time.FixedZone("CEST", 2*60*60)
	earlyMorning := time.Date(2026, 10, 17, 1, 30, 0, 0, rome)
	noonUTC := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	passed := []model.Exam{datedExam(1, 6, 28, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC))}

	local, ok := PredictCompletion(passed, nil, 180, earlyMorning)
	if !ok {
		t.Fatal("expected a prediction")
	}
	utc, _ := PredictCompletion(passed, nil, 180, noonUTC)
	// Seven days: 6 credits over 7/30.44 months.
	if !approx(local.PacePerMonth, 26.1) {
		t.Errorf("pace = %v, want 26.1", local.PacePerMonth)
	}
	if local.PacePerMonth != utc.PacePerMonth || local.MonthsRemaining != utc.MonthsRemaining {
		t.Errorf("local %+v differs from UTC %+v", local, utc)
	}
}

func TestPredictCompletionZeroCredits(t *testing.T) {
	passed := []model.Exam{datedExam(1, 0, 25, refNow.AddDate(-1, 0, 0))}

	p, ok := PredictCompletion(passed, nil, 180, refNow)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if math.IsInf(p.MonthsRemaining, 0) || math.IsNaN(p.MonthsRemaining) {
		t.Fatalf("months = %v, want finite", p.MonthsRemaining)
	}
	if !approx(p.MonthsRemaining, 1800) {
		t.Errorf("months = %v, want 1800", p.MonthsRemaining)
	}
	if !p.EstimatedCompletion.After(refNow) {
		t.Errorf("completion %v should be after now", p.EstimatedCompletion)
	}
}

func TestPredictCompletionPace(t *testing.T) {
	first := refNow.AddDate(0, 0, -365)
	passed := []model.Exam{
		datedExam(1, 12, 27, first),
		datedExam(2, 12, 30, first.AddDate(0, 4, 0)),
		datedExam(3, 12, 24, first.AddDate(0, 8, 0)),
		// Undated exams still count towards earned credits.
		passedExam(4, 0, 26),
	}
	planned := []model.Exam{plannedExam(5, 6), plannedExam(6, 12)}

	p, ok := PredictCompletion(passed, planned, 180, refNow)
	if !ok {
		t.Fatal("expected a prediction")
	}

	duration := 365 / daysPerMonth
	pace := 36 / duration
	months := 144 / pace
	if !approx(p.PacePerMonth, math.Round(pace*10)/10) {
		t.Errorf("pace = %v, want %.1f", p.PacePerMonth, pace)
	}
	if !approx(p.MonthsRemaining, math.Round(months*10)/10) {
		t.Errorf("months = %v, want %.1f", p.MonthsRemaining, months)
	}
	wantDate := refNow.AddDate(0, 0, int(math.Round(months*daysPerMonth)))
	if !p.EstimatedCompletion.Equal(wantDate) {
		t.Errorf("completion = %v, want %v", p.EstimatedCompletion, wantDate)
	}
	if p.ExamsNeeded != 2 {
		t.Errorf("exams needed = %d, want 2", p.ExamsNeeded)
	}

	// Nine credits per planned exam.
	wantScenarios := []struct {
		name   string
		months float64
		days   int
	}{
		{"slow", 16, 487},
		{"medium", 8, 244},
		{"fast", 5.3, 162},
	}
	if len(p.Scenarios) != len(wantScenarios) {
		t.Fatalf("got %d scenarios, want %d", len(p.Scenarios), len(wantScenarios))
	}
	for i, w := range wantScenarios {
		s := p.Scenarios[i]
		if s.Name != w.name || s.ExamsPerMonth != i+1 {
			t.Errorf("scenario %d = %s/%d", i, s.Name, s.ExamsPerMonth)
		}
		if !approx(s.MonthsRemaining, w.months) {
			t.Errorf("%s months = %v, want %v", w.name, s.MonthsRemaining, w.months)
		}
		if want := refNow.AddDate(0, 0, w.days); !s.EstimatedCompletion.Equal(want) {
			t.Errorf("%s completion = %v, want %v", w.name, s.EstimatedCompletion, want)
		}
	}
}

func TestPredictCompletionFasterPaceFinishesSooner(t *testing.T) {
	first := refNow.AddDate(0, -6, 0)
	slow := []model.Exam{datedExam(1, 12, 27, first)}
	fast := []model.Exam{datedExam(1, 12, 27, first), datedExam(2, 12, 28, first.AddDate(0, 1, 0))}

	ps, _ := PredictCompletion(slow, nil, 180, refNow)
	pf, _ := PredictCompletion(fast, nil, 180, refNow)
	if !pf.EstimatedCompletion.Before(ps.EstimatedCompletion) {
		t.Errorf("fast %v should finish before slow %v", pf.EstimatedCompletion, ps.EstimatedCompletion)
	}
}

func TestPredictCompletionDone(t *testing.T) {
	passed := []model.Exam{datedExam(1, 180, 30, refNow.AddDate(-3, 0, 0))}

	p, ok := PredictCompletion(passed, nil, 120, refNow)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if p.CreditsNeeded != 0 || p.MonthsRemaining != 0 {
		t.Errorf("needed %d over %v months, want 0", p.CreditsNeeded, p.MonthsRemaining)
	}
	if !p.EstimatedCompletion.Equal(refNow) {
		t.Errorf("completion = %v, want now", p.EstimatedCompletion)
	}
}

func TestAverageCreditsPerExam(t *testing.T) {
	tests := []struct {
		name            string
		passed, planned []model.Exam
		want            float64
	}{
		{"planned first", []model.Exam{passedExam(1, 12, 27)}, []model.Exam{plannedExam(2, 6), plannedExam(3, 9)}, 7.5},
		{"passed fallback", []model.Exam{passedExam(1, 12, 27), passedExam(2, 6, 30)}, nil, 9},
		{"default", nil, nil, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := averageCreditsPerExam(tt.passed, tt.planned); !approx(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
