package academic

import (
	"math"
	"testing"

	"github.com/pavelanni/unitracker/internal/model"
)

func grade(v float64) *float64 { return &v }

func passedExam(id int64, credits int, g float64) model.Exam {
	return model.Exam{ID: id, Name: "passed", Credits: credits, Grade: grade(g), Status: model.StatusPassed}
}

func plannedExam(id int64, credits int) model.Exam {
	return model.Exam{ID: id, Name: "planned", Credits: credits, Status: model.StatusPlanned}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAveragesEmpty(t *testing.T) {
	if got := SimpleAverage(nil); got != 0 {
		t.Errorf("SimpleAverage(nil) = %v, want 0", got)
	}
	if got := WeightedAverage(nil); got != 0 {
		t.Errorf("WeightedAverage(nil) = %v, want 0", got)
	}

	// Only failed and planned exams: nothing to average.
	exams := []model.Exam{
		{ID: 1, Credits: 6, Status: model.StatusFailed},
		plannedExam(2, 9),
	}
	if got := SimpleAverage(exams); got != 0 {
		t.Errorf("SimpleAverage = %v, want 0", got)
	}
	if got := WeightedAverage(exams); got != 0 {
		t.Errorf("WeightedAverage = %v, want 0", got)
	}
}

func TestAverages(t *testing.T) {
	exams := []model.Exam{
		passedExam(1, 6, 27),
		passedExam(2, 9, 30),
		passedExam(3, 6, 24),
		{ID: 4, Credits: 12, Status: model.StatusFailed},
		// A passed exam without a grade is skipped by both averages.
		{ID: 5, Credits: 6, Status: model.StatusPassed},
		// A stray grade on a planned exam is ignored.
		{ID: 6, Credits: 6, Status: model.StatusPlanned, Grade: grade(18)},
	}

	if got, want := SimpleAverage(exams), 27.0; !approx(got, want) {
		t.Errorf("SimpleAverage = %v, want %v", got, want)
	}
	if got, want := WeightedAverage(exams), 576.0/21.0; !approx(got, want) {
		t.Errorf("WeightedAverage = %v, want %v", got, want)
	}
}

func TestUniformCreditsAveragesMatch(t *testing.T) {
	tests := []struct {
		name   string
		grades []float64
	}{
		{"single", []float64{25}},
		{"pair", []float64{18, 30}},
		{"many", []float64{18, 21, 24, 27, 30, 28, 19}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exams []model.Exam
			for i, g := range tt.grades {
				exams = append(exams, passedExam(int64(i+1), 6, g))
			}
			s, w := SimpleAverage(exams), WeightedAverage(exams)
			if !approx(s, w) {
				t.Errorf("simple %v != weighted %v", s, w)
			}
		})
	}
}

func TestScaleConversion(t *testing.T) {
	sc := DefaultScale()
	if got := sc.To110(30); !approx(got, 110) {
		t.Errorf("To110(30) = %v, want 110", got)
	}
	if got := sc.To110(27); !approx(got, 99) {
		t.Errorf("To110(27) = %v, want 99", got)
	}
	if got := sc.FromTargetScale(110); !approx(got, 30) {
		t.Errorf("FromTargetScale(110) = %v, want 30", got)
	}
	if got := sc.FromTargetScale(sc.To110(26.5)); !approx(got, 26.5) {
		t.Errorf("round trip = %v, want 26.5", got)
	}

	// A zero max grade is not guarded against.
	zero := Scale{MaxGrade: 0, TargetScale: 110}
	if got := zero.To110(25); !math.IsInf(got, 1) {
		t.Errorf("To110 with zero max = %v, want +Inf", got)
	}
}

func TestScaleFromSettings(t *testing.T) {
	sc := ScaleFromSettings(model.Settings{MaxGrade: 10, PassThreshold: 6})
	if sc.MaxGrade != 10 || sc.MinPassingGrade != 6 || sc.TargetScale != 110 {
		t.Errorf("unexpected scale %+v", sc)
	}
	sc = ScaleFromSettings(model.Settings{})
	if sc != DefaultScale() {
		t.Errorf("empty settings should give default scale, got %+v", sc)
	}
}

func TestCredits(t *testing.T) {
	exams := []model.Exam{
		passedExam(1, 6, 27),
		passedExam(2, 9, 30),
		{ID: 3, Credits: 12, Status: model.StatusFailed},
		plannedExam(4, 6),
	}
	if got := TotalCreditsEarned(exams); got != 15 {
		t.Errorf("TotalCreditsEarned = %d, want 15", got)
	}

	tests := []struct {
		total int
		want  int
	}{
		{180, 165},
		{15, 0},
		{10, 0},
		{0, 0},
		{-50, 0},
	}
	for _, tt := range tests {
		if got := RemainingCredits(exams, tt.total); got != tt.want {
			t.Errorf("RemainingCredits(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name          string
		earned, total int
		want          float64
	}{
		{"half", 90, 180, 50},
		{"none", 0, 180, 0},
		{"complete", 180, 180, 100},
		{"over", 200, 180, 100},
		{"negative earned", -10, 180, 0},
		{"zero total", 50, 0, 0},
		{"negative total", 50, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressPercentage(tt.earned, tt.total)
			if !approx(got, tt.want) {
				t.Errorf("ProgressPercentage(%d, %d) = %v, want %v", tt.earned, tt.total, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("ProgressPercentage out of range: %v", got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	exams := []model.Exam{
		passedExam(1, 6, 30),
		passedExam(2, 6, 24),
		{ID: 3, Credits: 9, Status: model.StatusFailed},
		plannedExam(4, 12),
	}
	s := Summarize(exams, model.DefaultSettings())
	if s.Passed != 2 || s.Failed != 1 || s.Planned != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", s.Passed, s.Failed, s.Planned)
	}
	if !approx(s.WeightedAverage, 27) || !approx(s.WeightedAverage110, 99) {
		t.Errorf("weighted = %v (%v/110), want 27 (99/110)", s.WeightedAverage, s.WeightedAverage110)
	}
	if s.CreditsEarned != 12 || s.CreditsRemaining != 168 || s.CreditsRequired != 180 {
		t.Errorf("credits = %d/%d/%d", s.CreditsEarned, s.CreditsRemaining, s.CreditsRequired)
	}
	if !approx(s.Progress, 12.0/180*100) {
		t.Errorf("progress = %v", s.Progress)
	}
}
