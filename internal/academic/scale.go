// Package academic holds the grade arithmetic: averages, credit progress,
// per-exam grade targets and graduation projections. Every function is pure;
// callers pass snapshots of exam records and settings and get values back.
package academic

import (
	"errors"
	"fmt"

	"github.com/pavelanni/unitracker/internal/model"
)

// ErrInvalidArgument is wrapped by ValidateRequest for caller-contract violations.
var ErrInvalidArgument = errors.New("invalid argument")

// Scale describes an institution's grading convention.
type Scale struct {
	MaxGrade        float64
	MinPassingGrade float64
	TargetScale     float64
}

// DefaultScale is the Italian convention: exams graded 18..30, degree on 110.
func DefaultScale() Scale {
	return Scale{MaxGrade: 30, MinPassingGrade: 18, TargetScale: 110}
}

// ScaleFromSettings builds a Scale from stored degree settings. Non-positive
// values fall back to the defaults.
func ScaleFromSettings(s model.Settings) Scale {
	sc := DefaultScale()
	if s.MaxGrade > 0 {
		sc.MaxGrade = float64(s.MaxGrade)
	}
	if s.PassThreshold > 0 {
		sc.MinPassingGrade = float64(s.PassThreshold)
	}
	return sc
}

// To110 converts an average on the exam scale to the degree scale. A zero
// MaxGrade is a caller error and yields Inf or NaN.
func (s Scale) To110(average float64) float64 {
	return average / s.MaxGrade * s.TargetScale
}

// FromTargetScale converts a degree-scale value (e.g. 100/110) to the exam scale.
func (s Scale) FromTargetScale(v float64) float64 {
	return v / s.TargetScale * s.MaxGrade
}

func (s Scale) clamp(grade float64) float64 {
	return min(s.MaxGrade, max(s.MinPassingGrade, grade))
}

// Validate checks the scale itself.
func (s Scale) Validate() error {
	if s.MaxGrade <= 0 {
		return fmt.Errorf("max grade %g must be positive: %w", s.MaxGrade, ErrInvalidArgument)
	}
	if s.MinPassingGrade <= 0 || s.MinPassingGrade > s.MaxGrade {
		return fmt.Errorf("passing grade %g must be in (0, %g]: %w", s.MinPassingGrade, s.MaxGrade, ErrInvalidArgument)
	}
	if s.TargetScale <= 0 {
		return fmt.Errorf("target scale %g must be positive: %w", s.TargetScale, ErrInvalidArgument)
	}
	return nil
}
