package academic

import (
	"errors"
	"fmt"
	"math"

	"github.com/pavelanni/unitracker/internal/model"
)

// Origin tells whether a target grade was computed or pinned by the caller.
type Origin int

const (
	Computed Origin = iota
	Fixed
)

func (o Origin) String() string {
	if o == Fixed {
		return "fixed"
	}
	return "computed"
}

// Target is the grade a planned exam should get.
type Target struct {
	Value  float64
	Origin Origin
}

// Outcome records which branch of the solver produced a plan.
type Outcome int

const (
	// OutcomeEmpty means there were no planned exams.
	OutcomeEmpty Outcome = iota
	// OutcomeAllFixed means every planned exam was pinned; nothing was solved.
	OutcomeAllFixed
	// OutcomeSatisfied means passed and pinned exams already meet the target.
	// Adjustable exams carry the sentinel grade 0.
	OutcomeSatisfied
	// OutcomeUnreachable means even the maximum grade everywhere falls short.
	// Adjustable exams carry the maximum grade.
	OutcomeUnreachable
	// OutcomeAllocated means targets were distributed across adjustable exams.
	OutcomeAllocated
)

var outcomeNames = [...]string{"empty", "all_fixed", "satisfied", "unreachable", "allocated"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Plan maps planned exam IDs to their target grades.
type Plan struct {
	Targets map[int64]Target
	Outcome Outcome
}

// Fixed returns a copy of the pinned grades in the plan.
func (p Plan) Fixed() map[int64]float64 {
	out := make(map[int64]float64)
	for id, t := range p.Targets {
		if t.Origin == Fixed {
			out[id] = t.Value
		}
	}
	return out
}

// FixedCount is the number of pinned grades in the plan.
func (p Plan) FixedCount() int {
	n := 0
	for _, t := range p.Targets {
		if t.Origin == Fixed {
			n++
		}
	}
	return n
}

// PlanSummary describes what meeting every target would mean.
type PlanSummary struct {
	// RequiredAverage is the credit-weighted mean of the planned targets.
	RequiredAverage float64
	// Projected is the final weighted average if every target is met.
	Projected    float64
	Projected110 float64
}

// Summarize folds the plan's targets into the passed exams.
func (p Plan) Summarize(passed, planned []model.Exam, scale Scale) PlanSummary {
	var reqSum float64
	var reqCredits int
	for _, e := range planned {
		t, ok := p.Targets[e.ID]
		if !ok {
			continue
		}
		reqSum += t.Value * float64(e.Credits)
		reqCredits += e.Credits
	}
	var s PlanSummary
	if reqCredits > 0 {
		s.RequiredAverage = reqSum / float64(reqCredits)
	}
	curSum, curCredits := weightedSum(passed)
	if total := curCredits + reqCredits; total > 0 {
		s.Projected = (curSum + reqSum) / float64(total)
		s.Projected110 = scale.To110(s.Projected)
	}
	return s
}

type solveConfig struct {
	rebalance bool
}

// SolveOption tunes Solve.
type SolveOption func(*solveConfig)

// WithRebalance redistributes whatever clamping cuts off across the exams
// that did not hit a bound, so the target is met exactly when feasible.
func WithRebalance() SolveOption {
	return func(c *solveConfig) { c.rebalance = true }
}

// Solve computes a target grade for every planned exam so that the final
// weighted average reaches target (on the exam scale). Grades in fixed are
// taken as given; the rest are allocated inversely to credit weight, so
// lighter exams are asked for higher grades. Fixed IDs that are not planned
// exams are ignored.
func Solve(passed, planned []model.Exam, target float64, scale Scale, fixed map[int64]float64, opts ...SolveOption) Plan {
	var cfg solveConfig
	for _, o := range opts {
		o(&cfg)
	}

	plan := Plan{Targets: make(map[int64]Target, len(planned)), Outcome: OutcomeEmpty}
	if len(planned) == 0 {
		return plan
	}

	var adjustable []model.Exam
	var fixedSum float64
	var fixedCredits int
	for _, e := range planned {
		v, ok := fixed[e.ID]
		if !ok {
			adjustable = append(adjustable, e)
			continue
		}
		fixedSum += v * float64(e.Credits)
		fixedCredits += e.Credits
		plan.Targets[e.ID] = Target{Value: v, Origin: Fixed}
	}
	if len(adjustable) == 0 {
		plan.Outcome = OutcomeAllFixed
		return plan
	}

	currentSum, currentCredits := weightedSum(passed)
	adjustableCredits := sumCredits(adjustable)
	totalCredits := currentCredits + fixedCredits + adjustableCredits
	remaining := target*float64(totalCredits) - currentSum - fixedSum

	switch {
	case remaining <= 0:
		plan.Outcome = OutcomeSatisfied
		for _, e := range adjustable {
			plan.Targets[e.ID] = Target{Value: 0, Origin: Computed}
		}
	case remaining > scale.MaxGrade*float64(adjustableCredits):
		plan.Outcome = OutcomeUnreachable
		for _, e := range adjustable {
			plan.Targets[e.ID] = Target{Value: scale.MaxGrade, Origin: Computed}
		}
	default:
		plan.Outcome = OutcomeAllocated
		for id, g := range allocate(adjustable, remaining, scale, cfg.rebalance) {
			plan.Targets[id] = Target{Value: g, Origin: Computed}
		}
	}
	return plan
}

// allocate splits remaining (a weighted sum) across exams. Each exam gets
// base·factor where factor is 0.5 for the heaviest exam and 1.0 for the
// lightest. A single exam, or exams of equal weight, all get factor 1, which
// is an even split.
func allocate(exams []model.Exam, remaining float64, scale Scale, rebalance bool) map[int64]float64 {
	factors := difficultyFactors(exams)
	if rebalance {
		return fill(exams, factors, remaining, scale)
	}

	var denom float64
	for i, e := range exams {
		denom += factors[i] * float64(e.Credits)
	}
	base := remaining / denom

	out := make(map[int64]float64, len(exams))
	for i, e := range exams {
		out[e.ID] = scale.clamp(base * factors[i])
	}
	return out
}

func difficultyFactors(exams []model.Exam) []float64 {
	minC, maxC := exams[0].Credits, exams[0].Credits
	for _, e := range exams[1:] {
		minC = min(minC, e.Credits)
		maxC = max(maxC, e.Credits)
	}
	factors := make([]float64, len(exams))
	for i, e := range exams {
		if maxC == minC {
			factors[i] = 1
			continue
		}
		normalized := float64(maxC-e.Credits) / float64(maxC-minC)
		factors[i] = 0.5 + 0.5*normalized
	}
	return factors
}

// fill is allocate with redistribution: exams whose proportional grade
// crosses a bound are pinned to it and the leftover is spread over the rest.
// Upper bounds are resolved before lower ones so each pass moves the free
// exams in one direction only.
func fill(exams []model.Exam, factors []float64, remaining float64, scale Scale) map[int64]float64 {
	out := make(map[int64]float64, len(exams))
	free := make([]int, len(exams))
	for i := range exams {
		free[i] = i
	}
	budget := remaining

	for len(free) > 0 {
		var denom float64
		for _, i := range free {
			denom += factors[i] * float64(exams[i].Credits)
		}
		base := budget / denom

		over := false
		for _, i := range free {
			if base*factors[i] > scale.MaxGrade {
				over = true
				break
			}
		}

		var next []int
		for _, i := range free {
			g := base * factors[i]
			switch {
			case over && g > scale.MaxGrade:
				out[exams[i].ID] = scale.MaxGrade
				budget -= scale.MaxGrade * float64(exams[i].Credits)
			case !over && g < scale.MinPassingGrade:
				out[exams[i].ID] = scale.MinPassingGrade
				budget -= scale.MinPassingGrade * float64(exams[i].Credits)
			default:
				next = append(next, i)
			}
		}
		if len(next) == len(free) {
			for _, i := range free {
				out[exams[i].ID] = scale.clamp(base * factors[i])
			}
			break
		}
		free = next
	}
	return out
}

func sumCredits(exams []model.Exam) int {
	var n int
	for _, e := range exams {
		n += e.Credits
	}
	return n
}

// Refix pins examID to value and re-solves. Pins already in prior are kept,
// except a previous pin on examID itself, so fixing the same exam to the same
// value twice yields the same plan.
func Refix(passed, planned []model.Exam, target float64, examID int64, value float64, scale Scale, prior Plan, opts ...SolveOption) Plan {
	fixed := prior.Fixed()
	delete(fixed, examID)
	fixed[examID] = value
	return Solve(passed, planned, target, scale, fixed, opts...)
}

// Unfix drops the pin on examID and re-solves with the remaining pins.
func Unfix(passed, planned []model.Exam, target float64, examID int64, scale Scale, prior Plan, opts ...SolveOption) Plan {
	fixed := prior.Fixed()
	delete(fixed, examID)
	return Solve(passed, planned, target, scale, fixed, opts...)
}

// CustomAverage folds caller-chosen grades for planned exams into the
// passed exams' weighted average. Planned exams without a custom grade are
// left out. It returns the average on the exam scale and on the degree scale.
func CustomAverage(passed, planned []model.Exam, custom map[int64]float64, scale Scale) (float64, float64) {
	sum, credits := weightedSum(passed)
	for _, e := range planned {
		g, ok := custom[e.ID]
		if !ok {
			continue
		}
		sum += g * float64(e.Credits)
		credits += e.Credits
	}
	if credits == 0 {
		return 0, 0
	}
	avg := sum / float64(credits)
	return avg, scale.To110(avg)
}

// ValidateRequest checks a solve request for contract violations that
// Solve itself tolerates. All problems found are joined into one error.
func ValidateRequest(planned []model.Exam, target float64, scale Scale, fixed map[int64]float64) error {
	if err := scale.Validate(); err != nil {
		return err
	}
	var errs []error
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		errs = append(errs, fmt.Errorf("target average %g must be positive: %w", target, ErrInvalidArgument))
	}
	ids := make(map[int64]bool, len(planned))
	for _, e := range planned {
		ids[e.ID] = true
		if e.Credits <= 0 {
			errs = append(errs, fmt.Errorf("exam %d has %d credits: %w", e.ID, e.Credits, ErrInvalidArgument))
		}
	}
	for id, v := range fixed {
		if !ids[id] {
			errs = append(errs, fmt.Errorf("fixed grade for exam %d which is not planned: %w", id, ErrInvalidArgument))
		}
		if v < scale.MinPassingGrade || v > scale.MaxGrade {
			errs = append(errs, fmt.Errorf("fixed grade %g for exam %d outside [%g, %g]: %w",
				v, id, scale.MinPassingGrade, scale.MaxGrade, ErrInvalidArgument))
		}
	}
	return errors.Join(errs...)
}
