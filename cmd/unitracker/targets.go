package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pavelanni/unitracker/internal/academic"
	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
)

func targetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Compute the grades needed on planned exams",
		Args:  cobra.NoArgs,
		RunE:  withApp(runTargetsShow),
	}
	targetFlags(cmd)

	show := &cobra.Command{
		Use:   "show",
		Short: "Show grade targets (default)",
		Args:  cobra.NoArgs,
		RunE:  withApp(runTargetsShow),
	}
	targetFlags(show)

	fix := &cobra.Command{
		Use:   "fix ID GRADE",
		Short: "Pin the grade of a planned exam and re-solve the others",
		Args:  cobra.ExactArgs(2),
		RunE:  withApp(runTargetsFix),
	}
	targetFlags(fix)

	unfix := &cobra.Command{
		Use:   "unfix ID",
		Short: "Release a pinned grade",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runTargetsUnfix),
	}
	targetFlags(unfix)

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Release every pinned grade",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			if err := a.db.ClearPins(); err != nil {
				return err
			}
			a.say("PinsCleared", nil)
			return nil
		}),
	}

	manual := &cobra.Command{
		Use:   "manual ID=GRADE...",
		Short: "Average obtained with hand-picked grades for planned exams",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(runTargetsManual),
	}

	cmd.AddCommand(show, fix, unfix, reset, manual)
	return cmd
}

func targetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64P("target", "t", 0, "Target final average on the 110 scale (default from settings)")
	f.Bool("rebalance", false, "Spread what clamping cuts off over the other exams")
}

// targetRequest collects what the solver needs from the store.
type targetRequest struct {
	passed, planned []model.Exam
	target          float64
	target110       float64
	scale           academic.Scale
	opts            []academic.SolveOption
}

func (a *app) targetRequest() (targetRequest, error) {
	var r targetRequest
	var err error
	if r.passed, err = a.db.PassedExams(); err != nil {
		return r, err
	}
	if r.planned, err = a.db.PlannedExams(); err != nil {
		return r, err
	}
	r.scale = academic.ScaleFromSettings(a.settings)
	r.target110 = a.settings.TargetAverage
	if t := a.v.GetFloat64("target"); t > 0 {
		r.target110 = t
	}
	r.target = r.scale.FromTargetScale(r.target110)
	if a.v.GetBool("rebalance") {
		r.opts = append(r.opts, academic.WithRebalance())
	}
	return r, nil
}

// currentPlan solves with the stored pins, dropping pins whose exam is no
// longer planned.
func (a *app) currentPlan(r targetRequest) (academic.Plan, error) {
	pins, err := a.db.ListPins()
	if err != nil {
		return academic.Plan{}, err
	}
	plan := academic.Solve(r.passed, r.planned, r.target, r.scale, pins, r.opts...)
	if len(plan.Fixed()) != len(pins) {
		if err := a.db.ReplacePins(plan.Fixed()); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

func runTargetsShow(a *app, _ *cobra.Command, _ []string) error {
	r, err := a.targetRequest()
	if err != nil {
		return err
	}
	plan, err := a.currentPlan(r)
	if err != nil {
		return err
	}
	return a.printPlan(r, plan)
}

func runTargetsFix(a *app, _ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	grade, err := strconv.ParseFloat(strings.Replace(args[1], ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("invalid grade %q", args[1])
	}
	r, err := a.targetRequest()
	if err != nil {
		return err
	}
	prior, err := a.currentPlan(r)
	if err != nil {
		return err
	}
	fixed := prior.Fixed()
	fixed[id] = grade
	if err := academic.ValidateRequest(r.planned, r.target, r.scale, fixed); err != nil {
		return err
	}
	plan := academic.Refix(r.passed, r.planned, r.target, id, grade, r.scale, prior, r.opts...)
	if err := a.db.ReplacePins(plan.Fixed()); err != nil {
		return err
	}
	a.say("PinSaved", map[string]any{"ID": id, "Grade": a.num(grade)})
	return a.printPlan(r, plan)
}

func runTargetsUnfix(a *app, _ *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	r, err := a.targetRequest()
	if err != nil {
		return err
	}
	prior, err := a.currentPlan(r)
	if err != nil {
		return err
	}
	plan := academic.Unfix(r.passed, r.planned, r.target, id, r.scale, prior, r.opts...)
	if err := a.db.ReplacePins(plan.Fixed()); err != nil {
		return err
	}
	a.say("PinRemoved", map[string]any{"ID": id})
	return a.printPlan(r, plan)
}

func runTargetsManual(a *app, _ *cobra.Command, args []string) error {
	r, err := a.targetRequest()
	if err != nil {
		return err
	}
	custom := make(map[int64]float64, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected ID=GRADE, got %q", arg)
		}
		id, err := parseID(k)
		if err != nil {
			return err
		}
		g, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil {
			return fmt.Errorf("invalid grade %q", v)
		}
		custom[id] = g
	}
	if err := academic.ValidateRequest(r.planned, r.target, r.scale, custom); err != nil {
		return err
	}
	avg, avg110 := academic.CustomAverage(r.passed, r.planned, custom, r.scale)
	a.say("ManualAverage", map[string]any{"Avg": a.num(avg), "Avg110": a.num(avg110)})
	return nil
}

func (a *app) printPlan(r targetRequest, plan academic.Plan) error {
	a.say("TargetsTitle", map[string]any{"Target": a.num(r.target110), "Grade": a.num(r.target)})
	switch plan.Outcome {
	case academic.OutcomeEmpty:
		a.say("TargetsEmpty", nil)
		return nil
	case academic.OutcomeAllFixed:
		a.say("TargetsAllFixed", nil)
	case academic.OutcomeSatisfied:
		a.say("TargetsSatisfied", nil)
	case academic.OutcomeUnreachable:
		a.say("TargetsUnreachable", nil)
	}

	tw := a.table()
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		appI18n.T(a.ctx, "ColID"), appI18n.T(a.ctx, "ColName"), appI18n.T(a.ctx, "ColCredits"),
		appI18n.T(a.ctx, "ColTarget"), appI18n.T(a.ctx, "ColOrigin"))
	for _, e := range r.planned {
		t := plan.Targets[e.ID]
		value := a.num(t.Value)
		if plan.Outcome == academic.OutcomeSatisfied && t.Origin == academic.Computed {
			value = "-"
		}
		origin := appI18n.T(a.ctx, "OriginComputed")
		if t.Origin == academic.Fixed {
			origin = appI18n.T(a.ctx, "OriginFixed")
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", e.ID, e.Name, e.Credits, value, origin)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if plan.Outcome == academic.OutcomeSatisfied {
		return nil
	}
	sum := plan.Summarize(r.passed, r.planned, r.scale)
	a.say("RequiredAverage", map[string]any{"Avg": a.num(sum.RequiredAverage)})
	a.say("ProjectedAverage", map[string]any{"Avg": a.num(sum.Projected), "Avg110": a.num(sum.Projected110)})
	return nil
}
