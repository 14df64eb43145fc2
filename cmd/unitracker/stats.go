package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/unitracker/internal/academic"
	appI18n "github.com/pavelanni/unitracker/internal/i18n"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show averages and credit progress",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			exams, err := a.db.ListExams("")
			if err != nil {
				return err
			}
			s := academic.Summarize(exams, a.settings)
			if a.v.GetBool("json") {
				return a.writeJSON(s)
			}

			a.say("StatsTitle", map[string]any{"Degree": a.settings.DegreeName})
			tw := a.table()
			rows := []struct{ k, v string }{
				{"StatsPassed", fmt.Sprint(s.Passed)},
				{"StatsFailed", fmt.Sprint(s.Failed)},
				{"StatsPlanned", fmt.Sprint(s.Planned)},
				{"StatsSimpleAverage", a.num(s.SimpleAverage) + " (" + a.num(s.SimpleAverage110) + "/110)"},
				{"StatsWeightedAverage", a.num(s.WeightedAverage) + " (" + a.num(s.WeightedAverage110) + "/110)"},
				{"StatsCredits", fmt.Sprintf("%d / %d", s.CreditsEarned, s.CreditsRequired)},
				{"StatsRemaining", fmt.Sprint(s.CreditsRemaining)},
				{"StatsProgress", appI18n.Num(a.ctx, s.Progress, 1) + "%"},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s:\t%s\n", appI18n.T(a.ctx, r.k), r.v)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate when the degree will be completed",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			passed, err := a.db.PassedExams()
			if err != nil {
				return err
			}
			planned, err := a.db.PlannedExams()
			if err != nil {
				return err
			}
			p, ok := academic.PredictCompletion(passed, planned, a.settings.TotalCredits, time.Now())
			if !ok {
				a.say("PredictNoData", nil)
				return nil
			}
			if a.v.GetBool("json") {
				return a.writeJSON(p)
			}

			a.say("PredictCompletion", map[string]any{
				"Date":   p.EstimatedCompletion.Format("02/01/2006"),
				"Months": appI18n.Num(a.ctx, p.MonthsRemaining, 1),
			})
			a.say("PredictPace", map[string]any{
				"Credits": appI18n.Num(a.ctx, p.PacePerMonth, 1),
				"Exams":   appI18n.Num(a.ctx, p.ExamsPerMonth, 1),
			})
			a.say("PredictNeeded", map[string]any{"Credits": p.CreditsNeeded, "Exams": p.ExamsNeeded})

			tw := a.table()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				appI18n.T(a.ctx, "ColScenario"), appI18n.T(a.ctx, "ColExamsPerMonth"),
				appI18n.T(a.ctx, "ColMonths"), appI18n.T(a.ctx, "ColDate"))
			for _, sc := range p.Scenarios {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
					appI18n.T(a.ctx, "Scenario_"+sc.Name), sc.ExamsPerMonth,
					appI18n.Num(a.ctx, sc.MonthsRemaining, 1), sc.EstimatedCompletion.Format("02/01/2006"))
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
