package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/unitracker/internal/academic"
	"github.com/pavelanni/unitracker/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an HTML report of the career",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, _ *cobra.Command, _ []string) error {
			exams, err := a.db.ListExams("")
			if err != nil {
				return err
			}
			r, err := a.targetRequest()
			if err != nil {
				return err
			}
			plan, err := a.currentPlan(r)
			if err != nil {
				return err
			}
			now := time.Now()
			d := report.Data{
				Settings:    a.settings,
				Summary:     academic.Summarize(exams, a.settings),
				Exams:       exams,
				Planned:     r.planned,
				Passed:      r.passed,
				Plan:        plan,
				Target110:   r.target110,
				Scale:       r.scale,
				GeneratedAt: now,
			}
			if p, ok := academic.PredictCompletion(r.passed, r.planned, a.settings.TotalCredits, now); ok {
				d.Prediction = &p
			}
			return a.writeOutput(a.v.GetString("output"), func(w io.Writer) error {
				return report.Render(a.ctx, w, d)
			})
		}),
	}
	cmd.Flags().StringP("output", "o", "report.html", "Output file")
	targetFlags(cmd)
	return cmd
}
