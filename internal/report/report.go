// Package report renders a career as a self-contained HTML page.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/pavelanni/unitracker/internal/academic"
	"github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
)

// Data is everything the report shows.
type Data struct {
	Settings    model.Settings
	Summary     academic.Summary
	Exams       []model.Exam
	Planned     []model.Exam
	Passed      []model.Exam
	Plan        academic.Plan
	Target110   float64
	Scale       academic.Scale
	Prediction  *academic.Prediction
	GeneratedAt time.Time
}

// Render writes the report page to w in the context language.
func Render(ctx context.Context, w io.Writer, d Data) error {
	return Page(d).Render(ctx, w)
}

// Page is the whole HTML document.
func Page(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="`, i18n.Lang(ctx).String(), `"><head><meta charset="utf-8"><title>`)
		p.text(d.Settings.DegreeName)
		p.raw(`</title><style>`, style, `</style></head><body><header><h1>`)
		p.text(d.Settings.DegreeName)
		p.raw(`</h1><p class="muted">`)
		p.text(i18n.Td(ctx, "ReportGenerated", map[string]any{"Date": d.GeneratedAt.Format("02/01/2006 15:04")}))
		p.raw(`</p></header>`)
		if p.err != nil {
			return p.err
		}
		for _, c := range []templ.Component{
			statsSection(d),
			targetsSection(d),
			predictionSection(d),
			examsSection(d),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		p.raw(`</body></html>`)
		return p.err
	})
}

func statsSection(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := d.Summary
		p := &printer{w: w}
		p.raw(`<section id="stats"><h2>`)
		p.text(i18n.T(ctx, "ReportStats"))
		p.raw(`</h2><dl>`)
		stat := func(label, value string) {
			p.raw(`<dt>`)
			p.text(i18n.T(ctx, label))
			p.raw(`</dt><dd>`)
			p.text(value)
			p.raw(`</dd>`)
		}
		stat("StatsPassed", fmt.Sprint(s.Passed))
		stat("StatsFailed", fmt.Sprint(s.Failed))
		stat("StatsPlanned", fmt.Sprint(s.Planned))
		stat("StatsSimpleAverage", i18n.Num(ctx, s.SimpleAverage, 2)+" ("+i18n.Num(ctx, s.SimpleAverage110, 2)+"/110)")
		stat("StatsWeightedAverage", i18n.Num(ctx, s.WeightedAverage, 2)+" ("+i18n.Num(ctx, s.WeightedAverage110, 2)+"/110)")
		stat("StatsCredits", fmt.Sprintf("%d / %d", s.CreditsEarned, s.CreditsRequired))
		p.raw(`</dl><div class="progress"><div class="bar" style="width:`, fmt.Sprintf("%.1f", s.Progress), `%"></div></div><p>`)
		p.text(i18n.Num(ctx, s.Progress, 1) + "%")
		p.raw(`</p></section>`)
		return p.err
	})
}

func targetsSection(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<section id="targets"><h2>`)
		p.text(i18n.Td(ctx, "TargetsTitle", map[string]any{
			"Target": i18n.Num(ctx, d.Target110, 2),
			"Grade":  i18n.Num(ctx, d.Scale.FromTargetScale(d.Target110), 2),
		}))
		p.raw(`</h2>`)
		if note := outcomeMessage(d.Plan.Outcome); note != "" {
			p.raw(`<p class="note `, d.Plan.Outcome.String(), `">`)
			p.text(i18n.T(ctx, note))
			p.raw(`</p>`)
		}
		if len(d.Planned) == 0 {
			p.raw(`</section>`)
			return p.err
		}
		p.raw(`<table><thead><tr>`)
		for _, h := range []string{"ColName", "ColCredits", "ColTarget", "ColOrigin"} {
			p.raw(`<th>`)
			p.text(i18n.T(ctx, h))
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, e := range d.Planned {
			t := d.Plan.Targets[e.ID]
			class, origin := "computed", i18n.T(ctx, "OriginComputed")
			if t.Origin == academic.Fixed {
				class, origin = "fixed", i18n.T(ctx, "OriginFixed")
			}
			value := i18n.Num(ctx, t.Value, 2)
			if d.Plan.Outcome == academic.OutcomeSatisfied && t.Origin == academic.Computed {
				value = "-"
			}
			p.raw(`<tr class="`, class, `"><td>`)
			p.text(e.Name)
			p.raw(`</td><td>`, fmt.Sprint(e.Credits), `</td><td>`)
			p.text(value)
			p.raw(`</td><td>`)
			p.text(origin)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table>`)
		if d.Plan.Outcome != academic.OutcomeSatisfied && d.Plan.Outcome != academic.OutcomeEmpty {
			sum := d.Plan.Summarize(d.Passed, d.Planned, d.Scale)
			p.raw(`<p>`)
			p.text(i18n.Td(ctx, "ProjectedAverage", map[string]any{
				"Avg":    i18n.Num(ctx, sum.Projected, 2),
				"Avg110": i18n.Num(ctx, sum.Projected110, 2),
			}))
			p.raw(`</p>`)
		}
		p.raw(`</section>`)
		return p.err
	})
}

func outcomeMessage(o academic.Outcome) string {
	switch o {
	case academic.OutcomeEmpty:
		return "TargetsEmpty"
	case academic.OutcomeAllFixed:
		return "TargetsAllFixed"
	case academic.OutcomeSatisfied:
		return "TargetsSatisfied"
	case academic.OutcomeUnreachable:
		return "TargetsUnreachable"
	}
	return ""
}

func predictionSection(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<section id="prediction"><h2>`)
		p.text(i18n.T(ctx, "ReportPrediction"))
		p.raw(`</h2>`)
		pr := d.Prediction
		if pr == nil {
			p.raw(`<p>`)
			p.text(i18n.T(ctx, "PredictNoData"))
			p.raw(`</p></section>`)
			return p.err
		}
		p.raw(`<p>`)
		p.text(i18n.Td(ctx, "PredictCompletion", map[string]any{
			"Date":   pr.EstimatedCompletion.Format("02/01/2006"),
			"Months": i18n.Num(ctx, pr.MonthsRemaining, 1),
		}))
		p.raw(`</p><table><thead><tr>`)
		for _, h := range []string{"ColScenario", "ColExamsPerMonth", "ColMonths", "ColDate"} {
			p.raw(`<th>`)
			p.text(i18n.T(ctx, h))
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, sc := range pr.Scenarios {
			p.raw(`<tr><td>`)
			p.text(i18n.T(ctx, "Scenario_"+sc.Name))
			p.raw(`</td><td>`, fmt.Sprint(sc.ExamsPerMonth), `</td><td>`)
			p.text(i18n.Num(ctx, sc.MonthsRemaining, 1))
			p.raw(`</td><td>`, sc.EstimatedCompletion.Format("02/01/2006"), `</td></tr>`)
		}
		p.raw(`</tbody></table></section>`)
		return p.err
	})
}

func examsSection(d Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<section id="exams"><h2>`)
		p.text(i18n.T(ctx, "ReportExams"))
		p.raw(`</h2><table><thead><tr>`)
		for _, h := range []string{"ColName", "ColCredits", "ColGrade", "ColStatus", "ColDate"} {
			p.raw(`<th>`)
			p.text(i18n.T(ctx, h))
			p.raw(`</th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, e := range d.Exams {
			grade := "-"
			if e.Grade != nil {
				grade = i18n.Num(ctx, *e.Grade, 0)
			}
			date := ""
			if e.Date != nil {
				date = e.Date.Format("02/01/2006")
			}
			p.raw(`<tr class="`, string(e.Status), `"><td>`)
			p.text(e.Name)
			p.raw(`</td><td>`, fmt.Sprint(e.Credits), `</td><td>`)
			p.text(grade)
			p.raw(`</td><td>`)
			p.text(i18n.T(ctx, statusMessage(e.Status)))
			p.raw(`</td><td>`, date, `</td></tr>`)
		}
		p.raw(`</tbody></table></section>`)
		return p.err
	})
}

func statusMessage(s model.ExamStatus) string {
	switch s {
	case model.StatusPassed:
		return "StatusPassed"
	case model.StatusFailed:
		return "StatusFailed"
	}
	return "StatusPlanned"
}

// printer writes markup and escaped text, keeping the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

const style = `body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;color:#222}
h1{margin-bottom:0}.muted{color:#777}
dl{display:grid;grid-template-columns:max-content auto;gap:.25rem 1rem}dt{font-weight:600}
.progress{background:#eee;border-radius:4px;height:12px}.bar{background:#52c41a;height:12px;border-radius:4px}
table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #ddd;padding:.3rem .5rem;text-align:left}
tr.fixed td{font-weight:600;color:#1890ff}tr.computed td{color:#222}
tr.failed td{color:#f5222d}tr.planned td{color:#777}
.note{padding:.5rem;border-radius:4px;background:#f6f6f6}.note.unreachable{background:#fff1f0}.note.satisfied{background:#f6ffed}`
