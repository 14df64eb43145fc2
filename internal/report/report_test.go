package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/unitracker/internal/academic"
	"github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
)

func grade(g float64) *float64 { return &g }

func testData() Data {
	passedOn := time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
	passed := []model.Exam{
		{ID: 1, Name: "Analisi I", Credits: 12, Status: model.StatusPassed, Grade: grade(26), Date: &passedOn},
		{ID: 2, Name: "Fisica <base>", Credits: 6, Status: model.StatusPassed, Grade: grade(24)},
	}
	planned := []model.Exam{
		{ID: 3, Name: "Reti", Credits: 6, Status: model.StatusPlanned},
		{ID: 4, Name: "Basi di dati", Credits: 9, Status: model.StatusPlanned},
	}
	st := model.DefaultSettings()
	sc := academic.ScaleFromSettings(st)
	all := append(append([]model.Exam{}, passed...), planned...)
	plan := academic.Solve(passed, planned, sc.FromTargetScale(100), sc, map[int64]float64{3: 27})
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	pred, _ := academic.PredictCompletion(passed, planned, st.TotalCredits, now)
	return Data{
		Settings:    st,
		Summary:     academic.Summarize(all, st),
		Exams:       all,
		Planned:     planned,
		Passed:      passed,
		Plan:        plan,
		Target110:   100,
		Scale:       sc,
		Prediction:  &pred,
		GeneratedAt: now,
	}
}

func render(t *testing.T, lang string, d Data) string {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	ctx := i18n.WithLang(context.Background(), lang)
	var buf bytes.Buffer
	if err := Render(ctx, &buf, d); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestRenderSections(t *testing.T) {
	out := render(t, "en", testData())

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<section id="stats">`,
		`<section id="targets">`,
		`<section id="prediction">`,
		`<section id="exams">`,
		"Computer Science",
		"Generated on 17/10/2026 12:00",
		`<tr class="fixed"><td>Reti</td><td>6</td><td>27.00</td><td>fixed</td></tr>`,
		`<tr class="computed"><td>Basi di dati</td>`,
		"Slow",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEscapesText(t *testing.T) {
	out := render(t, "en", testData())
	if strings.Contains(out, "Fisica <base>") {
		t.Error("exam name was not escaped")
	}
	if !strings.Contains(out, "Fisica &lt;base&gt;") {
		t.Error("escaped exam name missing")
	}
}

func TestRenderItalian(t *testing.T) {
	out := render(t, "it", testData())
	for _, want := range []string{
		`<html lang="it">`,
		"Riepilogo",
		"<td>27,00</td><td>fissato</td>",
		"superato",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderWithoutPredictionOrPlanned(t *testing.T) {
	d := testData()
	d.Prediction = nil
	d.Planned = nil
	d.Plan = academic.Solve(d.Passed, nil, 27, d.Scale, nil)

	out := render(t, "en", d)
	if !strings.Contains(out, "Not enough data") {
		t.Error("missing no-data prediction message")
	}
	if !strings.Contains(out, "No planned exams.") {
		t.Error("missing empty plan message")
	}
	if strings.Contains(out, `<tr class="fixed">`) {
		t.Error("unexpected target rows")
	}
}
