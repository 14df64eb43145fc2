package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/unitracker/internal/model"
)

// run executes the CLI against dbPath in English and returns its output.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", dbPath, "--lang", "en"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestCareerWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "career.db")

	out := mustRun(t, db, "exam", "add", "-n", "Analisi I", "-c", "12", "-s", "passed", "-g", "26", "-d", "2025-10-17")
	if !strings.Contains(out, `Exam #1 "Analisi I" added.`) {
		t.Errorf("add output = %q", out)
	}
	mustRun(t, db, "exam", "add", "-n", "Reti", "-c", "6")
	mustRun(t, db, "exam", "add", "-n", "Basi di dati", "-c", "9")

	out = mustRun(t, db, "exam", "list")
	for _, want := range []string{"Analisi I", "Reti", "Basi di dati", "3 exams."} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, db, "stats")
	if !strings.Contains(out, "26.00 (95.33/110)") {
		t.Errorf("stats output:\n%s", out)
	}

	out = mustRun(t, db, "targets", "fix", "2", "28")
	if !strings.Contains(out, "Grade for exam #2 fixed at 28.00.") {
		t.Errorf("fix output:\n%s", out)
	}
	out = mustRun(t, db, "targets")
	if !strings.Contains(out, "fixed") {
		t.Errorf("pin not kept between runs:\n%s", out)
	}
	mustRun(t, db, "targets", "unfix", "2")
	out = mustRun(t, db, "targets")
	if strings.Contains(out, "\tfixed") || strings.Contains(out, " fixed\n") {
		t.Errorf("pin still present after unfix:\n%s", out)
	}

	out = mustRun(t, db, "exam", "schedule", "2")
	if !strings.Contains(out, `"Reti" scheduled on`) {
		t.Errorf("schedule output = %q", out)
	}
	if _, err := run(t, db, "exam", "schedule", "2"); err == nil {
		t.Error("scheduling twice should fail")
	}
}

func TestExamValidationError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "career.db")
	if _, err := run(t, db, "exam", "add", "-n", "Fisica", "-s", "passed"); err == nil {
		t.Fatal("passed exam without grade should be rejected")
	}
	out := mustRun(t, db, "exam", "list")
	if !strings.Contains(out, "No exams yet.") {
		t.Errorf("rejected exam was stored:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			mustRun(t, src, "reset", "--yes")
			mustRun(t, src, "exam", "add", "-n", "Algebra", "-c", "6", "-s", "passed", "-g", "30")
			mustRun(t, src, "settings", "set", "degree_name", "Ingegneria")

			file := filepath.Join(dir, "career."+format)
			mustRun(t, src, "export", "-o", file)
			if _, err := os.Stat(file); err != nil {
				t.Fatalf("export file: %v", err)
			}
			out := mustRun(t, dst, "import", file)
			if !strings.Contains(out, "Imported 1 exams") {
				t.Errorf("import output = %q", out)
			}
			out = mustRun(t, dst, "settings")
			if !strings.Contains(out, "Ingegneria") {
				t.Errorf("settings not restored:\n%s", out)
			}
		})
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "career.db")
	mustRun(t, db, "exam", "add", "-n", "Reti", "-c", "6")

	out := mustRun(t, db, "reset")
	if !strings.Contains(out, "--yes") {
		t.Errorf("reset output = %q", out)
	}
	if out := mustRun(t, db, "exam", "list"); !strings.Contains(out, "Reti") {
		t.Error("reset without --yes deleted data")
	}
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(model.Settings) bool
		wantErr    bool
	}{
		{model.SettingDegreeName, " Fisica ", func(s model.Settings) bool { return s.DegreeName == "Fisica" }, false},
		{model.SettingTotalCredits, "120", func(s model.Settings) bool { return s.TotalCredits == 120 }, false},
		{model.SettingTargetAverage, "105,5", func(s model.Settings) bool { return s.TargetAverage == 105.5 }, false},
		{model.SettingMaxGrade, "thirty", nil, true},
		{"colour", "red", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			st, err := applySetting(model.DefaultSettings(), tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(st) {
				t.Errorf("setting not applied: %+v", st)
			}
		})
	}
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-20", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		{"2026-10-20T09:30", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-10-20 09:30", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-10-20T09:30:15", time.Date(2026, 10, 20, 9, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWhen(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseWhen(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if _, err := parseWhen("20/10/2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestDataFormat(t *testing.T) {
	tests := []struct {
		flag, path, want string
	}{
		{"", "career.yaml", "yaml"},
		{"", "career.YML", "yaml"},
		{"", "career.json", "json"},
		{"", "", "json"},
		{"yaml", "career.json", "yaml"},
	}
	for _, tt := range tests {
		got, err := dataFormat(tt.flag, tt.path)
		if err != nil || got != tt.want {
			t.Errorf("dataFormat(%q, %q) = %q, %v; want %q", tt.flag, tt.path, got, err, tt.want)
		}
	}
	if _, err := dataFormat("xml", ""); err == nil {
		t.Error("expected error for xml")
	}
}
