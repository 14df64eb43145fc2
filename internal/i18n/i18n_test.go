package i18n

import (
	"context"
	"testing"

	"golang.org/x/text/language"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return WithLang(context.Background(), lang)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "StatusPassed"); got != "passed" {
		t.Errorf("T(StatusPassed) = %q, want 'passed'", got)
	}
	if got := T(ctx, "NoExams"); got != "No exams yet." {
		t.Errorf("T(NoExams) = %q", got)
	}
}

func TestTranslateItalian(t *testing.T) {
	ctx := initLang(t, "it")

	if got := T(ctx, "StatusPassed"); got != "superato" {
		t.Errorf("T(StatusPassed) = %q, want 'superato'", got)
	}
	if got := T(ctx, "Month_10"); got != "Ottobre" {
		t.Errorf("T(Month_10) = %q, want 'Ottobre'", got)
	}
}

func TestRegionalVariantFallsBackToBase(t *testing.T) {
	ctx := initLang(t, "it-IT")
	if got := T(ctx, "StatusFailed"); got != "non superato" {
		t.Errorf("T(StatusFailed) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	tests := []struct {
		lang  string
		count int
		want  string
	}{
		{"en", 1, "1 exam."},
		{"en", 5, "5 exams."},
		{"it", 1, "1 esame."},
		{"it", 3, "3 esami."},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			ctx := initLang(t, tt.lang)
			if got := Tp(ctx, "ExamCount", tt.count); got != tt.want {
				t.Errorf("Tp(ExamCount, %d) = %q, want %q", tt.count, got, tt.want)
			}
		})
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ExamAdded", map[string]any{"ID": 42, "Name": "Analisi I"})
	if got != `Exam #42 "Analisi I" added.` {
		t.Errorf("Td(ExamAdded) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		lang     string
		v        float64
		decimals int
		want     string
	}{
		{"en", 27.5, 2, "27.50"},
		{"it", 27.5, 2, "27,50"},
		{"it", 101.84, 1, "101,8"},
		{"en", 28, 0, "28"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ctx := initLang(t, tt.lang)
			if got := Num(ctx, tt.v, tt.decimals); got != tt.want {
				t.Errorf("Num(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"it", language.Italian},
		{"it-IT", language.Italian},
		{"en-GB", language.English},
		{"fr", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Match(tt.in); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContextWithoutLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if got := Lang(ctx); got != language.English {
		t.Errorf("Lang = %v, want en", got)
	}
	if got := T(ctx, "StatusPlanned"); got != "planned" {
		t.Errorf("T(StatusPlanned) = %q", got)
	}
}
