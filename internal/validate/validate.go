// Package validate checks user input before it reaches the store, with error
// messages in the user's language.
package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/it"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	it_translations "github.com/go-playground/validator/v10/translations/it"

	"github.com/pavelanni/unitracker/internal/model"
)

// custom validation tags
const (
	notBlankTag       = "notblank"
	gradeRequiredTag  = "grade_required"
	gradeForbiddenTag = "grade_forbidden"
	gradeRangeTag     = "grade_range"
)

type customText struct {
	en, it string
	param  bool
}

var customTexts = map[string]customText{
	notBlankTag:       {en: "{0} cannot be blank", it: "{0} non può essere vuoto"},
	gradeRequiredTag:  {en: "{0} is required for a passed exam", it: "{0} è obbligatorio per un esame superato"},
	gradeForbiddenTag: {en: "{0} is only allowed on passed exams", it: "{0} è consentito solo per gli esami superati"},
	gradeRangeTag:     {en: "{0} must be within {1}", it: "{0} deve essere compreso in {1}", param: true},
}

// FieldErrors maps a field name to its translated message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// Validator wraps a validator.Validate with a translator for one language.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	lang       string
}

// New builds a validator whose messages are in lang. Languages other than
// Italian fall back to English.
func New(lang string) (*Validator, error) {
	lang = baseLang(lang)
	_en, _it := en.New(), it.New()
	uni := ut.New(_en, _en, _it)
	trans, _ := uni.GetTranslator(lang)

	v := validator.New(validator.WithRequiredStructEnabled())
	var err error
	if lang == "it" {
		err = it_translations.RegisterDefaultTranslations(v, trans)
	} else {
		lang = "en"
		err = en_translations.RegisterDefaultTranslations(v, trans)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s translations: %w", lang, err)
	}

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(notBlankTag, notBlankValidation); err != nil {
		return nil, err
	}
	v.RegisterStructValidationCtx(examStructValidation, model.Exam{})

	for tag, text := range customTexts {
		msg := text.en
		if lang == "it" {
			msg = text.it
		}
		if err := registerCustomTranslation(v, trans, tag, msg, text.param); err != nil {
			return nil, fmt.Errorf("register translation %s: %w", tag, err)
		}
	}
	return &Validator{validate: v, translator: trans, lang: lang}, nil
}

func baseLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func registerCustomTranslation(v *validator.Validate, trans ut.Translator, tag, text string, withParam bool) error {
	return v.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			var s string
			if withParam {
				s, _ = t.T(tag, fe.Field(), fe.Param())
			} else {
				s, _ = t.T(tag, fe.Field())
			}
			return s
		},
	)
}

// Lang is the language messages are produced in.
func (v *Validator) Lang() string { return v.lang }

// Struct validates s. Validation failures come back as FieldErrors; any
// other error is returned as is.
func (v *Validator) Struct(ctx context.Context, s any) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}

// Exam validates an exam against the grading scale in st.
func (v *Validator) Exam(ctx context.Context, e model.Exam, st model.Settings) error {
	return v.Struct(WithSettings(ctx, st), e)
}

type settingsKey struct{}

// WithSettings attaches the grading scale used by struct-level exam rules.
func WithSettings(ctx context.Context, st model.Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, st)
}

func settingsFrom(ctx context.Context) model.Settings {
	if st, ok := ctx.Value(settingsKey{}).(model.Settings); ok {
		return st
	}
	return model.DefaultSettings()
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// examStructValidation ties the grade to the status: passed exams carry a
// grade within the scale, the others carry none.
func examStructValidation(ctx context.Context, sl validator.StructLevel) {
	e, ok := sl.Current().Interface().(model.Exam)
	if !ok {
		return
	}
	switch {
	case e.Status == model.StatusPassed && e.Grade == nil:
		sl.ReportError(e.Grade, "grade", "Grade", gradeRequiredTag, "")
	case e.Status != model.StatusPassed && e.Grade != nil:
		sl.ReportError(e.Grade, "grade", "Grade", gradeForbiddenTag, "")
	case e.Grade != nil:
		st := settingsFrom(ctx)
		if g := *e.Grade; g < float64(st.PassThreshold) || g > float64(st.MaxGrade) {
			sl.ReportError(e.Grade, "grade", "Grade", gradeRangeTag, fmt.Sprintf("[%d, %d]", st.PassThreshold, st.MaxGrade))
		}
	}
}
