package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var jsonUnmarshal = json.Unmarshal

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var bundle *i18n.Bundle

// Supported lists the languages with a locale file, default first.
var Supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(Supported)

// Init loads the translation bundle with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle = i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", jsonUnmarshal)

	// Load all locale files from embedded FS.
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		bundle.MustParseMessageFileBytes(data, e.Name())
		slog.Debug("loaded locale file", "file", e.Name())
	}

	return nil
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	return language.Make(base.String())
}

type localized struct {
	loc     *i18n.Localizer
	printer *message.Printer
	tag     language.Tag
}

// WithLang stores a localizer and number printer for lang in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	if bundle == nil {
		_ = Init("en")
	}
	tag := Match(lang)
	return context.WithValue(ctx, ctxKey{}, localized{
		loc:     i18n.NewLocalizer(bundle, lang, tag.String()),
		printer: message.NewPrinter(tag),
		tag:     tag,
	})
}

// fromCtx retrieves the localizer from context.
func fromCtx(ctx context.Context) localized {
	if l, ok := ctx.Value(ctxKey{}).(localized); ok {
		return l
	}
	// Fallback: English.
	return localized{
		loc:     i18n.NewLocalizer(bundle, "en"),
		printer: message.NewPrinter(language.English),
		tag:     language.English,
	}
}

// Lang returns the language tag carried by the context.
func Lang(ctx context.Context) language.Tag {
	return fromCtx(ctx).tag
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	s, err := fromCtx(ctx).loc.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	s, err := fromCtx(ctx).loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	s, err := fromCtx(ctx).loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Num formats v with the given number of decimals using the context
// language's separators (27.50 in English, 27,50 in Italian).
func Num(ctx context.Context, v float64, decimals int) string {
	return fromCtx(ctx).printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
