package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

const localeDir = "locales"

// Translator owns the message bundle and resolves client locales against the embedded catalogs.
type Translator struct {
	bundle   *goi18n.Bundle
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// New loads every embedded catalog. defaultLocale is used whenever a request names no
// supported locale.
func New(defaultLocale string) (*Translator, error) {
	fallback, err := language.Parse(strings.TrimSpace(defaultLocale))
	if err != nil {
		return nil, fmt.Errorf("parsing default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, path.Join(localeDir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("listing locale files: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	tags := []language.Tag{fallback}
	supported := false
	for _, tag := range bundle.LanguageTags() {
		if tag == fallback {
			supported = true
			continue
		}
		tags = append(tags, tag)
	}
	if !supported {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}

	return &Translator{
		bundle:   bundle,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: fallback,
	}, nil
}

// Default returns the fallback locale code.
func (t *Translator) Default() string {
	return t.fallback.String()
}

// Supported lists the locale codes with a catalog, fallback first.
func (t *Translator) Supported() []string {
	out := make([]string, 0, len(t.tags))
	for _, tag := range t.tags {
		out = append(out, tag.String())
	}
	return out
}

// Match resolves the first candidate (a locale code or an Accept-Language value) that maps
// onto a supported catalog. Unknown or empty candidates fall through to the next one.
func (t *Translator) Match(candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		requested, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(requested) == 0 {
			continue
		}
		_, index, confidence := t.matcher.Match(requested...)
		if confidence == language.No {
			continue
		}
		return t.tags[index].String()
	}
	return t.Default()
}

// Localizer returns a message lookup bound to the locale.
func (t *Translator) Localizer(locale string) *Localizer {
	locale = t.Match(locale)
	return &Localizer{
		locale:    locale,
		localizer: goi18n.NewLocalizer(t.bundle, locale, t.Default()),
	}
}

// Localizer renders catalog messages for one locale.
type Localizer struct {
	locale    string
	localizer *goi18n.Localizer
}

// Locale returns the resolved locale code.
func (l *Localizer) Locale() string {
	if l == nil {
		return ""
	}
	return l.locale
}

// T renders the message; a missing id renders as the id itself.
func (l *Localizer) T(id string, data map[string]any) string {
	if l == nil || l.localizer == nil {
		return id
	}
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
