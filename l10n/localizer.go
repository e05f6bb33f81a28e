// Package l10n implements the Localizer subsystem named in SPEC_FULL.md
// §4.7.2: the default runtime.Localizer backing the i18n tags, the `_(…)`
// literal and the l10n_filesize tags, built on
// golang.org/x/text/{language,message,number} for locale-tagged number
// formatting. It also carries a github.com/goodsign/monday locale
// (MondayLocale), which no formatter in this module reads. Grounded on the locale-formatting helpers
// in sambeau-basil's parsley evaluator (pkg/parsley/evaluator/eval_locale.go).
package l10n

import (
	"fmt"
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/deicod/dtl/value"
)

// translationKey identifies one registered translation: an optional
// disambiguating context plus source text, the gettext `context\x04source`
// convention Grantlee's i18nc tag also follows (original_source
// templates/i18n/i18nc.cpp).
type translationKey struct {
	context string
	source  string
}

// CatalogLocalizer is the default runtime.Localizer (SPEC_FULL.md §4.7.2).
// Translations are registered in-process (Register/RegisterContext/
// RegisterPlural); with none registered it passes source text through
// unchanged except for `%1`/`%2`-style argument substitution, the same
// Qt `QString::arg` convention i18nc.cpp builds its result with.
type CatalogLocalizer struct {
	tag          language.Tag
	mondayLocale monday.Locale
	printer      *message.Printer

	translations map[translationKey]string
	plurals      map[translationKey][2]string
}

// NewDefaultLocalizer returns a CatalogLocalizer for tag, carrying
// mondayLocale (see LocaleFor to derive one from tag).
func NewDefaultLocalizer(tag language.Tag, mondayLocale monday.Locale) *CatalogLocalizer {
	return &CatalogLocalizer{
		tag:          tag,
		mondayLocale: mondayLocale,
		printer:      message.NewPrinter(tag),
		translations: make(map[translationKey]string),
		plurals:      make(map[translationKey][2]string),
	}
}

// WithLocale returns a derived CatalogLocalizer for a different tag/monday
// locale pair, sharing this localizer's registered translations — the
// per-render locale override SPEC_FULL.md §4.7.2 describes for multi-tenant
// rendering, where one Engine serves several locales from the same process.
func (l *CatalogLocalizer) WithLocale(tag language.Tag, mondayLocale monday.Locale) *CatalogLocalizer {
	return &CatalogLocalizer{
		tag:          tag,
		mondayLocale: mondayLocale,
		printer:      message.NewPrinter(tag),
		translations: l.translations,
		plurals:      l.plurals,
	}
}

// Register installs a plain (context-free) translation for source.
func (l *CatalogLocalizer) Register(source, translation string) {
	l.translations[translationKey{source: source}] = translation
}

// RegisterContext installs a context-disambiguated translation, the lookup
// key `{% i18nc %}` uses.
func (l *CatalogLocalizer) RegisterContext(context, source, translation string) {
	l.translations[translationKey{context: context, source: source}] = translation
}

// RegisterPlural installs the singular/plural translation pair
// `{% i18np %}` selects between by count.
func (l *CatalogLocalizer) RegisterPlural(source, plural, singularTranslation, pluralTranslation string) {
	l.plurals[translationKey{source: source, context: plural}] = [2]string{singularTranslation, pluralTranslation}
}

// MondayLocale returns the monday.Locale this localizer carries; none of its
// own methods format dates.
func (l *CatalogLocalizer) MondayLocale() monday.Locale { return l.mondayLocale }

func (l *CatalogLocalizer) LocalizeString(src string, args []value.Value) (string, error) {
	return l.substitute(l.lookup(translationKey{source: src}, src), args), nil
}

func (l *CatalogLocalizer) LocalizeContextString(src, context string, args []value.Value) (string, error) {
	return l.substitute(l.lookup(translationKey{context: context, source: src}, src), args), nil
}

// LocalizePluralString selects between src and plural by n, applying any
// registered translation pair for the (src, plural) key. Selection is the
// two-form English rule (n == 1 is singular, otherwise plural); CLDR
// languages with more plural categories are not modeled (SPEC_FULL.md
// §4.7.2 names x/text only for number formatting, not plural-rule
// selection, so this mirrors Grantlee's own two-form i18np semantics rather
// than reaching for x/text/feature/plural).
func (l *CatalogLocalizer) LocalizePluralString(src, plural string, n int, args []value.Value) (string, error) {
	template := src
	if n != 1 {
		template = plural
	}
	if pair, ok := l.plurals[translationKey{source: src, context: plural}]; ok {
		if n == 1 {
			template = pair[0]
		} else {
			template = pair[1]
		}
	}
	return l.substitute(template, args), nil
}

// LocalizeNumber formats n using this localizer's language tag, e.g. grouping
// digits and choosing the decimal separator the way golang.org/x/text/number
// renders a CLDR decimal pattern.
func (l *CatalogLocalizer) LocalizeNumber(n float64) string {
	return l.printer.Sprintf("%v", number.Decimal(n))
}

// CurrentLocale returns the BCP 47 tag this localizer was constructed with.
func (l *CatalogLocalizer) CurrentLocale() string {
	return l.tag.String()
}

func (l *CatalogLocalizer) lookup(key translationKey, fallback string) string {
	if t, ok := l.translations[key]; ok {
		return t
	}
	return fallback
}

// substitute replaces `%1`, `%2`, ... placeholders in template with the
// stringified args in order (i18nc.cpp's Qt `QString::arg` chain).
func (l *CatalogLocalizer) substitute(template string, args []value.Value) string {
	if len(args) == 0 {
		return template
	}
	out := template
	for i, a := range args {
		out = strings.ReplaceAll(out, fmt.Sprintf("%%%d", i+1), value.ToString(a))
	}
	return out
}
