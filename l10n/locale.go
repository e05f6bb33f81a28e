package l10n

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// mondayLocales maps a normalized (lowercase, underscore-separated) BCP 47
// tag to the monday.Locale constant used for date/time formatting, grounded
// on sambeau-basil's getMondayLocale (pkg/parsley/evaluator/eval_locale.go)
// — trimmed to the locales this module's go.mod actually pulls in.
var mondayLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_pt": monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_nl": monday.LocaleNlNL,
	"ru":    monday.LocaleRuRU,
	"ru_ru": monday.LocaleRuRU,
	"ja":    monday.LocaleJaJP,
	"ja_jp": monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_cn": monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"ko_kr": monday.LocaleKoKR,
}

// LocaleFor maps a language.Tag to the closest monday.Locale, falling back
// to the tag's bare language subtag and finally to monday.LocaleEnUS.
func LocaleFor(tag language.Tag) monday.Locale {
	key := strings.ToLower(strings.ReplaceAll(tag.String(), "-", "_"))
	if loc, ok := mondayLocales[key]; ok {
		return loc
	}
	base, _ := tag.Base()
	if loc, ok := mondayLocales[strings.ToLower(base.String())]; ok {
		return loc
	}
	return monday.LocaleEnUS
}
