package value

import "strings"

// EscapeHTML performs the five-entity HTML-attribute-safe escape the
// auto-escape discipline applies to any value not already marked Safe
// (SPEC_FULL.md §3 "SafeString"). There is no third-party HTML-escaper in
// the reference corpus (goldmark renders Markdown to HTML, it does not
// escape arbitrary untrusted strings for attribute-safe interpolation), so
// this stays on strings.Replacer rather than reaching for an unrelated
// dependency — see DESIGN.md's standard-library justifications.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
