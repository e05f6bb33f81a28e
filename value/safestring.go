package value

import "strings"

// SafeString is a string flagged as escape-safe for the active output
// format, per SPEC_FULL.md §3. Two independent flags:
//
//   - Safe: the string is already escaped (or is known never to need
//     escaping); the OutputStream must not re-escape it.
//   - NeedsEscape: the string must be escaped even when the enclosing
//     scope's auto-escape flag is off.
//
// Both flags can be set; NeedsEscape takes precedence (see
// runtime.OutputStream.WriteValue).
type SafeString struct {
	S           string
	Safe        bool
	NeedsEscape bool
}

// Safe wraps s as an already-escaped SafeString, the equivalent of the
// `safe` filter (SPEC_FULL.md §4.6.1).
func Safe(s string) SafeString {
	return SafeString{S: s, Safe: true}
}

// MustEscape wraps s as a SafeString that always needs escaping, the
// equivalent of the `escape` filter forcing escaping even under
// `{% autoescape off %}`.
func MustEscape(s string) SafeString {
	return SafeString{S: s, NeedsEscape: true}
}

func (s SafeString) String() string { return s.S }

// JoinSafe concatenates parts into a single SafeString. Per the
// concatenation invariant in SPEC_FULL.md §3, the result is Safe only if
// every part was itself safe.
func JoinSafe(parts ...SafeString) SafeString {
	var b strings.Builder
	allSafe := true
	anyNeedsEscape := false
	for _, p := range parts {
		b.WriteString(p.S)
		if !p.Safe {
			allSafe = false
		}
		if p.NeedsEscape {
			anyNeedsEscape = true
		}
	}
	return SafeString{S: b.String(), Safe: allSafe, NeedsEscape: anyNeedsEscape}
}
