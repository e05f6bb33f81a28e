package stdlib

import (
	"fmt"
	"html"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"

	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/value"
)

// This file supplies the default filter library (SPEC_FULL.md §4.6.1),
// grounded on the Django/Grantlee `defaultfilters` plugin family. Each
// filter is a nodes.Filter: `func(input, arg value.Value, autoEscape bool)
// (value.Value, error)`.

// --- string filters ---

func filterUpper(input, _ value.Value, _ bool) (value.Value, error) {
	return strings.ToUpper(value.ToString(input)), nil
}

func filterLower(input, _ value.Value, _ bool) (value.Value, error) {
	return strings.ToLower(value.ToString(input)), nil
}

func filterCapfirst(input, _ value.Value, _ bool) (value.Value, error) {
	s := value.ToString(input)
	if s == "" {
		return s, nil
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:]), nil
}

func filterTitle(input, _ value.Value, _ bool) (value.Value, error) {
	return strings.Title(strings.ToLower(value.ToString(input))), nil
}

func filterTrim(input, _ value.Value, _ bool) (value.Value, error) {
	return strings.TrimSpace(value.ToString(input)), nil
}

func filterTruncatechars(input, arg value.Value, _ bool) (value.Value, error) {
	n, ok := value.AsInt(arg)
	if !ok || n <= 0 {
		return value.ToString(input), nil
	}
	r := []rune(value.ToString(input))
	if len(r) <= n {
		return string(r), nil
	}
	if n <= 3 {
		return string(r[:n]), nil
	}
	return string(r[:n-3]) + "...", nil
}

func filterTruncatewords(input, arg value.Value, _ bool) (value.Value, error) {
	n, ok := value.AsInt(arg)
	if !ok || n <= 0 {
		return value.ToString(input), nil
	}
	words := strings.Fields(value.ToString(input))
	if len(words) <= n {
		return strings.Join(words, " "), nil
	}
	return strings.Join(words[:n], " ") + "...", nil
}

func filterWordcount(input, _ value.Value, _ bool) (value.Value, error) {
	return int64(len(strings.Fields(value.ToString(input)))), nil
}

func filterLinebreaks(input, _ value.Value, autoEscape bool) (value.Value, error) {
	s := value.ToString(input)
	if autoEscape {
		s = html.EscapeString(s)
	}
	paras := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n")
	for i, p := range paras {
		paras[i] = "<p>" + strings.ReplaceAll(p, "\n", "<br />") + "</p>"
	}
	return value.Safe(strings.Join(paras, "\n\n")), nil
}

func filterLinebreaksbr(input, _ value.Value, autoEscape bool) (value.Value, error) {
	s := value.ToString(input)
	if autoEscape {
		s = html.EscapeString(s)
	}
	return value.Safe(strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "<br />")), nil
}

var tagStripper = regexp.MustCompile(`<[^>]*?>`)

func filterStriptags(input, _ value.Value, _ bool) (value.Value, error) {
	return tagStripper.ReplaceAllString(value.ToString(input), ""), nil
}

var slugInvalid = regexp.MustCompile(`[^\w\s-]`)
var slugWhitespace = regexp.MustCompile(`[\s_-]+`)

func filterSlugify(input, _ value.Value, _ bool) (value.Value, error) {
	s := strings.ToLower(strings.TrimSpace(value.ToString(input)))
	s = slugInvalid.ReplaceAllString(s, "")
	return strings.Trim(slugWhitespace.ReplaceAllString(s, "-"), "-"), nil
}

var urlPattern = regexp.MustCompile(`(https?://[^\s<]+)`)

func filterUrlize(input, _ value.Value, autoEscape bool) (value.Value, error) {
	s := value.ToString(input)
	if autoEscape {
		s = html.EscapeString(s)
	}
	out := urlPattern.ReplaceAllStringFunc(s, func(u string) string {
		return fmt.Sprintf(`<a href="%s" rel="nofollow">%s</a>`, u, u)
	})
	return value.Safe(out), nil
}

// filterEscape forces escaping even under `{% autoescape off %}`
// (SPEC_FULL.md §4.6.1), the `needs_escape` SafeString arm.
func filterEscape(input, _ value.Value, _ bool) (value.Value, error) {
	return value.MustEscape(value.ToString(input)), nil
}

// filterSafe marks input as already-escaped, never to be re-escaped.
func filterSafe(input, _ value.Value, _ bool) (value.Value, error) {
	return value.Safe(value.ToString(input)), nil
}

// jsEscapeChars is the Django `escapejs` filter's character set: each is
// replaced by its `\uXXXX` escape so the result is safe to embed inside a
// JavaScript string literal.
const jsEscapeChars = "\\'\"><&=-;\u2028\u2029\n\r\t\v\f\b"

func filterEscapejs(input, _ value.Value, _ bool) (value.Value, error) {
	s := value.ToString(input)
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(jsEscapeChars, r) {
			fmt.Fprintf(&b, `\u%04X`, r)
		} else {
			b.WriteRune(r)
		}
	}
	return value.Safe(b.String()), nil
}

var addslashesEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`)

func filterAddslashes(input, _ value.Value, _ bool) (value.Value, error) {
	return addslashesEscaper.Replace(value.ToString(input)), nil
}

func filterCut(input, arg value.Value, _ bool) (value.Value, error) {
	return strings.ReplaceAll(value.ToString(input), value.ToString(arg), ""), nil
}

func filterLjust(input, arg value.Value, _ bool) (value.Value, error) {
	n, _ := value.AsInt(arg)
	s := value.ToString(input)
	if len(s) >= n {
		return s, nil
	}
	return s + strings.Repeat(" ", n-len(s)), nil
}

func filterRjust(input, arg value.Value, _ bool) (value.Value, error) {
	n, _ := value.AsInt(arg)
	s := value.ToString(input)
	if len(s) >= n {
		return s, nil
	}
	return strings.Repeat(" ", n-len(s)) + s, nil
}

func filterCenter(input, arg value.Value, _ bool) (value.Value, error) {
	n, _ := value.AsInt(arg)
	s := value.ToString(input)
	if len(s) >= n {
		return s, nil
	}
	total := n - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right), nil
}

// --- number filters ---

func filterAdd(input, arg value.Value, _ bool) (value.Value, error) {
	af, aok := value.AsFloat(input)
	bf, bok := value.AsFloat(arg)
	if aok && bok {
		return af + bf, nil
	}
	return value.ToString(input) + value.ToString(arg), nil
}

func filterFloatformat(input, arg value.Value, _ bool) (value.Value, error) {
	f, ok := value.AsFloat(input)
	if !ok {
		return "", nil
	}
	prec := -1
	if arg != nil {
		if n, ok := value.AsInt(arg); ok {
			prec = n
		}
	}
	if prec < 0 {
		if f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', 0, 64), nil
		}
		p := -prec
		if p == 0 {
			p = 1
		}
		return strconv.FormatFloat(f, 'f', p, 64), nil
	}
	return strconv.FormatFloat(f, 'f', prec, 64), nil
}

func filterFilesizeformat(input, _ value.Value, _ bool) (value.Value, error) {
	size, _ := value.AsFloat(input)
	units := []string{"B", "kB", "MB", "GB", "TB", "PB"}
	mag := math.Abs(size)
	unit := 0
	for mag >= 1000 && unit < len(units)-1 {
		mag /= 1000
		unit++
	}
	if size < 0 {
		mag = -mag
	}
	if unit == 0 {
		return fmt.Sprintf("%.0f %s", mag, units[unit]), nil
	}
	return fmt.Sprintf("%.1f %s", mag, units[unit]), nil
}

func filterDivisibleby(input, arg value.Value, _ bool) (value.Value, error) {
	a, _ := value.AsInt(input)
	b, ok := value.AsInt(arg)
	if !ok || b == 0 {
		return false, nil
	}
	return a%b == 0, nil
}

func filterPluralize(input, arg value.Value, _ bool) (value.Value, error) {
	n, _ := value.AsInt(input)
	singular, plural := "", "s"
	if arg != nil {
		parts := strings.SplitN(value.ToString(arg), ",", 2)
		if len(parts) == 2 {
			singular, plural = parts[0], parts[1]
		} else {
			plural = parts[0]
		}
	}
	if n == 1 {
		return singular, nil
	}
	return plural, nil
}

// --- list/mapping filters ---

func filterLength(input, _ value.Value, _ bool) (value.Value, error) {
	switch t := input.(type) {
	case string:
		return int64(len([]rune(t))), nil
	case value.SafeString:
		return int64(len([]rune(t.S))), nil
	case []value.Value:
		return int64(len(t)), nil
	case map[string]value.Value:
		return int64(len(t)), nil
	default:
		return int64(0), nil
	}
}

func filterLengthIs(input, arg value.Value, _ bool) (value.Value, error) {
	l, err := filterLength(input, nil, false)
	if err != nil {
		return nil, err
	}
	n, _ := value.AsInt(arg)
	return l.(int64) == int64(n), nil
}

func filterFirst(input, _ value.Value, _ bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func filterLast(input, _ value.Value, _ bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func filterJoin(input, arg value.Value, autoEscape bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok {
		return input, nil
	}
	sep := value.ToString(arg)
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = value.ToString(v)
	}
	joined := strings.Join(parts, sep)
	if autoEscape {
		return value.MustEscape(joined), nil
	}
	return value.Safe(joined), nil
}

func filterSlice(input, arg value.Value, _ bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok {
		return input, nil
	}
	start, stop := 0, len(list)
	bounds := strings.SplitN(value.ToString(arg), ":", 2)
	if len(bounds) == 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(bounds[0])); err == nil {
			start = n
		}
		if n, err := strconv.Atoi(strings.TrimSpace(bounds[1])); err == nil {
			stop = n
		}
	}
	start = clampIndex(start, len(list))
	stop = clampIndex(stop, len(list))
	if start > stop {
		return []value.Value{}, nil
	}
	return append([]value.Value{}, list[start:stop]...), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func filterDictsort(input, arg value.Value, _ bool) (value.Value, error) {
	return sortByKey(input, arg, false)
}

func filterDictsortreversed(input, arg value.Value, _ bool) (value.Value, error) {
	return sortByKey(input, arg, true)
}

func sortByKey(input, arg value.Value, reverse bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok {
		return input, nil
	}
	key := value.ToString(arg)
	out := append([]value.Value{}, list...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, _ := resolveDictKey(out[i], key)
		vj, _ := resolveDictKey(out[j], key)
		cmp, _ := value.Compare(vi, vj)
		if reverse {
			return cmp > 0
		}
		return cmp < 0
	})
	return out, nil
}

func resolveDictKey(item value.Value, key string) (value.Value, bool) {
	if m, ok := item.(map[string]value.Value); ok {
		v, ok := m[key]
		return v, ok
	}
	if obj, ok := item.(value.Object); ok {
		return obj.GetAttr(key)
	}
	return nil, false
}

func filterMakeList(input, _ value.Value, _ bool) (value.Value, error) {
	list, _ := value.ToList(input)
	return list, nil
}

func filterRandom(input, _ value.Value, _ bool) (value.Value, error) {
	list, ok := value.ToList(input)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	return list[rand.Intn(len(list))], nil
}

// --- date filters ---

// resolveTime coerces input into a time.Time: a host time.Time Value passes
// through, a string argument is parsed with dateparse (so template authors
// never have to specify an input layout, SPEC_FULL.md §4.7.2).
func resolveTime(input value.Value) (time.Time, bool) {
	switch t := input.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := dateparse.ParseAny(t)
		return parsed, err == nil
	case value.SafeString:
		parsed, err := dateparse.ParseAny(t.S)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

// dateLocale is the monday locale used to render textual month/weekday
// names inside the `date`/`time` filters ({% now %} does not use it).
// The nodes.Filter contract (SPEC_FULL.md §4.6) carries no Context/locale
// parameter, so a per-render locale cannot be threaded through here: these
// filters always format with US English names, whatever Localizer the
// render has.
const dateLocale = monday.LocaleEnUS

func filterDate(input, arg value.Value, _ bool) (value.Value, error) {
	t, ok := resolveTime(input)
	if !ok {
		return "", nil
	}
	format := "Jan. 2, 2006"
	if arg != nil {
		format = qtTimeLayout(value.ToString(arg))
	}
	return monday.Format(t, format, dateLocale), nil
}

func filterTime(input, arg value.Value, _ bool) (value.Value, error) {
	t, ok := resolveTime(input)
	if !ok {
		return "", nil
	}
	format := "3:04 p.m."
	if arg != nil {
		format = qtTimeLayout(value.ToString(arg))
	}
	return monday.Format(t, format, dateLocale), nil
}

func filterTimesince(input, arg value.Value, _ bool) (value.Value, error) {
	t, ok := resolveTime(input)
	if !ok {
		return "", nil
	}
	ref := time.Now()
	if arg != nil {
		if rt, ok := resolveTime(arg); ok {
			ref = rt
		}
	}
	return formatDuration(ref.Sub(t)), nil
}

func filterTimeuntil(input, arg value.Value, _ bool) (value.Value, error) {
	t, ok := resolveTime(input)
	if !ok {
		return "", nil
	}
	ref := time.Now()
	if arg != nil {
		if rt, ok := resolveTime(arg); ok {
			ref = rt
		}
	}
	return formatDuration(t.Sub(ref)), nil
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Minute:
		return "0 minutes"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	default:
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	}
}

// --- default/utility filters ---

func filterDefault(input, arg value.Value, _ bool) (value.Value, error) {
	if value.IsTrue(input) {
		return input, nil
	}
	return arg, nil
}

func filterDefaultIfNone(input, arg value.Value, _ bool) (value.Value, error) {
	if input == nil {
		return arg, nil
	}
	return input, nil
}

func filterYesno(input, arg value.Value, _ bool) (value.Value, error) {
	yes, no, maybe := "yes", "no", "maybe"
	if arg != nil {
		parts := strings.SplitN(value.ToString(arg), ",", 3)
		if len(parts) > 0 {
			yes = parts[0]
		}
		if len(parts) > 1 {
			no = parts[1]
		}
		if len(parts) > 2 {
			maybe = parts[2]
		}
	}
	if input == nil {
		return maybe, nil
	}
	if value.IsTrue(input) {
		return yes, nil
	}
	return no, nil
}

func filterPprint(input, _ value.Value, _ bool) (value.Value, error) {
	return fmt.Sprintf("%#v", input), nil
}

// StandardFilters returns the default filter library (SPEC_FULL.md §4.6.1).
func StandardFilters() map[string]nodes.Filter {
	return map[string]nodes.Filter{
		"upper":             filterUpper,
		"lower":             filterLower,
		"capfirst":          filterCapfirst,
		"title":             filterTitle,
		"trim":              filterTrim,
		"truncatechars":     filterTruncatechars,
		"truncatewords":     filterTruncatewords,
		"wordcount":         filterWordcount,
		"linebreaks":        filterLinebreaks,
		"linebreaksbr":      filterLinebreaksbr,
		"striptags":         filterStriptags,
		"slugify":           filterSlugify,
		"urlize":            filterUrlize,
		"escape":            filterEscape,
		"safe":              filterSafe,
		"escapejs":          filterEscapejs,
		"addslashes":        filterAddslashes,
		"cut":               filterCut,
		"ljust":             filterLjust,
		"rjust":             filterRjust,
		"center":            filterCenter,
		"add":               filterAdd,
		"floatformat":       filterFloatformat,
		"filesizeformat":    filterFilesizeformat,
		"divisibleby":       filterDivisibleby,
		"pluralize":         filterPluralize,
		"length":            filterLength,
		"length_is":         filterLengthIs,
		"first":             filterFirst,
		"last":              filterLast,
		"join":              filterJoin,
		"slice":             filterSlice,
		"dictsort":          filterDictsort,
		"dictsortreversed":  filterDictsortreversed,
		"make_list":         filterMakeList,
		"random":            filterRandom,
		"date":              filterDate,
		"time":              filterTime,
		"timesince":         filterTimesince,
		"timeuntil":         filterTimeuntil,
		"default":           filterDefault,
		"default_if_none":   filterDefaultIfNone,
		"yesno":             filterYesno,
		"pprint":            filterPprint,
	}
}
