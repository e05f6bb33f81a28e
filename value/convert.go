package value

import (
	"fmt"
	"strconv"
)

// ToString renders v as plain text, unwrapping SafeString without
// re-interpreting its escape flags (escaping is the OutputStream's job, not
// this conversion's).
func ToString(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case SafeString:
		return t.S
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []Value:
		out := "["
		for i, e := range t {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf("%q", ToString(e))
		}
		return out + "]"
	case map[string]Value:
		return fmt.Sprintf("%v", t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// IsTrue implements truthiness: the zero value of every concrete Value arm
// is falsy, everything else (including any non-empty container, object, or
// unrecognized type) is truthy. Consumed by IfNode, the Pratt evaluator's
// `and`/`or`/`not`, and FirstOfNode.
func IsTrue(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case SafeString:
		return t.S != ""
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case []Value:
		return len(t) > 0
	case map[string]Value:
		return len(t) > 0
	default:
		return true
	}
}

// AsFloat attempts a numeric conversion, accepting int64/int/float64 and
// numeric strings (including SafeString), the loosening several filters and
// the l10n file-size formatter (SPEC_FULL.md §4.5) need.
func AsFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	case SafeString:
		f, err := strconv.ParseFloat(t.S, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt is AsFloat truncated to an integer; used for loop/range bounds.
func AsInt(v Value) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case int:
		return t, true
	case float64:
		return int(t), true
	}
	f, ok := AsFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ToList converts v into a []Value for iteration contexts (ForNode,
// RegroupNode's target; the `in` operator uses Contains instead). A string
// becomes a list of one-rune strings, a map its keys, an Iterable its items;
// any other scalar becomes a single-element list,
// matching FilterExpression::toList in the reference implementation
// (grantlee_core_library/filterexpression.cpp).
func ToList(v Value) ([]Value, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []Value:
		return t, true
	case string:
		return stringToRunes(t), true
	case SafeString:
		return stringToRunes(t.S), true
	case map[string]Value:
		out := make([]Value, 0, len(t))
		for k := range t {
			out = append(out, k)
		}
		return out, true
	case Iterable:
		items, ok := t.Iterate()
		return items, ok
	default:
		return []Value{v}, true
	}
}

func stringToRunes(s string) []Value {
	rs := []rune(s)
	out := make([]Value, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
