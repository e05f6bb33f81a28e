package value

import "strings"

// Equals compares two Values structurally, unwrapping SafeString to its
// underlying text and normalizing the numeric types so `1 == 1.0` holds,
// matching Grantlee::equals semantics consumed by the if-expression `==`/`!=`
// operators (SPEC_FULL.md §4.4).
func Equals(a, b Value) bool {
	a = unwrapSafe(a)
	b = unwrapSafe(b)

	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			return af == bf
		}
	}

	switch at := a.(type) {
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case nil:
		return b == nil
	case []Value:
		bt, ok := b.([]Value)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equals(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Compare returns (-1, 0, 1, true) for orderable operands, or (0, false)
// when a and b cannot be compared — the if-expression relational operators
// treat an incomparable pair as false (SPEC_FULL.md §4.4).
func Compare(a, b Value) (int, bool) {
	a = unwrapSafe(a)
	b = unwrapSafe(b)

	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs), true
		}
	}

	if ac, ok := a.(Comparable); ok {
		return ac.CompareTo(b)
	}

	return 0, false
}

// Contains implements the if-expression `in`/`not in` membership test:
// substring for strings, element membership for lists, key membership for
// mappings (SPEC_FULL.md §4.4, grounded on the reference's free `contains`
// helper in templates/defaulttags/if_p.h).
func Contains(container, needle Value) bool {
	switch c := unwrapSafe(container).(type) {
	case string:
		return strings.Contains(c, ToString(needle))
	case []Value:
		for _, item := range c {
			if Equals(item, needle) {
				return true
			}
		}
		return false
	case map[string]Value:
		_, ok := c[ToString(needle)]
		return ok
	default:
		return false
	}
}

func unwrapSafe(v Value) Value {
	if s, ok := v.(SafeString); ok {
		return s.S
	}
	return v
}

func numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
