package nodes

import (
	"strconv"
	"strings"

	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// Variable resolves a dotted lookup path (`a.b.c`) against a Context,
// trying in order — per attribute segment — a map/dict-style key lookup or,
// on a list, a numeric index; then a value.Object attribute; then a
// value.Caller zero-argument method, mirroring Grantlee's Variable::resolve
// fallback chain (original_source grantlee_core_library).
type Variable struct {
	parts []string
}

// NewVariable compiles a dotted path into a Variable. An empty path
// resolves to the invalid Value (nil) on every render.
func NewVariable(path string) *Variable {
	if path == "" {
		return &Variable{}
	}
	return &Variable{parts: strings.Split(path, ".")}
}

func (v *Variable) Resolve(ctx *runtime.Context) value.Value {
	if len(v.parts) == 0 {
		return nil
	}
	cur, ok := ctx.Lookup(v.parts[0])
	if !ok {
		return nil
	}
	for _, part := range v.parts[1:] {
		cur, ok = resolveAttr(cur, part)
		if !ok {
			return nil
		}
	}
	return cur
}

// resolveAttr resolves one dotted segment against cur.
func resolveAttr(cur value.Value, name string) (value.Value, bool) {
	switch c := cur.(type) {
	case map[string]value.Value:
		if v, ok := c[name]; ok {
			return v, true
		}
		return nil, false
	case []value.Value:
		if idx, err := strconv.Atoi(name); err == nil {
			if idx < 0 || idx >= len(c) {
				return nil, false
			}
			return c[idx], true
		}
		return nil, false
	}
	if obj, ok := cur.(value.Object); ok {
		if v, ok := obj.GetAttr(name); ok {
			return v, true
		}
	}
	if caller, ok := cur.(value.Caller); ok {
		if v, ok := caller.CallMethod(name); ok {
			return v, true
		}
	}
	return nil, false
}

// ValueExpr is the compiled form of anything that can appear where the
// grammar accepts either a literal constant or a dotted variable path: a
// filter argument, the `for` tag's iterable, `regroup`'s grouping key, and
// so on (SPEC_FULL.md §4.3).
type ValueExpr struct {
	literal  value.Value
	isLit    bool
	i18n     bool
	variable *Variable
}

// NewLiteralExpr wraps an already-parsed constant (string, number, bool).
func NewLiteralExpr(v value.Value) *ValueExpr {
	return &ValueExpr{literal: v, isLit: true}
}

// NewI18nLiteralExpr wraps a string literal written in the i18n literal
// form `_("…")`/`_('…')` (SPEC_FULL.md §3, §4.3(1)): at render time it is
// passed through the Context's Localizer (LocalizeString), if one is
// configured.
func NewI18nLiteralExpr(s string) *ValueExpr {
	return &ValueExpr{literal: s, isLit: true, i18n: true}
}

// NewVariableExpr wraps a dotted variable path.
func NewVariableExpr(path string) *ValueExpr {
	return &ValueExpr{variable: NewVariable(path)}
}

func (e *ValueExpr) Resolve(ctx *runtime.Context) value.Value {
	if e == nil {
		return nil
	}
	if e.isLit {
		if e.i18n {
			if loc := ctx.Localizer(); loc != nil {
				if s, ok := e.literal.(string); ok {
					if out, err := loc.LocalizeString(s, nil); err == nil {
						return out
					}
				}
			}
		}
		return e.literal
	}
	return e.variable.Resolve(ctx)
}

// FilterExpression is a Variable (or literal) followed by zero or more
// piped filters, the unit every `{{ ... }}` and most tag arguments compile
// down to (SPEC_FULL.md §4.3; original_source
// grantlee_core_library/filterexpression.cpp).
type FilterExpression struct {
	Base    *ValueExpr
	Filters []FilterCall
}

// Resolve resolves the base expression and folds every filter over it in
// order, the same left-to-right fold as Grantlee's
// `FilterExpression::resolve` (filterexpression.cpp).
func (f *FilterExpression) Resolve(ctx *runtime.Context) (value.Value, error) {
	v := f.Base.Resolve(ctx)
	for _, fc := range f.Filters {
		var arg value.Value
		if fc.Arg != nil {
			arg = fc.Arg.Resolve(ctx)
		}
		next, err := fc.Filter(v, arg, ctx.AutoEscape())
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// IsTrue resolves the expression and reports its truthiness, the helper
// IfNode and the `if`/`elif` branches consult (mirrors
// `FilterExpression::isTrue`, filterexpression.cpp).
func (f *FilterExpression) IsTrue(ctx *runtime.Context) (bool, error) {
	v, err := f.Resolve(ctx)
	if err != nil {
		return false, err
	}
	return value.IsTrue(v), nil
}

// ToList resolves the expression and coerces it to a slice the way
// `FilterExpression::toList` does (via value.ToList): a list passes through,
// a string expands to one element per rune, a map to its keys, nil to an
// empty result, and any other scalar becomes a single-element slice
// (filterexpression.cpp).
func (f *FilterExpression) ToList(ctx *runtime.Context) []value.Value {
	v, err := f.Resolve(ctx)
	if err != nil {
		return nil
	}
	list, _ := value.ToList(v)
	return list
}
