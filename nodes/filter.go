package nodes

import "github.com/deicod/dtl/value"

// Filter is a named transform in the filter chain a FilterExpression
// applies after resolving its Variable, mirroring Grantlee's
// `Filter::doFilter(input, argument, autoescape)` contract
// (original_source grantlee_core_library/filter.h) and SPEC_FULL.md §4.6.
//
// arg is the filter's literal or resolved argument value (nil if the
// filter was invoked with no argument); autoEscape reports the Context's
// current auto-escape flag so filters like `safe`/`escape` can react to it.
type Filter func(input value.Value, arg value.Value, autoEscape bool) (value.Value, error)

// FilterCall pairs a compiled Filter with its (already-resolved-at-parse,
// still-variable-at-render) argument expression.
type FilterCall struct {
	Name   string
	Filter Filter
	Arg    *ValueExpr // nil when the filter takes no argument
}
