package nodes

import (
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// IfExpr is the compiled boolean/relational expression the `if`/`elif` tags
// evaluate, built by the parser's Pratt parser over the if-tag's token
// list (SPEC_FULL.md §4.4; operator precedence grounded on Grantlee's
// `if_p.h`/`if_p.cpp` infix table). Eval returns a Value rather than a bare
// bool — exactly as Grantlee's `IfToken::evaluate` returns a QVariant — so
// relational operators can compare the evaluated result of an arbitrary
// sub-expression, not only a bare operand.
type IfExpr interface {
	Eval(ctx *runtime.Context) (value.Value, error)
}

// IsTrue evaluates expr and reports its truthiness, the final step IfNode
// applies to a branch's compiled condition.
func IsTrue(expr IfExpr, ctx *runtime.Context) (bool, error) {
	v, err := expr.Eval(ctx)
	if err != nil {
		return false, err
	}
	return value.IsTrue(v), nil
}

// IfLeaf evaluates a FilterExpression, the Pratt grammar's `nud` case for a
// bare operand.
type IfLeaf struct {
	Expr *FilterExpression
}

func (l *IfLeaf) Eval(ctx *runtime.Context) (value.Value, error) {
	return l.Expr.Resolve(ctx)
}

// IfNot negates its operand's truthiness ("not" — a prefix operator,
// `if_p.h`'s unary case).
type IfNot struct {
	Operand IfExpr
}

func (n *IfNot) Eval(ctx *runtime.Context) (value.Value, error) {
	ok, err := IsTrue(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	return !ok, nil
}

// IfAnd/IfOr implement the lowest-binding boolean connectives. Both
// short-circuit, matching Grantlee's evaluation order.
type IfAnd struct{ Left, Right IfExpr }

func (n *IfAnd) Eval(ctx *runtime.Context) (value.Value, error) {
	l, err := IsTrue(n.Left, ctx)
	if err != nil || !l {
		return false, err
	}
	return IsTrue(n.Right, ctx)
}

type IfOr struct{ Left, Right IfExpr }

func (n *IfOr) Eval(ctx *runtime.Context) (value.Value, error) {
	l, err := IsTrue(n.Left, ctx)
	if err != nil || l {
		return l, err
	}
	return IsTrue(n.Right, ctx)
}

// RelOp identifies one of the if-expression's relational/membership
// operators (`if_p.h`'s infix table: ==, !=, <, >, <=, >=, in, not in).
type RelOp int

const (
	RelEq RelOp = iota
	RelNotEq
	RelLess
	RelGreater
	RelLessEq
	RelGreaterEq
	RelIn
	RelNotIn
)

// IfRel evaluates a relational/membership comparison between two evaluated
// sub-expressions (not necessarily bare leaves — Grantlee's `contains`/
// `equals` operate on the QVariant result of IfToken::evaluate, whatever
// sub-tree produced it), the Pratt grammar's highest-binding infix tier.
type IfRel struct {
	Op          RelOp
	Left, Right IfExpr
}

func (n *IfRel) Eval(ctx *runtime.Context) (value.Value, error) {
	l, err := n.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case RelEq:
		return value.Equals(l, r), nil
	case RelNotEq:
		return !value.Equals(l, r), nil
	case RelIn:
		return value.Contains(r, l), nil
	case RelNotIn:
		return !value.Contains(r, l), nil
	default:
		cmp, ok := value.Compare(l, r)
		if !ok {
			return false, nil
		}
		switch n.Op {
		case RelLess:
			return cmp < 0, nil
		case RelGreater:
			return cmp > 0, nil
		case RelLessEq:
			return cmp <= 0, nil
		case RelGreaterEq:
			return cmp >= 0, nil
		}
		return false, nil
	}
}
