package nodes

import "github.com/deicod/dtl/runtime"

// VariableNode renders a `{{ ... }}` interpolation: resolve its
// FilterExpression, then write the result through the stream's auto-escape
// discipline (SPEC_FULL.md §4.5).
type VariableNode struct {
	base
	Expr *FilterExpression
}

func NewVariableNode(pos Position, expr *FilterExpression) *VariableNode {
	return &VariableNode{base: base{Pos: pos}, Expr: expr}
}

func (n *VariableNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	v, err := n.Expr.Resolve(ctx)
	if err != nil {
		return err
	}
	return stream.WriteValue(v, ctx.AutoEscape())
}
