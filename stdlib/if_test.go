package stdlib

import (
	"errors"
	"testing"

	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

func erroringExpr() *nodes.FilterExpression {
	return &nodes.FilterExpression{
		Base: nodes.NewLiteralExpr(true),
		Filters: []nodes.FilterCall{
			{Name: "boom", Filter: func(value.Value, value.Value, bool) (value.Value, error) {
				return nil, errors.New("boom")
			}},
		},
	}
}

func literalNodeList(t *testing.T, text string) *nodes.NodeList {
	t.Helper()
	list := nodes.NewNodeList()
	list.Append(nodes.NewTextNode(nodes.Position{}, text))
	return list
}

func TestIfNodeSwallowsConditionErrorAndFallsThrough(t *testing.T) {
	n := &IfNode{
		Branches: []ifBranch{
			{Cond: &nodes.IfLeaf{Expr: erroringExpr()}, Body: literalNodeList(t, "first")},
		},
		Else: literalNodeList(t, "else"),
	}

	stream, buf := runtime.NewBufferedOutputStream()
	ctx := runtime.NewContext(nil)
	if err := n.Render(stream, ctx); err != nil {
		t.Fatalf("expected condition error to be swallowed, got %v", err)
	}
	if buf.String() != "else" {
		t.Fatalf("expected fall-through to else, got %q", buf.String())
	}
}

func TestIfNodeSwallowsConditionErrorAndTriesNextBranch(t *testing.T) {
	n := &IfNode{
		Branches: []ifBranch{
			{Cond: &nodes.IfLeaf{Expr: erroringExpr()}, Body: literalNodeList(t, "first")},
			{Cond: &nodes.IfLeaf{Expr: &nodes.FilterExpression{Base: nodes.NewLiteralExpr(true)}}, Body: literalNodeList(t, "second")},
		},
	}

	stream, buf := runtime.NewBufferedOutputStream()
	ctx := runtime.NewContext(nil)
	if err := n.Render(stream, ctx); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "second" {
		t.Fatalf("expected second branch to render, got %q", buf.String())
	}
}
