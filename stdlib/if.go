package stdlib

import (
	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
)

// ifTag compiles `{% if expr %}...{% elif expr %}...{% else %}...{% endif %}`.
// The boolean/relational expression grammar is a Pratt parser (operator
// precedence parsing) grounded exactly on Grantlee's IfParser/IfToken
// (original_source templates/defaulttags/if_p.h): `or`=6, `and`=7, prefix
// `not`=8, `in`/`not in`=9, the six relational operators=10, everything
// else a FilterExpression leaf.
var ifTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	n := &IfNode{base: newBase(tag)}

	words := p.SmartSplit(tag.Content)[1:] // drop "if"
	expr, err := parseIfExpr(words, p)
	if err != nil {
		return nil, err
	}
	n.Branches = append(n.Branches, ifBranch{Cond: expr})

	for {
		body, err := p.Parse("elif", "else", "endif")
		if err != nil {
			return nil, err
		}
		n.Branches[len(n.Branches)-1].Body = body

		next, ok := p.NextToken()
		if !ok {
			return nil, tagErrorf(tag, "unclosed 'if' tag")
		}
		switch tagWord(next.Content) {
		case "endif":
			return n, nil
		case "else":
			body, err := p.Parse("endif")
			if err != nil {
				return nil, err
			}
			n.Else = body
			p.NextToken() // consume endif
			return n, nil
		case "elif":
			elifWords := p.SmartSplit(next.Content)[1:]
			cond, err := parseIfExpr(elifWords, p)
			if err != nil {
				return nil, err
			}
			n.Branches = append(n.Branches, ifBranch{Cond: cond})
		}
	}
})

type ifBranch struct {
	Cond nodes.IfExpr
	Body *nodes.NodeList
}

// IfNode renders the body of the first branch whose condition evaluates
// true, falling back to Else.
type IfNode struct {
	base
	Branches []ifBranch
	Else     *nodes.NodeList
}

func (n *IfNode) ChildLists() []*nodes.NodeList {
	lists := make([]*nodes.NodeList, 0, len(n.Branches)+1)
	for _, b := range n.Branches {
		lists = append(lists, b.Body)
	}
	if n.Else != nil {
		lists = append(lists, n.Else)
	}
	return lists
}

// Render evaluates each branch's condition in turn. An error raised while
// evaluating a condition is caught and treated as false, not propagated
// (SPEC_FULL.md §4.4/§7: "any exception raised during an if-evaluation is
// caught and treated as false"), so a later branch or the else clause still
// gets a chance to render.
func (n *IfNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	for _, b := range n.Branches {
		ok, err := nodes.IsTrue(b.Cond, ctx)
		if err == nil && ok {
			return b.Body.Render(stream, ctx)
		}
	}
	if n.Else != nil {
		return n.Else.Render(stream, ctx)
	}
	return nil
}

// --- Pratt parser over the if tag's smart-split words ---

type ifOpInfo struct {
	lbp int
	rel nodes.RelOp
	kind string // "literal", "or", "and", "not", "rel"
}

var ifOps = map[string]ifOpInfo{
	"or":     {lbp: 6, kind: "or"},
	"and":    {lbp: 7, kind: "and"},
	"not":    {lbp: 8, kind: "not"},
	"in":     {lbp: 9, kind: "rel", rel: nodes.RelIn},
	"not in": {lbp: 9, kind: "rel", rel: nodes.RelNotIn},
	"==":     {lbp: 10, kind: "rel", rel: nodes.RelEq},
	"!=":     {lbp: 10, kind: "rel", rel: nodes.RelNotEq},
	">":      {lbp: 10, kind: "rel", rel: nodes.RelGreater},
	">=":     {lbp: 10, kind: "rel", rel: nodes.RelGreaterEq},
	"<":      {lbp: 10, kind: "rel", rel: nodes.RelLess},
	"<=":     {lbp: 10, kind: "rel", rel: nodes.RelLessEq},
}

type ifPratt struct {
	words []string
	pos   int
	p     nodes.TagParser
}

func parseIfExpr(words []string, p nodes.TagParser) (nodes.IfExpr, error) {
	pr := &ifPratt{words: joinNotIn(words), p: p}
	expr, err := pr.expression(0)
	if err != nil {
		return nil, err
	}
	if pr.pos != len(pr.words) {
		return nil, &tagError{Message: "unused token at end of if expression: " + pr.words[pr.pos]}
	}
	return expr, nil
}

// joinNotIn merges an adjacent "not", "in" pair into a single "not in"
// pseudo-word, mirroring IfParser's constructor scan (if_p.h).
func joinNotIn(words []string) []string {
	var out []string
	for i := 0; i < len(words); i++ {
		if words[i] == "not" && i+1 < len(words) && words[i+1] == "in" {
			out = append(out, "not in")
			i++
			continue
		}
		out = append(out, words[i])
	}
	return out
}

func (pr *ifPratt) peekLBP() int {
	if pr.pos >= len(pr.words) {
		return -1
	}
	if op, ok := ifOps[pr.words[pr.pos]]; ok {
		return op.lbp
	}
	return -1
}

func (pr *ifPratt) next() (string, bool) {
	if pr.pos >= len(pr.words) {
		return "", false
	}
	w := pr.words[pr.pos]
	pr.pos++
	return w, true
}

// expression implements the classic Pratt nud/led loop directly (rather
// than building an explicit token tree of nud/led closures, as if_p.h
// does): nud handles a leaf or prefix `not`, then the loop folds in
// higher-binding infix operators while they remain.
func (pr *ifPratt) expression(rbp int) (nodes.IfExpr, error) {
	tok, ok := pr.next()
	if !ok {
		return nil, &tagError{Message: "unexpected end of if expression"}
	}

	var left nodes.IfExpr
	if op, isOp := ifOps[tok]; isOp {
		if op.kind != "not" {
			return nil, &tagError{Message: "not expecting '" + tok + "' in this position in if tag"}
		}
		operand, err := pr.expression(op.lbp)
		if err != nil {
			return nil, err
		}
		left = &nodes.IfNot{Operand: operand}
	} else {
		fe, err := pr.p.FilterExpression(tok)
		if err != nil {
			return nil, err
		}
		left = &nodes.IfLeaf{Expr: fe}
	}

	for rbp < pr.peekLBP() {
		opTok, _ := pr.next()
		op := ifOps[opTok]
		switch op.kind {
		case "or", "and":
			right, err := pr.expression(op.lbp)
			if err != nil {
				return nil, err
			}
			if op.kind == "or" {
				left = &nodes.IfOr{Left: left, Right: right}
			} else {
				left = &nodes.IfAnd{Left: left, Right: right}
			}
		case "rel":
			right, err := pr.expression(op.lbp)
			if err != nil {
				return nil, err
			}
			left = &nodes.IfRel{Op: op.rel, Left: left, Right: right}
		default:
			return nil, &tagError{Message: "not expecting '" + opTok + "' as infix operator in if tag"}
		}
	}
	return left, nil
}
