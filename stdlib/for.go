package stdlib

import (
	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// forTag compiles `{% for x in y %}...{% empty %}...{% endfor %}`,
// grounded on Grantlee's ForNodeFactory::getNode (original_source
// templates/defaulttags/for.cpp): at least four words, an optional trailing
// `reversed`, comma-separated unpack variables before `in`, and an
// `empty` branch rendered when the iterable is empty.
var forTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)
	if len(words) < 4 {
		return nil, tagErrorf(tag, "'for' statements should have at least four words: %s", tag.Content)
	}
	words = words[1:] // drop "for"

	reversed := false
	if words[len(words)-1] == "reversed" {
		reversed = true
		words = words[:len(words)-1]
	}

	if words[len(words)-2] != "in" {
		return nil, tagErrorf(tag, "'for' statements should use the form 'for x in y': %s", tag.Content)
	}

	var loopVars []string
	for _, w := range words[:len(words)-2] {
		for _, part := range splitComma(w) {
			if part == "" {
				return nil, tagErrorf(tag, "'for' tag received invalid argument")
			}
			loopVars = append(loopVars, part)
		}
	}

	fe, err := p.FilterExpression(words[len(words)-1])
	if err != nil {
		return nil, err
	}

	n := &ForNode{
		base:     newBase(tag),
		LoopVars: loopVars,
		Expr:     fe,
		Reversed: reversed,
	}

	body, err := p.Parse("empty", "endfor")
	if err != nil {
		return nil, err
	}
	n.Body = body

	next, ok := p.NextToken()
	if ok && tagWord(next.Content) == "empty" {
		empty, err := p.Parse("endfor")
		if err != nil {
			return nil, err
		}
		n.Empty = empty
		p.NextToken() // consume endfor
	}

	return n, nil
})

// ForNode renders its Body once per element of Expr, injecting the
// `forloop`/`parentloop` bookkeeping hash Grantlee's ForNode::render does
// (for.cpp), or Empty when Expr resolves to no elements.
type ForNode struct {
	base
	LoopVars []string
	Expr     *nodes.FilterExpression
	Reversed bool
	Body     *nodes.NodeList
	Empty    *nodes.NodeList
}

func (n *ForNode) ChildLists() []*nodes.NodeList {
	lists := []*nodes.NodeList{n.Body}
	if n.Empty != nil {
		lists = append(lists, n.Empty)
	}
	return lists
}

func (n *ForNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	parent, hasParent := ctx.Lookup("forloop")
	if hasParent {
		defer func() {
			ctx.Insert("forloop", parent)
		}()
	}

	defer ctx.PushScope()()

	v, err := n.Expr.Resolve(ctx)
	if err != nil {
		return err
	}
	list, ok := value.ToList(v)
	if !ok || len(list) == 0 {
		if n.Empty != nil {
			return n.Empty.Render(stream, ctx)
		}
		return nil
	}

	if n.Reversed {
		list = reversedCopy(list)
	}

	size := len(list)
	unpack := len(n.LoopVars) > 1

	for i, item := range list {
		forloop := map[string]value.Value{
			"counter0":    int64(i),
			"counter":     int64(i + 1),
			"revcounter":  int64(size - i),
			"revcounter0": int64(size - i - 1),
			"first":       i == 0,
			"last":        i == size-1,
		}
		if hasParent {
			forloop["parentloop"] = parent
		}
		ctx.Insert("forloop", forloop)

		assignLoopVars(ctx, n.LoopVars, item, unpack)

		if err := n.Body.Render(stream, ctx); err != nil {
			return err
		}
	}
	return nil
}

// assignLoopVars binds item into ctx under the for tag's loop variable
// names, unpacking a list/map item across multiple names per Grantlee's
// unpack branch (for.cpp).
func assignLoopVars(ctx *runtime.Context, loopVars []string, item value.Value, unpack bool) {
	if !unpack {
		ctx.Insert(loopVars[0], item)
		return
	}
	if list, ok := item.([]value.Value); ok {
		for j, name := range loopVars {
			if j < len(list) {
				ctx.Insert(name, list[j])
			} else {
				ctx.Insert(name, nil)
			}
		}
		return
	}
	for _, name := range loopVars {
		ctx.Push()
		ctx.Insert("__for_var__", item)
		resolved, _ := (&nodes.FilterExpression{Base: nodes.NewVariableExpr("__for_var__." + name)}).Resolve(ctx)
		ctx.Pop()
		ctx.Insert(name, resolved)
	}
}

func reversedCopy(in []value.Value) []value.Value {
	out := make([]value.Value, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func splitComma(s string) []string {
	var parts []string
	var cur []byte
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			parts = append(parts, string(cur))
			cur = nil
			continue
		}
		cur = append(cur, s[i])
	}
	parts = append(parts, string(cur))
	return parts
}
