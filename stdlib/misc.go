package stdlib

import (
	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// commentTag compiles `{% comment %}...{% endcomment %}`, grounded on
// Grantlee's CommentNodeFactory (original_source
// templates/defaulttags/comment.cpp): the body is discarded unparsed via
// SkipPast, so malformed tags/expressions inside it never reach the parser.
var commentTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	if err := p.SkipPast("endcomment"); err != nil {
		return nil, err
	}
	return &CommentNode{base: newBase(tag)}, nil
})

// CommentNode always renders as the empty string.
type CommentNode struct{ base }

func (n *CommentNode) IsText() bool { return true }

func (n *CommentNode) Render(*runtime.OutputStream, *runtime.Context) error { return nil }

// loadTag compiles `{% load name1 name2 ... %}`, grounded on Grantlee's
// LoadNodeFactory (original_source templates/defaulttags/load.cpp). Its
// effect is entirely at parse time (SPEC_FULL.md §4.5): each named library
// is merged into the parser's registries immediately, and the compiled
// LoadNode itself renders as nothing.
var loadTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) == 0 {
		return nil, tagErrorf(tag, "'load' tag takes at least one argument")
	}
	for _, name := range words {
		if err := p.LoadLibrary(name); err != nil {
			return nil, err
		}
	}
	return &LoadNode{base: newBase(tag)}, nil
})

// LoadNode always renders as the empty string; its side effect already
// happened at parse time inside loadTag.
type LoadNode struct{ base }

func (n *LoadNode) IsText() bool { return true }

func (n *LoadNode) Render(*runtime.OutputStream, *runtime.Context) error { return nil }

// firstofTag compiles `{% firstof a b ... "default" %}`, grounded on
// Grantlee's FirstOfNodeFactory (original_source
// templates/defaulttags/firstof.cpp): one or more filter expressions,
// smart-split so a quoted literal with embedded spaces stays one argument.
var firstofTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) == 0 {
		return nil, tagErrorf(tag, "'firstof' statement requires at least one argument")
	}
	n := &FirstOfNode{base: newBase(tag)}
	for _, w := range words {
		fe, err := p.FilterExpression(w)
		if err != nil {
			return nil, err
		}
		n.Exprs = append(n.Exprs, fe)
	}
	return n, nil
})

// FirstOfNode evaluates its FilterExpressions in order, writing the first
// one whose resolved value is truthy and stopping there (firstof.cpp's
// FirstOfNode::render).
type FirstOfNode struct {
	base
	Exprs []*nodes.FilterExpression
}

func (n *FirstOfNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	for _, fe := range n.Exprs {
		v, err := fe.Resolve(ctx)
		if err != nil {
			return err
		}
		if !value.IsTrue(v) {
			continue
		}
		return stream.WriteValue(v, ctx.AutoEscape())
	}
	return nil
}

// autoescapeTag compiles `{% autoescape on|off %}...{% endautoescape %}`,
// grounded on Grantlee's AutoescapeNodeFactory (original_source
// templates/defaulttags/autoescape.cpp).
var autoescapeTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)
	if len(words) != 2 {
		return nil, tagErrorf(tag, "'autoescape' tag requires exactly one argument")
	}
	var on bool
	switch words[1] {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return nil, tagErrorf(tag, "'autoescape' argument should be 'on' or 'off'")
	}

	n := &AutoescapeNode{base: newBase(tag), On: on}
	body, err := p.Parse("endautoescape")
	if err != nil {
		return nil, err
	}
	n.Body = body
	p.NextToken() // consume endautoescape
	return n, nil
})

// AutoescapeNode toggles Context.AutoEscape for the duration of Body,
// restoring the prior value on every exit path (SPEC_FULL.md §4.5).
type AutoescapeNode struct {
	base
	On   bool
	Body *nodes.NodeList
}

func (n *AutoescapeNode) ChildLists() []*nodes.NodeList { return []*nodes.NodeList{n.Body} }

func (n *AutoescapeNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	defer ctx.SetAutoEscape(n.On)()
	return n.Body.Render(stream, ctx)
}
