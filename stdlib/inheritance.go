package stdlib

import (
	"strings"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// blockContextScratchKey is the well-known Context.Scratch() key the
// extends/block tags share a single *runtime.BlockContext under for the
// duration of one render (SPEC_FULL.md §3, §9 "IncludeNode after-include
// block cleanup" open question resolution).
const blockContextScratchKey = "dtl.blockcontext"

// blockContextOf returns ctx's shared BlockContext, creating it on first use.
func blockContextOf(ctx *runtime.Context) *runtime.BlockContext {
	scratch := ctx.Scratch()
	if bc, ok := scratch[blockContextScratchKey].(*runtime.BlockContext); ok {
		return bc
	}
	bc := runtime.NewBlockContext()
	scratch[blockContextScratchKey] = bc
	return bc
}

// extendsTag compiles `{% extends parent %}`, grounded on SPEC_FULL.md
// §4.5.1 (no Grantlee extends/block .cpp file was retrieved for this pack;
// the BlockContext mechanism it builds on is grounded on
// original_source blockcontext.cpp referenced by include.cpp). A quoted
// literal compiles to a fixed parent name; anything else to a dynamic
// FilterExpression resolved at render time.
var extendsTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)
	if len(words) != 2 {
		return nil, tagErrorf(tag, "'extends' tag takes one argument")
	}
	arg := words[1]

	n := &ExtendsNode{base: newBase(tag)}
	if isQuoted(arg) {
		n.ParentName = arg[1 : len(arg)-1]
	} else {
		fe, err := p.FilterExpression(arg)
		if err != nil {
			return nil, err
		}
		n.ParentExpr = fe
	}

	body, err := p.Parse()
	if err != nil {
		return nil, err
	}
	n.Body = body
	return n, nil
})

// ExtendsNode is legal only as the first non-text tag of a template
// (SPEC_FULL.md §4.5.1): it registers every BlockNode reachable from its own
// Body into the render's BlockContext, then renders the parent template's
// compiled node list in its place.
type ExtendsNode struct {
	base
	ParentName string
	ParentExpr *nodes.FilterExpression
	Body       *nodes.NodeList
}

func (n *ExtendsNode) MustBeFirst() bool { return true }

func (n *ExtendsNode) ChildLists() []*nodes.NodeList { return []*nodes.NodeList{n.Body} }

func (n *ExtendsNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	name := n.ParentName
	if n.ParentExpr != nil {
		v, err := n.ParentExpr.Resolve(ctx)
		if err != nil {
			return err
		}
		name = strings.TrimSpace(value.ToString(v))
	}

	loader := ctx.Loader()
	if loader == nil {
		return &tagError{Message: "cannot extend " + name + ": no template loader configured"}
	}
	parent, err := loader.LoadByName(name)
	if err != nil {
		return &tagError{Message: "template not found " + name}
	}

	bc := blockContextOf(ctx)
	for _, blk := range collectBlocks(n.Body) {
		bc.Push(blk.Name, blk)
	}

	return parent.Render(stream, ctx)
}

// collectBlocks recursively finds every BlockNode reachable from list,
// including those nested inside for/if/other child NodeLists.
func collectBlocks(list *nodes.NodeList) []*BlockNode {
	var out []*BlockNode
	for _, n := range list.Nodes() {
		if b, ok := n.(*BlockNode); ok {
			out = append(out, b)
		}
		if holder, ok := n.(childLister); ok {
			for _, child := range holder.ChildLists() {
				out = append(out, collectBlocks(child)...)
			}
		}
	}
	return out
}

type childLister interface {
	ChildLists() []*nodes.NodeList
}

// blockTag compiles `{% block name %}...{% endblock %}`.
var blockTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)
	if len(words) != 2 {
		return nil, tagErrorf(tag, "'block' tag takes one argument")
	}
	n := &BlockNode{base: newBase(tag), Name: words[1]}

	body, err := p.Parse("endblock")
	if err != nil {
		return nil, err
	}
	n.Body = body
	p.NextToken() // consume endblock

	return n, nil
})

// BlockNode is both a template-literal body and a potential override target
// (SPEC_FULL.md §4.5.1). Only the least-derived occurrence of a given block
// name is ever actually walked by a tree render (the one compiled into the
// template that does not itself extend anything, or — if no `{% extends %}`
// chain is involved at all — the only occurrence there is): every more
// derived occurrence was instead registered into the BlockContext by its
// owning ExtendsNode and is never rendered directly. On render, a BlockNode
// therefore first registers its own body as the next (least-derived-so-far)
// entry for its name, then renders whichever entry is most-derived overall,
// giving that entry's body access to `{{ block.super }}` for walking back
// down the chain one level at a time.
type BlockNode struct {
	base
	Name string
	Body *nodes.NodeList
}

func (n *BlockNode) ChildLists() []*nodes.NodeList { return []*nodes.NodeList{n.Body} }

func (n *BlockNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	bc := blockContextOf(ctx)
	bc.Push(n.Name, n)

	top, _ := bc.Top(n.Name)
	target, ok := top.(*BlockNode)
	if !ok {
		target = n
	}
	return target.renderAt(stream, ctx, bc, 0)
}

// renderAt renders n's own Body with `block` bound to a blockVar at depth
// level in bc's stack for n.Name, so `{{ block.super }}` inside the body
// can walk to level+1.
func (n *BlockNode) renderAt(stream *runtime.OutputStream, ctx *runtime.Context, bc *runtime.BlockContext, level int) error {
	defer ctx.PushScope()()
	ctx.Insert("block", &blockVar{ctx: ctx, bc: bc, name: n.Name, level: level})
	return n.Body.Render(stream, ctx)
}

// blockVar is the `block` context variable inside a rendering BlockNode's
// body, exposing only the `super` attribute.
type blockVar struct {
	ctx   *runtime.Context
	bc    *runtime.BlockContext
	name  string
	level int
}

func (b *blockVar) GetAttr(attr string) (value.Value, bool) {
	if attr != "super" {
		return nil, false
	}
	super, ok := b.bc.At(b.name, b.level+1)
	if !ok {
		return value.Safe(""), true
	}
	superBlock, ok := super.(*BlockNode)
	if !ok {
		return value.Safe(""), true
	}
	stream, buf := runtime.NewBufferedOutputStream()
	if err := superBlock.renderAt(stream, b.ctx, b.bc, b.level+1); err != nil {
		return value.Safe(""), true
	}
	return value.Safe(buf.String()), true
}
