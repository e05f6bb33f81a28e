package stdlib

import (
	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// rangeTag compiles `{% range start stop [step] [as name] %}...{% endrange %}`,
// grounded on Grantlee's RangeNodeFactory (original_source
// templates/defaulttags/range.cpp): one argument is stop alone (start
// defaults to 0), two is start/stop, three is start/stop/step, with an
// optional trailing `as name` consumed first.
var rangeTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	numArgs := len(words)
	if numArgs == 0 {
		return nil, tagErrorf(tag, "'range' tag requires at least three arguments")
	}

	var name string
	if numArgs >= 2 && words[numArgs-2] == "as" {
		name = words[numArgs-1]
		words = words[:numArgs-2]
		numArgs = len(words)
	}

	n := &RangeNode{base: newBase(tag), Name: name}
	switch numArgs {
	case 1:
		n.Start = &nodes.FilterExpression{Base: nodes.NewLiteralExpr(int64(0))}
		stop, err := p.FilterExpression(words[0])
		if err != nil {
			return nil, err
		}
		n.Stop = stop
	case 2:
		start, err := p.FilterExpression(words[0])
		if err != nil {
			return nil, err
		}
		stop, err := p.FilterExpression(words[1])
		if err != nil {
			return nil, err
		}
		n.Start, n.Stop = start, stop
	case 3:
		start, err := p.FilterExpression(words[0])
		if err != nil {
			return nil, err
		}
		stop, err := p.FilterExpression(words[1])
		if err != nil {
			return nil, err
		}
		step, err := p.FilterExpression(words[2])
		if err != nil {
			return nil, err
		}
		n.Start, n.Stop, n.Step = start, stop, step
	default:
		return nil, tagErrorf(tag, "invalid arguments to 'range' tag")
	}

	body, err := p.Parse("endrange")
	if err != nil {
		return nil, err
	}
	n.Body = body
	p.NextToken() // consume endrange

	return n, nil
})

// RangeNode renders Body once per integer in [Start, Stop), stepping by Step
// (default 1), optionally binding the loop integer to Name for the duration
// of each iteration — a scope push/pop per iteration only when Name is set,
// matching RangeNode::render's `insertContext` guard (range.cpp).
type RangeNode struct {
	base
	Name             string
	Start, Stop, Step *nodes.FilterExpression
	Body             *nodes.NodeList
}

func (n *RangeNode) ChildLists() []*nodes.NodeList { return []*nodes.NodeList{n.Body} }

func (n *RangeNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	startV, err := n.Start.Resolve(ctx)
	if err != nil {
		return err
	}
	stopV, err := n.Stop.Resolve(ctx)
	if err != nil {
		return err
	}
	start, _ := value.AsInt(startV)
	stop, _ := value.AsInt(stopV)
	step := 1
	if n.Step != nil {
		stepV, err := n.Step.Resolve(ctx)
		if err != nil {
			return err
		}
		if s, ok := value.AsInt(stepV); ok {
			step = s
		}
	}
	if step == 0 {
		step = 1
	}
	if step < 0 && start < stop {
		return nil
	}

	insertContext := n.Name != ""
	for i := start; i < stop; i += step {
		if insertContext {
			ctx.Push()
			ctx.Insert(n.Name, int64(i))
		}
		err := n.Body.Render(stream, ctx)
		if insertContext {
			ctx.Pop()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
