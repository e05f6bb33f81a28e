package stdlib

import (
	"strings"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// regroupTag compiles `{% regroup target by key as name %}`, grounded on
// Grantlee's RegroupNodeFactory (original_source
// templates/defaulttags/regroup.cpp): exactly six space-separated words,
// the third literally "by" and the fifth literally "as".
var regroupTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := strings.Split(tag.Content, " ")
	if len(words) != 6 {
		return nil, tagErrorf(tag, "'regroup' tag takes five arguments")
	}
	target, err := p.FilterExpression(words[1])
	if err != nil {
		return nil, err
	}
	if words[2] != "by" {
		return nil, tagErrorf(tag, "second argument to 'regroup' must be 'by'")
	}
	if words[4] != "as" {
		return nil, tagErrorf(tag, "fourth argument to 'regroup' must be 'as'")
	}
	key := words[3]
	name := words[5]

	return &RegroupNode{base: newBase(tag), Target: target, Key: key, Name: name}, nil
})

// RegroupNode groups an already-sorted list into consecutive runs sharing
// the same `var.Key` value, producing a []value.Value of
// map[string]value.Value{"grouper": key, "list": [...]} records inserted
// into the context under Name (regroup.cpp's RegroupNode::render).
type RegroupNode struct {
	base
	Target *nodes.FilterExpression
	Key    string
	Name   string
}

func (n *RegroupNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	list := n.Target.ToList(ctx)
	if len(list) == 0 {
		ctx.Insert(n.Name, map[string]value.Value{})
		return nil
	}

	keyExpr := &nodes.FilterExpression{Base: nodes.NewVariableExpr("var." + n.Key)}

	var groups []value.Value
	for _, item := range list {
		ctx.Push()
		ctx.Insert("var", item)
		keyVal, err := keyExpr.Resolve(ctx)
		ctx.Pop()
		if err != nil {
			return err
		}
		key := value.ToString(keyVal)

		if len(groups) > 0 {
			last := groups[len(groups)-1].(map[string]value.Value)
			if last["grouper"] == key {
				last["list"] = append(last["list"].([]value.Value), item)
				continue
			}
		}
		groups = append(groups, map[string]value.Value{
			"grouper": key,
			"list":    []value.Value{item},
		})
	}

	out := make([]value.Value, len(groups))
	copy(out, groups)
	ctx.Insert(n.Name, out)
	return nil
}
