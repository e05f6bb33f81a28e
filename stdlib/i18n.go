package stdlib

import (
	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// i18ncTag compiles `{% i18nc "context" "source" arg1 arg2 ... %}`, grounded
// on Grantlee's I18ncNodeFactory (original_source templates/i18n/i18nc.cpp):
// at least two quoted-string arguments (context, then source text), the
// rest FilterExpressions passed through to the localizer as printf-style
// arguments.
var i18ncTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) < 2 {
		return nil, tagErrorf(tag, "i18nc tag takes at least two arguments")
	}
	context, ok := unquoteTagArg(words[0])
	if !ok {
		return nil, tagErrorf(tag, "i18nc tag first argument must be a static string")
	}
	source, ok := unquoteTagArg(words[1])
	if !ok {
		return nil, tagErrorf(tag, "i18nc tag second argument must be a static string")
	}
	args, err := compileFilterExpressions(p, words[2:])
	if err != nil {
		return nil, err
	}
	return &I18ncNode{base: newBase(tag), Context: context, Source: source, Args: args}, nil
})

// i18ncVarTag compiles `{% i18nc_var "context" "source" arg1 ... as name %}`
// (i18nc.cpp's I18ncVarNodeFactory): identical to i18ncTag but the trailing
// word is the context variable name the result is stored under instead of
// being streamed.
var i18ncVarTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) < 4 {
		return nil, tagErrorf(tag, "i18nc_var tag takes at least four arguments")
	}
	context, ok := unquoteTagArg(words[0])
	if !ok {
		return nil, tagErrorf(tag, "i18nc_var tag first argument must be a static string")
	}
	source, ok := unquoteTagArg(words[1])
	if !ok {
		return nil, tagErrorf(tag, "i18nc_var tag second argument must be a static string")
	}
	resultName := words[len(words)-1]
	argEnd := len(words) - 1
	if words[argEnd-1] == "as" {
		argEnd--
	}
	args, err := compileFilterExpressions(p, words[2:argEnd])
	if err != nil {
		return nil, err
	}
	return &I18ncVarNode{base: newBase(tag), Context: context, Source: source, Args: args, ResultName: resultName}, nil
})

// I18ncNode delegates to ctx.Localizer().LocalizeContextString, streaming
// the translated string (i18nc.cpp's I18ncNode::render).
type I18ncNode struct {
	base
	Context, Source string
	Args            []*nodes.FilterExpression
}

func (n *I18ncNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	s, err := n.localize(ctx)
	if err != nil {
		return err
	}
	return stream.WriteValue(value.Safe(s), ctx.AutoEscape())
}

func (n *I18ncNode) localize(ctx *runtime.Context) (string, error) {
	args, err := resolveAll(ctx, n.Args)
	if err != nil {
		return "", err
	}
	loc := ctx.Localizer()
	if loc == nil {
		return n.Source, nil
	}
	return loc.LocalizeContextString(n.Source, n.Context, args)
}

// I18ncVarNode is I18ncNode's *Var sibling: stores the translated string
// under ResultName instead of streaming it.
type I18ncVarNode struct {
	base
	Context, Source string
	Args            []*nodes.FilterExpression
	ResultName      string
}

func (n *I18ncVarNode) Render(_ *runtime.OutputStream, ctx *runtime.Context) error {
	args, err := resolveAll(ctx, n.Args)
	if err != nil {
		return err
	}
	s := n.Source
	if loc := ctx.Localizer(); loc != nil {
		s, err = loc.LocalizeContextString(n.Source, n.Context, args)
		if err != nil {
			return err
		}
	}
	ctx.Insert(n.ResultName, value.Safe(s))
	return nil
}

// i18npTag compiles `{% i18np "source" "plural" count arg1 ... %}`, grounded
// on the I18npNode shape declared in original_source templates/i18n/i18np.h
// (no .cpp was retrieved for this pack; the count-then-args argument order
// follows the Localizer contract's `localizePluralString(src, plural, n,
// args)` signature, SPEC_FULL.md §6 — documented here since it is inferred
// rather than lifted verbatim from a .cpp body).
var i18npTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) < 3 {
		return nil, tagErrorf(tag, "i18np tag takes at least three arguments")
	}
	source, ok := unquoteTagArg(words[0])
	if !ok {
		return nil, tagErrorf(tag, "i18np tag first argument must be a static string")
	}
	plural, ok := unquoteTagArg(words[1])
	if !ok {
		return nil, tagErrorf(tag, "i18np tag second argument must be a static string")
	}
	count, err := p.FilterExpression(words[2])
	if err != nil {
		return nil, err
	}
	args, err := compileFilterExpressions(p, words[3:])
	if err != nil {
		return nil, err
	}
	return &I18npNode{base: newBase(tag), Source: source, Plural: plural, Count: count, Args: args}, nil
})

// i18npVarTag compiles `{% i18np_var "source" "plural" count arg1 ... as
// name %}`.
var i18npVarTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	words := p.SmartSplit(tag.Content)[1:]
	if len(words) < 5 {
		return nil, tagErrorf(tag, "i18np_var tag takes at least five arguments")
	}
	source, ok := unquoteTagArg(words[0])
	if !ok {
		return nil, tagErrorf(tag, "i18np_var tag first argument must be a static string")
	}
	plural, ok := unquoteTagArg(words[1])
	if !ok {
		return nil, tagErrorf(tag, "i18np_var tag second argument must be a static string")
	}
	count, err := p.FilterExpression(words[2])
	if err != nil {
		return nil, err
	}
	resultName := words[len(words)-1]
	argEnd := len(words) - 1
	if words[argEnd-1] == "as" {
		argEnd--
	}
	args, err := compileFilterExpressions(p, words[3:argEnd])
	if err != nil {
		return nil, err
	}
	return &I18npVarNode{base: newBase(tag), Source: source, Plural: plural, Count: count, Args: args, ResultName: resultName}, nil
})

// I18npNode delegates to ctx.Localizer().LocalizePluralString, streaming the
// result.
type I18npNode struct {
	base
	Source, Plural string
	Count          *nodes.FilterExpression
	Args           []*nodes.FilterExpression
}

func (n *I18npNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	s, err := n.localize(ctx)
	if err != nil {
		return err
	}
	return stream.WriteValue(value.Safe(s), ctx.AutoEscape())
}

func (n *I18npNode) localize(ctx *runtime.Context) (string, error) {
	cv, err := n.Count.Resolve(ctx)
	if err != nil {
		return "", err
	}
	count, _ := value.AsInt(cv)
	args, err := resolveAll(ctx, n.Args)
	if err != nil {
		return "", err
	}
	loc := ctx.Localizer()
	if loc == nil {
		if count == 1 {
			return n.Source, nil
		}
		return n.Plural, nil
	}
	return loc.LocalizePluralString(n.Source, n.Plural, count, args)
}

// I18npVarNode is I18npNode's *Var sibling.
type I18npVarNode struct {
	base
	Source, Plural string
	Count          *nodes.FilterExpression
	Args           []*nodes.FilterExpression
	ResultName     string
}

func (n *I18npVarNode) Render(_ *runtime.OutputStream, ctx *runtime.Context) error {
	cv, err := n.Count.Resolve(ctx)
	if err != nil {
		return err
	}
	count, _ := value.AsInt(cv)
	args, err := resolveAll(ctx, n.Args)
	if err != nil {
		return err
	}
	s := n.Source
	if count != 1 {
		s = n.Plural
	}
	if loc := ctx.Localizer(); loc != nil {
		s, err = loc.LocalizePluralString(n.Source, n.Plural, count, args)
		if err != nil {
			return err
		}
	}
	ctx.Insert(n.ResultName, value.Safe(s))
	return nil
}

// unquoteTagArg strips a required surrounding quote pair from a tag
// argument word, reporting false if s is not quoted at all.
func unquoteTagArg(s string) (string, bool) {
	if !isQuoted(s) {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// compileFilterExpressions compiles each raw word into a FilterExpression.
func compileFilterExpressions(p nodes.TagParser, words []string) ([]*nodes.FilterExpression, error) {
	out := make([]*nodes.FilterExpression, 0, len(words))
	for _, w := range words {
		fe, err := p.FilterExpression(w)
		if err != nil {
			return nil, err
		}
		out = append(out, fe)
	}
	return out, nil
}

// resolveAll resolves each compiled FilterExpression against ctx, in order.
func resolveAll(ctx *runtime.Context, exprs []*nodes.FilterExpression) ([]value.Value, error) {
	out := make([]value.Value, 0, len(exprs))
	for _, fe := range exprs {
		v, err := fe.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
