package stdlib

import (
	"strings"
	"time"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/value"
)

// nowTag compiles `{% now "FORMAT" %}`, grounded on Grantlee's NowNodeFactory
// (original_source templates/defaulttags/now.cpp): the tag's content split on
// `"` must yield exactly three parts, the middle one a verbatim format
// string.
var nowTag = nodes.NodeFactoryFunc(func(tag lexer.Token, p nodes.TagParser) (nodes.Node, error) {
	parts := strings.Split(tag.Content, `"`)
	if len(parts) != 3 {
		return nil, tagErrorf(tag, "now tag takes one argument")
	}
	return &NowNode{base: newBase(tag), Format: parts[1]}, nil
})

// NowNode writes the current wall-clock time formatted by Format, a
// Qt-QDateTime-style pattern translated to Go's reference-time layout by
// qtTimeLayout. Always volatile: its text may differ between two renders,
// so it is never collapsed into a neighboring TextNode (SPEC_FULL.md §9).
type NowNode struct {
	base
	Format string
}

func (n *NowNode) IsVolatile() bool { return true }

func (n *NowNode) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	text := time.Now().Format(qtTimeLayout(n.Format))
	return stream.WriteValue(value.Safe(text), ctx.AutoEscape())
}

// qtTimeLayout translates a subset of Qt's QDateTime::toString format
// letters into a Go reference-time layout string, longest tokens first so
// "yyyy" is not shadowed by "yy".
func qtTimeLayout(format string) string {
	replacer := strings.NewReplacer(
		"yyyy", "2006",
		"yy", "06",
		"MM", "01",
		"M", "1",
		"dd", "02",
		"d", "2",
		"HH", "15",
		"H", "15",
		"hh", "03",
		"h", "3",
		"mm", "04",
		"m", "4",
		"ss", "05",
		"s", "5",
		"AP", "PM",
		"ap", "pm",
	)
	return replacer.Replace(format)
}
