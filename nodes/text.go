package nodes

import "github.com/deicod/dtl/runtime"

// TextNode renders a literal source span verbatim, with no escaping and no
// variable resolution (SPEC_FULL.md §4.5). It is the only node type
// NodeList.Collapse merges runs of.
type TextNode struct {
	base
	Text string
}

func NewTextNode(pos Position, text string) *TextNode {
	return &TextNode{base: base{Pos: pos}, Text: text}
}

func (t *TextNode) Render(stream *runtime.OutputStream, _ *runtime.Context) error {
	return stream.WriteString(t.Text)
}

func (t *TextNode) IsText() bool { return true }
