package nodes

import "github.com/deicod/dtl/runtime"

// NodeList is an ordered sequence of sibling nodes, the structure every tag
// that takes a body (ForNode, IfNode's branches, BlockNode, the template
// root) renders through (SPEC_FULL.md §3).
//
// containsNonText tracks whether any node whose IsText is false has been
// appended, which
// is how the parser enforces "must be first" tags: ExtendsNode is legal
// only while the enclosing NodeList is still pure text.
type NodeList struct {
	nodes           []Node
	containsNonText bool
}

// NewNodeList returns an empty NodeList.
func NewNodeList() *NodeList {
	return &NodeList{}
}

// Append adds n to the end of the list, updating ContainsNonText.
func (l *NodeList) Append(n Node) {
	if !n.IsText() {
		l.containsNonText = true
	}
	l.nodes = append(l.nodes, n)
}

// ContainsNonText reports whether any non-text node has been appended so
// far — the must-be-first guard the parser consults before accepting an
// ExtendsNode.
func (l *NodeList) ContainsNonText() bool {
	return l.containsNonText
}

// Nodes returns the list's nodes in order. Callers must not mutate the
// returned slice.
func (l *NodeList) Nodes() []Node {
	return l.nodes
}

// Render renders every node in order to stream, stopping at the first
// error (SPEC_FULL.md §3).
func (l *NodeList) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	for _, n := range l.nodes {
		if err := n.Render(stream, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *NodeList) Position() Position {
	if len(l.nodes) == 0 {
		return Position{}
	}
	return l.nodes[0].Position()
}
func (l *NodeList) IsVolatile() bool  { return false }
func (l *NodeList) IsText() bool      { return false }
func (l *NodeList) MustBeFirst() bool { return false }

// Collapse folds adjacent non-volatile TextNode runs into a single
// TextNode, a post-parse pass run once after a Template finishes compiling
// (SPEC_FULL.md §9 resolving the "NodeList::mutableRender" open question:
// rather than mutating the tree in place during each render, as Grantlee's
// original_source did, the tree is normalized once, immediately after
// parsing, and every render thereafter walks the same immutable, already
// collapsed list). Collapse recurses into any child NodeList a node
// exposes via the optional childLists interface below.
func (l *NodeList) Collapse() {
	merged := make([]Node, 0, len(l.nodes))
	var run *TextNode
	flushRun := func() {
		if run != nil {
			merged = append(merged, run)
			run = nil
		}
	}
	for _, n := range l.nodes {
		if t, ok := n.(*TextNode); ok && !t.IsVolatile() {
			if run == nil {
				cp := *t
				run = &cp
			} else {
				run.Text += t.Text
			}
			continue
		}
		flushRun()
		if holder, ok := n.(childLister); ok {
			for _, child := range holder.ChildLists() {
				child.Collapse()
			}
		}
		merged = append(merged, n)
	}
	flushRun()
	l.nodes = merged
}

// childLister is implemented by nodes holding one or more child NodeLists
// (ForNode's body, IfNode's branches, BlockNode's body, AutoescapeNode's
// body, and so on) so Collapse can recurse into them without nodes needing
// to know about each other's concrete types.
type childLister interface {
	ChildLists() []*NodeList
}
