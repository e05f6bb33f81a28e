// Package nodes defines the render-time executable tree: Node, NodeList,
// and the standard node types that give the template language its
// observable semantics (SPEC_FULL.md §4.5).
package nodes

import "github.com/deicod/dtl/runtime"

// Position is the source line/column a node (or a compile error) is
// anchored to. It is an alias of runtime.Position: runtime's Error type
// needs the same type, and runtime must not import nodes (nodes already
// imports runtime for Context/OutputStream), so the type is defined once in
// runtime and re-exported here (SPEC_FULL.md §9 "Node ownership and
// cycles").
type Position = runtime.Position

// Node is the render-time executable unit. Nodes are compiled once and
// shared across renders; they carry no per-render state (SPEC_FULL.md §3).
// Each node owns its child NodeLists directly rather than holding a
// parent back-pointer, per SPEC_FULL.md §9 "Node ownership and cycles".
type Node interface {
	// Render writes this node's contribution to stream, resolving values
	// from ctx.
	Render(stream *runtime.OutputStream, ctx *runtime.Context) error

	// Position reports where in the source this node originated, for error
	// messages raised during render.
	Position() Position

	// IsVolatile reports whether this node's rendering may legitimately
	// differ between renders of the same compiled Template (NowNode,
	// RangeNode's `as` binding notwithstanding — any node consulting
	// wall-clock time or render-local counters). A volatile node's
	// rendered text must never be folded into a neighboring TextNode by
	// NodeList.Collapse() (SPEC_FULL.md §9).
	IsVolatile() bool

	// IsText reports whether this node renders as pure, sequential text
	// with no control-flow effect on its siblings — true for TextNode and
	// for the stdlib comment and load nodes, which render nothing. It feeds
	// NodeList.ContainsNonText; Collapse() merges only *TextNode runs.
	IsText() bool

	// MustBeFirst reports whether this node is only legal as the first
	// non-text node in its NodeList (only ExtendsNode answers true).
	MustBeFirst() bool
}

// base is embedded by every concrete node to supply Position and the
// common default answers to the capability-flag methods.
type base struct {
	Pos Position
}

func (b base) Position() Position { return b.Pos }
func (b base) IsVolatile() bool   { return false }
func (b base) IsText() bool       { return false }
func (b base) MustBeFirst() bool  { return false }
