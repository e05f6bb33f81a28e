package runtime

// BlockContext tracks, per block name, the stack of overriding bodies
// contributed by a chain of `{% extends %}` templates, most-derived first
// (SPEC_FULL.md §3, resolving the "IncludeNode after-include cleanup" open
// question with an explicit snapshot/Remove rather than a dynamic tree
// walk — see SPEC_FULL.md §9 and DESIGN.md).
//
// Push order follows render order, not derivation order: the most-derived
// template's ExtendsNode runs first and registers its own blocks before
// handing off to its parent, so entry 0 is always the most-derived
// definition seen so far and later entries are progressively less derived,
// ending with the base template's own block body.
//
// Grounded on Grantlee's BlockContext (original_source blockcontext.cpp):
// a name keyed stack of block bodies, pushed as each ExtendsNode in a chain
// registers its BlockNodes, with `{{ block.super }}` resolved by walking
// one level further down the same name's stack.
type BlockContext struct {
	blocks map[string][]Renderable
}

// NewBlockContext returns an empty BlockContext.
func NewBlockContext() *BlockContext {
	return &BlockContext{blocks: make(map[string][]Renderable)}
}

// Push registers body as the next override for name, in render order (see
// the type doc for why that is most-derived-first).
func (b *BlockContext) Push(name string, body Renderable) {
	b.blocks[name] = append(b.blocks[name], body)
}

// Top returns the most-derived body registered for name — entry 0, the
// first one pushed.
func (b *BlockContext) Top(name string) (Renderable, bool) {
	stack := b.blocks[name]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[0], true
}

// At returns the body registered at depth idx for name (0 = most-derived),
// used to walk from one `{{ block.super }}` call to the next-less-derived
// definition.
func (b *BlockContext) At(name string, idx int) (Renderable, bool) {
	stack := b.blocks[name]
	if idx < 0 || idx >= len(stack) {
		return nil, false
	}
	return stack[idx], true
}

// Snapshot captures the current depth of every block's override stack, so a
// ConstantIncludeNode can register its own included template's blocks for
// the duration of its render and then remove exactly those registrations
// afterward, regardless of how many the included template added.
func (b *BlockContext) Snapshot() map[string]int {
	depths := make(map[string]int, len(b.blocks))
	for name, stack := range b.blocks {
		depths[name] = len(stack)
	}
	return depths
}

// RemoveSince pops every override pushed since snapshot was taken.
func (b *BlockContext) RemoveSince(snapshot map[string]int) {
	for name, stack := range b.blocks {
		keep := snapshot[name]
		if keep < len(stack) {
			b.blocks[name] = stack[:keep]
		}
	}
}
