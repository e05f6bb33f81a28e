// Package runtime implements the render-time collaborators shared by every
// node: the scoped variable Context, the escape-aware OutputStream, and the
// small interfaces (Localizer, Renderable, TemplateLoader) that let nodes
// reach back into the Engine without this package importing it
// (SPEC_FULL.md §3, §9 "Node ownership and cycles").
package runtime

import (
	"github.com/deicod/dtl/value"
)

// Localizer is the external translation/formatting backend consulted by the
// i18n tags and the file-size formatter (SPEC_FULL.md §6).
type Localizer interface {
	LocalizeString(src string, args []value.Value) (string, error)
	LocalizeContextString(src, context string, args []value.Value) (string, error)
	LocalizePluralString(src, plural string, n int, args []value.Value) (string, error)
	LocalizeNumber(n float64) string
	CurrentLocale() string
}

// Renderable is satisfied by a compiled Template. It is declared here,
// rather than in the engine package, so that nodes (IncludeNode in
// particular) can hold and invoke one without this package — or the nodes
// package — importing the engine package that defines Template.
type Renderable interface {
	Render(stream *OutputStream, ctx *Context) error
}

// TemplateLoader is the render-time handle an IncludeNode/ConstantIncludeNode
// uses to resolve another template by name (SPEC_FULL.md §4.5, §6).
type TemplateLoader interface {
	LoadByName(name string) (Renderable, error)
}

// scope is one frame of the Context's variable stack.
type scope struct {
	vars map[string]value.Value
}

// Context is a stack of string→Value scopes plus the render-wide flags and
// scratch storage described in SPEC_FULL.md §3. It is owned by exactly one
// render; scope mutation follows strict LIFO discipline (§5).
type Context struct {
	scopes     []*scope
	autoEscape bool
	scratch    map[string]value.Value
	localizer  Localizer
	loader     TemplateLoader
}

// NewContext creates a Context seeded with a single root scope built from
// initial, with auto-escape on by default (the common HTML-output case).
func NewContext(initial map[string]value.Value) *Context {
	root := &scope{vars: make(map[string]value.Value, len(initial))}
	for k, v := range initial {
		root.vars[k] = v
	}
	return &Context{
		scopes:     []*scope{root},
		autoEscape: true,
		scratch:    make(map[string]value.Value),
	}
}

// Push opens a new, empty scope on top of the stack. Every Push must be
// matched by a Pop on every exit path of the calling node's Render
// (SPEC_FULL.md §5) — callers should prefer the PushScope helper below,
// which uses defer to guarantee this.
func (c *Context) Push() {
	c.scopes = append(c.scopes, &scope{vars: make(map[string]value.Value)})
}

// Pop discards the top-most scope. Popping the root scope is a programming
// error (it would break the "push count == pop count, depth restored"
// invariant from SPEC_FULL.md §8) and is therefore a no-op rather than a
// panic, so a render never crashes a caller over a bookkeeping bug in a
// third-party tag library.
func (c *Context) Pop() {
	if len(c.scopes) <= 1 {
		return
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// PushScope opens a scope and returns a function that pops it; intended for
// `defer ctx.PushScope()()` at the top of a node's Render so the pop fires
// on every exit path, including a returned error.
func (c *Context) PushScope() func() {
	c.Push()
	return c.Pop
}

// Depth reports the current scope-stack depth, used by tests asserting the
// scope-balance invariant (SPEC_FULL.md §8).
func (c *Context) Depth() int {
	return len(c.scopes)
}

// Insert sets name in the top-most scope.
func (c *Context) Insert(name string, v value.Value) {
	c.scopes[len(c.scopes)-1].vars[name] = v
}

// Lookup walks the scope stack top-down, per Variable resolution's
// mapping-lookup step (SPEC_FULL.md §3).
func (c *Context) Lookup(name string) (value.Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// AutoEscape reports the current auto-escape flag.
func (c *Context) AutoEscape() bool { return c.autoEscape }

// SetAutoEscape sets the auto-escape flag and returns a function restoring
// the prior value — the idiom AutoescapeNode uses to guarantee restoration
// on every exit path (SPEC_FULL.md §4.5).
func (c *Context) SetAutoEscape(on bool) func() {
	prev := c.autoEscape
	c.autoEscape = on
	return func() { c.autoEscape = prev }
}

// Scratch returns the render-scratch map keyed by an arbitrary identity
// (typically a node's pointer address, stringified, or a well-known key
// such as the BlockContext's). It exists for exactly the kind of per-render,
// cross-node bookkeeping BlockContext needs, without adding bespoke fields
// to Context for every such need (SPEC_FULL.md §3).
func (c *Context) Scratch() map[string]value.Value { return c.scratch }

// Localizer returns the active localizer, or nil if none was configured.
func (c *Context) Localizer() Localizer { return c.localizer }

// SetLocalizer installs the localizer used by i18n tags/filters for the
// remainder of this render.
func (c *Context) SetLocalizer(l Localizer) { c.localizer = l }

// Loader returns the template loader used by include/extends nodes to
// resolve another template by name.
func (c *Context) Loader() TemplateLoader { return c.loader }

// SetLoader installs the template loader; called once by the Engine when it
// creates a render's Context, before the root NodeList is walked.
func (c *Context) SetLoader(l TemplateLoader) { c.loader = l }
