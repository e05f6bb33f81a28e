package engine

import (
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/runtime"
)

// Template is a compiled, immutable template: a root NodeList plus the name
// it was compiled under. It carries no per-render state and is safe to
// render concurrently from multiple goroutines (SPEC_FULL.md §3), the same
// guarantee the teacher's Template type makes (deicod-gojinja
// runtime/environment.go's Environment/Template split).
type Template struct {
	name       string
	root       *nodes.NodeList
	compileErr error
}

// CompileError returns the error captured when this Template failed to
// compile, or nil. A Template built from a failed compile still renders the
// "two clocks" way (SPEC_FULL.md §4.7, §7): the error is stored here at
// compile time and re-raised by Render, rather than only ever surfacing at
// the new_template call boundary.
func (t *Template) CompileError() error { return t.compileErr }

// Render implements runtime.Renderable: it walks the compiled node tree,
// writing to stream using ctx's scopes, auto-escape flag, localizer and
// loader. ctx is expected to already carry whatever Loader/Localizer the
// render needs — Template itself holds no reference back to the Engine that
// compiled it, so the same Template can be rendered against different
// Contexts without reaching back into engine state (SPEC_FULL.md §9 "Node
// ownership and cycles").
func (t *Template) Render(stream *runtime.OutputStream, ctx *runtime.Context) error {
	if t.compileErr != nil {
		return t.compileErr
	}
	return t.root.Render(stream, ctx)
}

// Name returns the name this Template was compiled under.
func (t *Template) Name() string { return t.name }

// RenderToString renders t against vars using e's configured loader and
// localizer, returning the result as a string (SPEC_FULL.md §4.7, the
// convenience entry point the CLI's `render` subcommand uses).
func (e *Engine) RenderToString(t *Template, vars map[string]any) (string, error) {
	ctx := e.newContext(vars)
	stream, buf := runtime.NewBufferedOutputStream()
	if err := t.Render(stream, ctx); err != nil {
		return "", err
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Engine) newContext(vars map[string]any) *runtime.Context {
	values := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		values[k] = v
	}
	ctx := runtime.NewContext(values)
	ctx.SetLoader(e)
	if loc := e.Localizer(); loc != nil {
		ctx.SetLocalizer(loc)
	}
	return ctx
}

// buildTemplate compiles src into a Template named name: lex, parse, and
// collapse the resulting node tree once so every render thereafter walks
// the same already-normalized list (nodes.NodeList.Collapse, SPEC_FULL.md §9
// resolving the mutableRender open question).
func (e *Engine) buildTemplate(name, src string) (*Template, error) {
	tokens, err := e.lex(src)
	if err != nil {
		return &Template{name: name, compileErr: err}, err
	}
	p := e.newParser(tokens)
	root, err := p.ParseTemplate()
	if err != nil {
		return &Template{name: name, compileErr: err}, err
	}
	root.Collapse()
	return &Template{name: name, root: root}, nil
}
