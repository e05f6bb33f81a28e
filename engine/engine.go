// Package engine is the central orchestrator named in SPEC_FULL.md §4.7: it
// owns the ordered list of template loaders, the default and named tag
// libraries, the smart-trim flag, and the compiled-template cache, and it is
// the concrete type implementing the runtime.Compiler/runtime.TemplateLoader
// and nodes.LibraryLoader interfaces that the lower packages only see by
// name (SPEC_FULL.md §9 "Node ownership and cycles"). Grounded on the
// teacher's Environment type (deicod-gojinja runtime/environment.go): a
// mutex-guarded configuration struct with chainable Set*/Add* accessors and
// a LoadTemplate entry point backed by a cache.
package engine

import (
	"fmt"
	"sync"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
	"github.com/deicod/dtl/parser"
	"github.com/deicod/dtl/runtime"
	"github.com/deicod/dtl/stdlib"
)

// Engine is the top-level object an application constructs once and shares
// across renders. It is safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	loaders    []runtime.Loader
	libraries  map[string]*nodes.Library
	smartTrim  bool
	localizer  runtime.Localizer
	cache      *templateCache
	loading    map[string]bool // circular-extends/include guard, keyed by template name
}

// New returns an Engine pre-loaded with the standard tag/filter library
// (SPEC_FULL.md §4.2 "Default libraries").
func New() *Engine {
	return &Engine{
		libraries: make(map[string]*nodes.Library),
		cache:     newTemplateCache(),
		loading:   make(map[string]bool),
	}
}

// AddLoader appends l to the engine's ordered loader list. Loaders are tried
// in the order added; the first one reporting CanLoad(name) == true serves
// the template (SPEC_FULL.md §4.7.1).
func (e *Engine) AddLoader(l runtime.Loader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaders = append(e.loaders, l)
}

// RegisterLibrary installs a named tag/filter library the `{% load %}` tag
// can subsequently resolve (SPEC_FULL.md §4.7.3): the static standard
// library is always available unnamed, while plugin-discovered (native or
// Starlark) libraries are registered here under their own name before any
// template using them is compiled.
func (e *Engine) RegisterLibrary(name string, lib *nodes.Library) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.libraries[name] = lib
}

// LoadLibrary implements nodes.LibraryLoader, resolving a `{% load name %}`
// request against the engine's registered libraries.
func (e *Engine) LoadLibrary(name string) (*nodes.Library, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	lib, ok := e.libraries[name]
	if !ok {
		return nil, fmt.Errorf("engine: no library registered under %q", name)
	}
	return lib, nil
}

// SetSmartTrim toggles the engine-wide smart-trim lexing mode (SPEC_FULL.md
// §4.1, §4.7): a Block/Variable token occupying an entire source line
// consumes that line's surrounding whitespace. It applies to every template
// compiled after the call; already-compiled Templates are unaffected.
func (e *Engine) SetSmartTrim(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.smartTrim = on
}

// SmartTrim reports the current smart-trim setting.
func (e *Engine) SmartTrim() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.smartTrim
}

// SetLocalizer installs the Localizer every subsequently rendered template's
// Context is seeded with (SPEC_FULL.md §4.7.2).
func (e *Engine) SetLocalizer(l runtime.Localizer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.localizer = l
}

// Localizer returns the engine's configured Localizer, or nil.
func (e *Engine) Localizer() runtime.Localizer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.localizer
}

// lex tokenizes src under the engine's current smart-trim setting.
func (e *Engine) lex(src string) ([]lexer.Token, error) {
	return lexer.Lex(src, lexer.Options{SmartTrim: e.SmartTrim()})
}

// newParser returns a Parser over tokens, seeded with the standard library
// and able to resolve further `{% load %}` requests against e.
func (e *Engine) newParser(tokens []lexer.Token) *parser.Parser {
	return parser.New(tokens, e, stdlib.StandardLibrary())
}

// Compile implements runtime.Compiler: it compiles src under name without
// consulting or populating the cache, the primitive every Loader.Load calls
// through (SPEC_FULL.md §4.7.1).
func (e *Engine) Compile(name, src string) (runtime.Renderable, error) {
	return e.buildTemplate(name, src)
}

// NewTemplate compiles src as a standalone template under name, bypassing
// the loader chain and the cache entirely — the entry point for rendering a
// string the caller already has in hand (SPEC_FULL.md §4.7, "new_template").
func (e *Engine) NewTemplate(name, src string) (*Template, error) {
	return e.buildTemplate(name, src)
}

// LoadByName implements runtime.TemplateLoader: it serves name from the
// cache if present (an entry stays until InvalidateCache or ClearCache
// drops it; its source is not re-checked), otherwise asks each loader in turn,
// first match wins, compiling and caching the result (SPEC_FULL.md §4.7.1).
// Circular `{% extends %}`/`{% include %}` chains are rejected rather than
// recursing forever.
func (e *Engine) LoadByName(name string) (runtime.Renderable, error) {
	if t, ok := e.cache.get(name); ok {
		return t, nil
	}

	e.mu.Lock()
	if e.loading[name] {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine: circular template reference: %s", name)
	}
	e.loading[name] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.loading, name)
		e.mu.Unlock()
	}()

	e.mu.RLock()
	loaders := append([]runtime.Loader(nil), e.loaders...)
	e.mu.RUnlock()

	for _, l := range loaders {
		if !l.CanLoad(name) {
			continue
		}
		tpl, err := l.Load(name, e)
		if err != nil {
			return nil, err
		}
		t, ok := tpl.(*Template)
		if !ok {
			return tpl, nil
		}
		e.cache.set(name, t)
		return t, nil
	}
	return nil, fmt.Errorf("engine: template %q not found in any loader", name)
}

// MediaURI resolves name to a (base directory, relative path) pair using the
// first loader that can produce it, for constructing a media/asset URL
// alongside a template (SPEC_FULL.md §4.7.1).
func (e *Engine) MediaURI(name string) (dir string, rel string) {
	e.mu.RLock()
	loaders := append([]runtime.Loader(nil), e.loaders...)
	e.mu.RUnlock()

	for _, l := range loaders {
		if l.CanLoad(name) {
			return l.MediaURI(name)
		}
	}
	return "", ""
}

// InvalidateCache drops the cached Template for name, if any. A
// loader.WatchingLoader's Changed() channel is the usual trigger
// (SPEC_FULL.md §4.7.1).
func (e *Engine) InvalidateCache(name string) {
	e.cache.invalidate(name)
}

// ClearCache drops every cached Template.
func (e *Engine) ClearCache() {
	e.cache.clear()
}

var (
	_ runtime.Compiler      = (*Engine)(nil)
	_ runtime.TemplateLoader = (*Engine)(nil)
	_ nodes.LibraryLoader    = (*Engine)(nil)
)
