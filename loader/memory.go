package loader

import (
	"fmt"

	"github.com/deicod/dtl/runtime"
)

// MemoryLoader serves templates from an in-process name→source map, grounded
// on Grantlee's InMemoryTemplateLoader (used throughout the Grantlee test
// suite, original_source tests use it as the standard fixture loader).
// It is the loader Engine tests and embedded-string use cases reach for
// instead of standing up a directory tree (SPEC_FULL.md §4.7.1).
type MemoryLoader struct {
	templates map[string]string
}

// NewMemoryLoader returns a loader seeded with templates (name -> source).
func NewMemoryLoader(templates map[string]string) *MemoryLoader {
	m := make(map[string]string, len(templates))
	for k, v := range templates {
		m[k] = v
	}
	return &MemoryLoader{templates: m}
}

// Set installs or replaces the source for name, taking effect on the next
// Load (the Engine's template cache, not this loader, controls whether a
// prior compiled Template is still served).
func (l *MemoryLoader) Set(name, src string) {
	l.templates[name] = src
}

// CanLoad reports whether name was registered with this loader.
func (l *MemoryLoader) CanLoad(name string) bool {
	_, ok := l.templates[name]
	return ok
}

// Load compiles the registered source for name via c.
func (l *MemoryLoader) Load(name string, c runtime.Compiler) (runtime.Renderable, error) {
	src, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("loader: %q not found", name)
	}
	return c.Compile(name, src)
}

// MediaURI is unsupported for in-memory templates; both return values are
// empty since there is no filesystem path to resolve an asset URL against.
func (l *MemoryLoader) MediaURI(name string) (dir string, rel string) {
	return "", ""
}
