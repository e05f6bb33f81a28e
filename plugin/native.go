// Package plugin implements the two discovery-based tiers of SPEC_FULL.md
// §4.7.3's three-tier library loader (the third, static libraries, is just
// a *nodes.Library value registered directly with the Engine, e.g.
// stdlib.StandardLibrary()): native `.so` plugins opened via the standard
// library's `plugin` package, and Starlark-scripted libraries executed via
// go.starlark.net, mirroring the reference engine's native-plugin /
// QML-scriptable-plugin / built-in three-tier loader (original_source
// engine.cpp).
package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/deicod/dtl/nodes"
)

// NativeLibrarySymbol is the exported symbol name every native `.so` plugin
// library must define: a `*nodes.Library` value built the same way
// stdlib.StandardLibrary builds the standard library, the direct analogue
// of the reference's QPluginLoader-discovered native library.
const NativeLibrarySymbol = "GrantleeLibrary"

// DiscoverNative walks dirs looking for `*.so` files exporting
// NativeLibrarySymbol, returning a name (file base name without extension)
// -> *nodes.Library map. A file that fails to open or does not export the
// expected symbol is skipped rather than aborting the scan — library load
// failures during default-library discovery are non-fatal (SPEC_FULL.md
// §4.7.3).
func DiscoverNative(dirs ...string) map[string]*nodes.Library {
	found := make(map[string]*nodes.Library)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".so") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".so")
			lib, err := openNative(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			found[name] = lib
		}
	}
	return found
}

func openNative(path string) (*nodes.Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: opening %s: %w", path, err)
	}
	sym, err := p.Lookup(NativeLibrarySymbol)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s missing %s: %w", path, NativeLibrarySymbol, err)
	}
	lib, ok := sym.(*nodes.Library)
	if !ok {
		return nil, fmt.Errorf("plugin: %s's %s is %T, not *nodes.Library", path, NativeLibrarySymbol, sym)
	}
	return lib, nil
}
