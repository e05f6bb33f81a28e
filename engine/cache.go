package engine

import "sync"

// templateCache is a thread-safe name -> *Template cache, grounded on the
// teacher's bytecode_cache sync.Map idiom (deicod-gojinja
// runtime/bytecode_cache.go): a compiled Template, once produced, is shared
// across every subsequent LoadByName for the same name until explicitly
// invalidated, since Templates carry no per-render state (SPEC_FULL.md §3).
type templateCache struct {
	entries sync.Map // name string -> *Template
}

func newTemplateCache() *templateCache {
	return &templateCache{}
}

func (c *templateCache) get(name string) (*Template, bool) {
	v, ok := c.entries.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Template), true
}

func (c *templateCache) set(name string, t *Template) {
	c.entries.Store(name, t)
}

// invalidate drops the cache entry for name, if any (used by the Engine when
// a loader.WatchingLoader reports a file changed).
func (c *templateCache) invalidate(name string) {
	c.entries.Delete(name)
}

func (c *templateCache) clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}
