package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deicod/dtl/value"
)

func TestDiscoverNativeSkipsDirWithoutPlugins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notaplugin.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	found := DiscoverNative(dir)
	if len(found) != 0 {
		t.Fatalf("expected no libraries discovered, got %d", len(found))
	}
}

func TestDiscoverNativeIgnoresMissingDir(t *testing.T) {
	found := DiscoverNative(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(found) != 0 {
		t.Fatalf("expected empty result for a missing directory, got %d", len(found))
	}
}

func TestLoadStarlarkLibraryExposesFilters(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "shout.star")
	src := `
def shout(value, arg, auto_escape):
    return value + "!"

FILTERS = {"shout": shout}
`
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadStarlarkLibrary(script)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := lib.Filters["shout"]
	if !ok {
		t.Fatal("expected shout filter to be registered")
	}
	out, err := f("hi", nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if value.ToString(out) != "hi!" {
		t.Fatalf("got %v", out)
	}
}

func TestLoadStarlarkLibraryWithoutFilters(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "empty.star")
	if err := os.WriteFile(script, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lib, err := LoadStarlarkLibrary(script)
	if err != nil {
		t.Fatal(err)
	}
	if len(lib.Filters) != 0 {
		t.Fatalf("expected no filters, got %d", len(lib.Filters))
	}
}
