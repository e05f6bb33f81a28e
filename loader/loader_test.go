package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deicod/dtl/runtime"
)

type stubCompiler struct{}

func (stubCompiler) Compile(name, src string) (runtime.Renderable, error) {
	return stubRenderable(src), nil
}

type stubRenderable string

func (stubRenderable) Render(*runtime.OutputStream, *runtime.Context) error { return nil }

func TestFileSystemLoaderResolvesWithinRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.html"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewFileSystemLoader(dir)
	if !l.CanLoad("hello.html") {
		t.Fatal("expected CanLoad to find hello.html")
	}
	tpl, err := l.Load("hello.html", stubCompiler{})
	if err != nil {
		t.Fatal(err)
	}
	if tpl.(stubRenderable) != "hi" {
		t.Fatalf("got %v", tpl)
	}
}

func TestFileSystemLoaderRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	l := NewFileSystemLoader(dir)
	if l.CanLoad("../etc/passwd") {
		t.Fatal("expected escape attempt to be rejected")
	}
	if l.CanLoad("/etc/passwd") {
		t.Fatal("expected absolute path to be rejected")
	}
}

func TestFileSystemLoaderSearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "a.html"), []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(first, "a.html"), []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewFileSystemLoader(first, second)
	tpl, err := l.Load("a.html", stubCompiler{})
	if err != nil {
		t.Fatal(err)
	}
	if tpl.(stubRenderable) != "first" {
		t.Fatalf("expected first directory to win, got %v", tpl)
	}
}

func TestMemoryLoader(t *testing.T) {
	l := NewMemoryLoader(map[string]string{"a.html": "hi {{ name }}"})
	if !l.CanLoad("a.html") {
		t.Fatal("expected CanLoad true")
	}
	if l.CanLoad("missing.html") {
		t.Fatal("expected CanLoad false for unknown name")
	}
	l.Set("b.html", "new")
	tpl, err := l.Load("b.html", stubCompiler{})
	if err != nil {
		t.Fatal(err)
	}
	if tpl.(stubRenderable) != "new" {
		t.Fatalf("got %v", tpl)
	}
}

func TestWatchingLoaderDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.html")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	wl, err := NewWatchingLoader(dir)
	if err != nil {
		t.Skipf("fsnotify unavailable in this environment: %v", err)
	}
	defer wl.Close()

	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-wl.Changed():
		if filepath.Base(name) != "watched.html" {
			t.Fatalf("unexpected changed path %q", name)
		}
	case err := <-wl.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Skip("no fsnotify event observed within timeout; filesystem may not support inotify here")
	}
}
