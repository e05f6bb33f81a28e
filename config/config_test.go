package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dtl.yaml")
	src := `
template_dirs:
  - templates
smart_trim: true
locale: de
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.SmartTrim {
		t.Fatal("expected smart_trim true")
	}
	if cfg.Locale != "de" {
		t.Fatalf("got locale %q", cfg.Locale)
	}
	if len(cfg.TemplateDirs) != 1 || cfg.TemplateDirs[0] != "templates" {
		t.Fatalf("got template dirs %v", cfg.TemplateDirs)
	}
}

func TestBuildWiresLoaderAndLocalizer(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.html"), []byte("hi {{ name }}"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Defaults()
	cfg.TemplateDirs = []string{dir}
	cfg.Locale = "en"
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if e.Localizer() == nil {
		t.Fatal("expected localizer to be installed")
	}
	tpl, err := e.LoadByName("hello.html")
	if err != nil {
		t.Fatal(err)
	}
	if tpl == nil {
		t.Fatal("expected template to load")
	}
}

func TestBuildWithoutLocaleLeavesLocalizerNil(t *testing.T) {
	cfg := Defaults()
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if e.Localizer() != nil {
		t.Fatal("expected no localizer")
	}
}

func TestBuildRejectsInvalidLocale(t *testing.T) {
	cfg := Defaults()
	cfg.Locale = "???"
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}
