package engine

import (
	"strings"
	"testing"

	"github.com/deicod/dtl/loader"
	"github.com/deicod/dtl/value"
)

// upperLocalizer is a minimal runtime.Localizer stub that upper-cases any
// string it is asked to localize, just enough to distinguish "was routed
// through the localizer" from "rendered the raw literal".
type upperLocalizer struct{}

func (upperLocalizer) LocalizeString(src string, _ []value.Value) (string, error) {
	return strings.ToUpper(src), nil
}
func (upperLocalizer) LocalizeContextString(src, _ string, _ []value.Value) (string, error) {
	return strings.ToUpper(src), nil
}
func (upperLocalizer) LocalizePluralString(src, plural string, n int, _ []value.Value) (string, error) {
	if n == 1 {
		return strings.ToUpper(src), nil
	}
	return strings.ToUpper(plural), nil
}
func (upperLocalizer) LocalizeNumber(n float64) string { return "" }
func (upperLocalizer) CurrentLocale() string           { return "en" }

func TestNewTemplateRendersVariable(t *testing.T) {
	e := New()
	tpl, err := e.NewTemplate("inline", "hello {{ name }}")
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl, map[string]any{"name": "world"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world" {
		t.Fatalf("got %q", out)
	}
}

func TestLoadByNameUsesMemoryLoaderAndCaches(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{"greet.html": "hi {{ name }}"})
	e.AddLoader(ml)

	tpl1, err := e.LoadByName("greet.html")
	if err != nil {
		t.Fatal(err)
	}
	tpl2, err := e.LoadByName("greet.html")
	if err != nil {
		t.Fatal(err)
	}
	if tpl1 != tpl2 {
		t.Fatal("expected cached Template to be reused across loads")
	}
}

func TestLoadByNameNotFound(t *testing.T) {
	e := New()
	e.AddLoader(loader.NewMemoryLoader(nil))
	if _, err := e.LoadByName("missing.html"); err == nil {
		t.Fatal("expected an error for an unresolvable template name")
	}
}

func TestExtendsAndBlockInheritance(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{
		"base.html":  "<title>{% block title %}Base{% endblock %}</title>",
		"child.html": `{% extends "base.html" %}{% block title %}Child{% endblock %}`,
	})
	e.AddLoader(ml)

	tpl, err := e.LoadByName("child.html")
	if err != nil {
		t.Fatal(err)
	}
	t2 := tpl.(*Template)
	out, err := e.RenderToString(t2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Child") {
		t.Fatalf("expected child block override, got %q", out)
	}
}

func TestBlockSuperRendersParentBody(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{
		"base.html":  "<title>{% block title %}Base{% endblock %}</title>",
		"child.html": `{% extends "base.html" %}{% block title %}{{ block.super }} Child{% endblock %}`,
	})
	e.AddLoader(ml)

	tpl, err := e.LoadByName("child.html")
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl.(*Template), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<title>Base Child</title>" {
		t.Fatalf("got %q", out)
	}
}

func TestThreeLevelExtendsSelectsMostDerivedBlock(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{
		"base.html":       "<title>{% block title %}Base{% endblock %}</title>",
		"child.html":      `{% extends "base.html" %}{% block title %}Child{% endblock %}`,
		"grandchild.html": `{% extends "child.html" %}{% block title %}Grandchild{% endblock %}`,
	})
	e.AddLoader(ml)

	tpl, err := e.LoadByName("grandchild.html")
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl.(*Template), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "<title>Grandchild</title>" {
		t.Fatalf("expected grandchild override to win, got %q", out)
	}
}

func TestThreeLevelExtendsSuperWalksTowardBase(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{
		"base.html":       "{% block title %}Base{% endblock %}",
		"child.html":      `{% extends "base.html" %}{% block title %}{{ block.super }}/Child{% endblock %}`,
		"grandchild.html": `{% extends "child.html" %}{% block title %}{{ block.super }}/Grandchild{% endblock %}`,
	})
	e.AddLoader(ml)

	tpl, err := e.LoadByName("grandchild.html")
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl.(*Template), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Base/Child/Grandchild" {
		t.Fatalf("expected full super chain, got %q", out)
	}
}

func TestI18nLiteralFallsBackToRawStringWithoutLocalizer(t *testing.T) {
	e := New()
	tpl, err := e.NewTemplate("inline", `{{ _("Hello") }}`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello" {
		t.Fatalf("got %q", out)
	}
}

func TestI18nLiteralRoutesThroughLocalizer(t *testing.T) {
	e := New()
	e.SetLocalizer(upperLocalizer{})
	tpl, err := e.NewTemplate("inline", `{{ _('hello') }}`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "HELLO" {
		t.Fatalf("got %q", out)
	}
}

func TestSetSmartTrimIsReported(t *testing.T) {
	e := New()
	e.SetSmartTrim(true)
	if !e.SmartTrim() {
		t.Fatal("expected SmartTrim to report true")
	}
}

func TestInvalidateCacheForcesReload(t *testing.T) {
	e := New()
	ml := loader.NewMemoryLoader(map[string]string{"a.html": "v1"})
	e.AddLoader(ml)

	tpl1, err := e.LoadByName("a.html")
	if err != nil {
		t.Fatal(err)
	}
	e.InvalidateCache("a.html")
	ml.Set("a.html", "v2")
	tpl2, err := e.LoadByName("a.html")
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.RenderToString(tpl2.(*Template), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "v2" {
		t.Fatalf("expected reloaded content, got %q", out)
	}
	_ = tpl1
}
