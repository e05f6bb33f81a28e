package l10n

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/deicod/dtl/value"
)

func TestLocalizeStringPassthroughWithArgSubstitution(t *testing.T) {
	l := NewDefaultLocalizer(language.English, LocaleFor(language.English))
	got, err := l.LocalizeString("Hello, %1!", []value.Value{"Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello, Ada!" {
		t.Fatalf("got %q", got)
	}
}

func TestLocalizeContextStringUsesRegisteredTranslation(t *testing.T) {
	l := NewDefaultLocalizer(language.French, LocaleFor(language.French))
	l.RegisterContext("menu", "File", "Fichier")
	got, err := l.LocalizeContextString("File", "menu", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Fichier" {
		t.Fatalf("got %q", got)
	}
}

func TestLocalizePluralStringSelectsByCount(t *testing.T) {
	l := NewDefaultLocalizer(language.English, LocaleFor(language.English))
	one, err := l.LocalizePluralString("%1 item", "%1 items", 1, []value.Value{1})
	if err != nil {
		t.Fatal(err)
	}
	if one != "1 item" {
		t.Fatalf("got %q", one)
	}
	many, err := l.LocalizePluralString("%1 item", "%1 items", 3, []value.Value{3})
	if err != nil {
		t.Fatal(err)
	}
	if many != "3 items" {
		t.Fatalf("got %q", many)
	}
}

func TestLocalizePluralStringUsesRegisteredPair(t *testing.T) {
	l := NewDefaultLocalizer(language.French, LocaleFor(language.French))
	l.RegisterPlural("%1 item", "%1 items", "%1 article", "%1 articles")
	got, err := l.LocalizePluralString("%1 item", "%1 items", 2, []value.Value{2})
	if err != nil {
		t.Fatal(err)
	}
	if got != "2 articles" {
		t.Fatalf("got %q", got)
	}
}

func TestCurrentLocale(t *testing.T) {
	l := NewDefaultLocalizer(language.German, LocaleFor(language.German))
	if l.CurrentLocale() != "de" {
		t.Fatalf("got %q", l.CurrentLocale())
	}
}

func TestWithLocaleSharesTranslations(t *testing.T) {
	en := NewDefaultLocalizer(language.English, LocaleFor(language.English))
	en.Register("Cancel", "Cancel")
	fr := en.WithLocale(language.French, LocaleFor(language.French))
	if fr.CurrentLocale() != "fr" {
		t.Fatalf("got %q", fr.CurrentLocale())
	}
	got, err := fr.LocalizeString("Cancel", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Cancel" {
		t.Fatalf("got %q", got)
	}
}
