package nodes

import "github.com/deicod/dtl/lexer"

// TagParser is the subset of the parser's compile-time API a NodeFactory
// needs to consume its tag's body, declared here rather than imported from
// the parser package so that a tag library (this package and the stdlib
// package) never has to import the concrete parser — only the concrete
// *parser.Parser needs to satisfy this interface structurally
// (SPEC_FULL.md §4.2, §9 "Node ownership and cycles").
type TagParser interface {
	// Parse consumes tokens, building a NodeList, until it reaches a Block
	// token whose tag name (first word) is one of stopAt (which is pushed
	// back onto the stream, unconsumed) or the stream is exhausted; running
	// out of tokens while stopAt is non-empty is an error.
	Parse(stopAt ...string) (*NodeList, error)

	// NextToken consumes and returns the next raw token.
	NextToken() (lexer.Token, bool)

	// Peek returns the next raw token without consuming it.
	Peek() (lexer.Token, bool)

	// PrependToken pushes t back so the next NextToken/Peek sees it again.
	PrependToken(lexer.Token)

	// SkipPast consumes tokens up to and including a Block token whose
	// tag name (first word) is tag, erroring if the stream runs out first — used
	// by `comment`/`verbatim`-style tags that discard their body text.
	SkipPast(tag string) error

	// FilterExpression compiles a filter-expression source string (the
	// `{{ ... }}` interior, or a tag argument written in the same grammar)
	// into a *FilterExpression.
	FilterExpression(src string) (*FilterExpression, error)

	// SmartSplit splits a tag's argument string the way Python/Grantlee's
	// smart_split does: on whitespace, except inside matched quotes.
	SmartSplit(content string) []string

	// LoadLibrary asks the owning Engine to resolve and merge a named tag
	// library into this parser's registries (the `{% load %}` tag's
	// effect), per SPEC_FULL.md §4.7.
	LoadLibrary(name string) error

	// Filter looks up a previously registered filter by name.
	Filter(name string) (Filter, bool)
}

// NodeFactory builds one Node from a Block token's content, consuming
// whatever further tokens its tag's body requires via p (SPEC_FULL.md §4.2;
// each concrete tag's factory mirrors a Grantlee `*NodeFactory::getNode`).
type NodeFactory interface {
	GetNode(tag lexer.Token, p TagParser) (Node, error)
}

// NodeFactoryFunc adapts a plain function to NodeFactory.
type NodeFactoryFunc func(tag lexer.Token, p TagParser) (Node, error)

func (f NodeFactoryFunc) GetNode(tag lexer.Token, p TagParser) (Node, error) {
	return f(tag, p)
}

// Library is a named bundle of tag factories and filters, the unit
// `{% load %}` brings into scope (SPEC_FULL.md §4.7; mirrors Grantlee's
// `QtVersionedTagLibraryInterface`/`TagLibraryInterface`).
type Library struct {
	Tags    map[string]NodeFactory
	Filters map[string]Filter
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{Tags: make(map[string]NodeFactory), Filters: make(map[string]Filter)}
}

// AddTag registers a NodeFactory under name, returning the Library for
// chaining.
func (l *Library) AddTag(name string, f NodeFactory) *Library {
	l.Tags[name] = f
	return l
}

// AddFilter registers a Filter under name, returning the Library for
// chaining.
func (l *Library) AddFilter(name string, f Filter) *Library {
	l.Filters[name] = f
	return l
}

// Merge copies other's tags and filters into l, with other taking priority
// on name collisions (the `{% load %}` semantics: a later load shadows an
// earlier one of the same name).
func (l *Library) Merge(other *Library) {
	for name, f := range other.Tags {
		l.Tags[name] = f
	}
	for name, f := range other.Filters {
		l.Filters[name] = f
	}
}

// LibraryLoader is the Engine's render-agnostic, parse-time handle a Parser
// uses to resolve `{% load "name" %}` (SPEC_FULL.md §4.7). It is declared
// here, not in the engine package, for the same reason as TagParser: so
// that neither this package nor the parser package needs to import the
// engine package that implements it.
type LibraryLoader interface {
	LoadLibrary(name string) (*Library, error)
}
