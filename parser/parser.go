// Package parser turns a lexer.Token stream into a nodes.NodeList, dispatching
// each Block token to the tag library's NodeFactory and compiling every
// `{{ ... }}`/filter-argument string into a nodes.FilterExpression
// (SPEC_FULL.md §4.2, §4.3).
package parser

import (
	"fmt"
	"strings"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
)

// SyntaxError is a compile-time template error: an unknown tag or filter,
// a malformed FilterExpression, an unclosed block, a misplaced must-be-first
// tag. It mirrors gojinja's TemplateSyntaxError (parser/parser.go) in shape.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

func syntaxErrorAt(pos nodes.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: pos.Line, Column: pos.Column}
}

// Parser is the central compile-time type: it owns the token stream and the
// tag/filter registries a template's tags resolve against (SPEC_FULL.md
// §4.2). It satisfies nodes.TagParser, so every stdlib NodeFactory consumes
// it through that interface rather than importing this package.
type Parser struct {
	stream  *lexer.Stream
	loader  nodes.LibraryLoader
	tags    map[string]nodes.NodeFactory
	filters map[string]nodes.Filter
}

// New returns a Parser over tokens, seeded with the tags/filters in initial
// (typically the Engine's default library) and able to resolve further
// `{% load %}` requests through loader.
func New(tokens []lexer.Token, loader nodes.LibraryLoader, initial *nodes.Library) *Parser {
	p := &Parser{
		stream:  lexer.NewStream(tokens),
		loader:  loader,
		tags:    make(map[string]nodes.NodeFactory),
		filters: make(map[string]nodes.Filter),
	}
	if initial != nil {
		for name, f := range initial.Tags {
			p.tags[name] = f
		}
		for name, f := range initial.Filters {
			p.filters[name] = f
		}
	}
	return p
}

// ParseTemplate compiles the entire token stream into a root NodeList.
func (p *Parser) ParseTemplate() (*nodes.NodeList, error) {
	return p.Parse()
}

// Parse is the heart of the compiler (SPEC_FULL.md §4.2): it consumes
// tokens until either the stream is exhausted or it reaches a Block token
// whose content names one of stopAt, in which case that token is pushed
// back unconsumed and control returns to the caller (the tag that asked to
// stop there, e.g. `endif`/`else`/`endfor`).
func (p *Parser) Parse(stopAt ...string) (*nodes.NodeList, error) {
	list := nodes.NewNodeList()
	for {
		tok, ok := p.stream.Next()
		if !ok {
			if len(stopAt) > 0 {
				return nil, &SyntaxError{Message: fmt.Sprintf("unclosed tag, expected one of %v", stopAt)}
			}
			return list, nil
		}

		switch tok.Kind {
		case lexer.Text:
			list.Append(nodes.NewTextNode(nodes.Position{Line: tok.Line, Column: tok.Column}, tok.Content))

		case lexer.Variable:
			fe, err := p.FilterExpression(tok.Content)
			if err != nil {
				return nil, err
			}
			list.Append(nodes.NewVariableNode(nodes.Position{Line: tok.Line, Column: tok.Column}, fe))

		case lexer.Block:
			name := tagName(tok.Content)
			for _, stop := range stopAt {
				if name == stop {
					p.stream.Prepend(tok)
					return list, nil
				}
			}
			factory, ok := p.tags[name]
			if !ok {
				return nil, syntaxErrorAt(nodes.Position{Line: tok.Line, Column: tok.Column}, "unknown tag %q", name)
			}
			node, err := factory.GetNode(tok, p)
			if err != nil {
				return nil, err
			}
			if node.MustBeFirst() && list.ContainsNonText() {
				return nil, syntaxErrorAt(node.Position(), "%q must be the first tag in its template", name)
			}
			list.Append(node)
		}
	}
}

// NextToken implements nodes.TagParser.
func (p *Parser) NextToken() (lexer.Token, bool) { return p.stream.Next() }

// Peek implements nodes.TagParser.
func (p *Parser) Peek() (lexer.Token, bool) { return p.stream.Peek() }

// PrependToken implements nodes.TagParser.
func (p *Parser) PrependToken(t lexer.Token) { p.stream.Prepend(t) }

// SkipPast implements nodes.TagParser: it discards tokens, including nested
// Text/Variable content, until (and including) a Block token whose tag name
// (first word) is tag.
func (p *Parser) SkipPast(tag string) error {
	for {
		tok, ok := p.stream.Next()
		if !ok {
			return &SyntaxError{Message: fmt.Sprintf("unclosed tag, expected %q", tag)}
		}
		if tok.Kind == lexer.Block && tagName(tok.Content) == tag {
			return nil
		}
	}
}

// Filter implements nodes.TagParser.
func (p *Parser) Filter(name string) (nodes.Filter, bool) {
	f, ok := p.filters[name]
	return f, ok
}

// LoadLibrary implements nodes.TagParser: it asks the Engine to resolve name
// and merges the result into this parser's registries, later loads
// shadowing earlier ones of the same name (SPEC_FULL.md §4.7).
func (p *Parser) LoadLibrary(name string) error {
	if p.loader == nil {
		return &SyntaxError{Message: fmt.Sprintf("cannot load %q: no library loader configured", name)}
	}
	lib, err := p.loader.LoadLibrary(name)
	if err != nil {
		return err
	}
	for tagName, f := range lib.Tags {
		p.tags[tagName] = f
	}
	for filterName, f := range lib.Filters {
		p.filters[filterName] = f
	}
	return nil
}

// tagName returns the first whitespace-separated word of a Block token's
// trimmed content: the tag's name.
func tagName(content string) string {
	if i := strings.IndexAny(content, " \t\n"); i >= 0 {
		return content[:i]
	}
	return content
}

// SmartSplit splits content on whitespace except inside a matched pair of
// single or double quotes, mirroring Django/Grantlee's smart_split and
// exposed to tag factories through nodes.TagParser (SPEC_FULL.md §4.2).
func (p *Parser) SmartSplit(content string) []string {
	return SmartSplit(content)
}

// SmartSplit is the standalone implementation SmartSplit (the method)
// delegates to, also usable directly by the if-expression tokenizer.
func SmartSplit(content string) []string {
	var parts []string
	var cur strings.Builder
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(content) {
				i++
				cur.WriteByte(content[i])
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

// unquote strips a matching pair of surrounding quotes, unescaping the
// trivial `\"`/`\'`/`\\` escapes Grantlee's string-literal grammar allows
// (filterexpression.cpp's constant-string regex).
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s, false
	}
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, `\`+string(q), string(q))
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	return inner, true
}
