// Package lexer splits complete template source into a flat token stream,
// delimiter by delimiter. It does not understand expression grammar — that
// is the parser's job (SPEC_FULL.md §4.1).
package lexer

import "fmt"

// Kind identifies what a Token's Content holds.
type Kind int

const (
	// Text is a literal span outside any delimiter pair.
	Text Kind = iota
	// Variable is the trimmed interior of a `{{ ... }}` pair.
	Variable
	// Block is the trimmed interior of a `{% ... %}` pair.
	Block
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "TEXT"
	case Variable:
		return "VARIABLE"
	case Block:
		return "BLOCK"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is the lexer's sole output unit. Content is the interior of the
// delimiters with surrounding whitespace trimmed for Variable/Block; for
// Text it is the literal span verbatim.
type Token struct {
	Kind    Kind
	Content string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Kind, t.Content, t.Line, t.Column)
}

// Stream is a cursor over a fixed token slice, the primitive the parser
// builds next_token/peek/prepend_token on top of (SPEC_FULL.md §4.2).
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream wraps a token slice produced by Lex.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next consumes and returns the next token, or ok=false at end of stream.
func (s *Stream) Next() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, true
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

// Prepend pushes a token back onto the front of the stream, so the next
// Next()/Peek() sees it again. Used by the parser to push back an
// unconsumed stop-tag Block token (SPEC_FULL.md §4.2).
func (s *Stream) Prepend(t Token) {
	if s.pos > 0 {
		s.pos--
		s.tokens[s.pos] = t
		return
	}
	s.tokens = append([]Token{t}, s.tokens...)
}

// Empty reports whether the stream is exhausted.
func (s *Stream) Empty() bool {
	return s.pos >= len(s.tokens)
}
