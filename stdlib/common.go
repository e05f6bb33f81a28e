// Package stdlib is the default tag and filter library: for/if/firstof/
// autoescape/comment/load/include/extends/block/regroup/now/range/i18n/
// filesize tags, and the standard filter set (SPEC_FULL.md §4.5, §4.6,
// §4.6.1). Each tag's NodeFactory and Node type are kept together in one
// file, mirroring the reference implementation's per-tag .cpp layout
// (original_source templates/defaulttags, loadertags, i18n).
package stdlib

import (
	"fmt"
	"strings"

	"github.com/deicod/dtl/lexer"
	"github.com/deicod/dtl/nodes"
)

// base embeds nodes' shared Position/capability-flag defaults into every
// concrete stdlib node type.
type base struct {
	pos nodes.Position
}

func newBase(tag lexer.Token) base {
	return base{pos: nodes.Position{Line: tag.Line, Column: tag.Column}}
}

func (b base) Position() nodes.Position { return b.pos }
func (b base) IsVolatile() bool         { return false }
func (b base) IsText() bool             { return false }
func (b base) MustBeFirst() bool        { return false }

// tagErrorf builds a *parser.SyntaxError-shaped error without this package
// importing the parser package (a NodeFactory only ever sees
// nodes.TagParser, per SPEC_FULL.md §9 "Node ownership and cycles").
type tagError struct {
	Message string
	Line    int
	Column  int
}

func (e *tagError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

func tagErrorf(tag lexer.Token, format string, args ...any) error {
	return &tagError{Message: fmt.Sprintf(format, args...), Line: tag.Line, Column: tag.Column}
}

// tagWord returns the first whitespace-separated word of a Block token's
// content: its tag name (e.g. "empty" out of "empty", "endif" out of
// "endif").
func tagWord(content string) string {
	if i := strings.IndexAny(content, " \t\n"); i >= 0 {
		return content[:i]
	}
	return content
}
