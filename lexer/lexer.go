package lexer

import "strings"

const (
	variableStart = "{{"
	variableEnd   = "}}"
	blockStart    = "{%"
	blockEnd      = "%}"
	commentStart  = "{#"
	commentEnd    = "#}"
)

// Error is a fatal lexing error: an unterminated delimiter run to
// end-of-input, reported with the line/column of the opening delimiter
// (SPEC_FULL.md §4.1).
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return e.Message
}

// Options configures delimiter-level lexing behavior.
type Options struct {
	// SmartTrim enables the engine-wide smart-trim mode (SPEC_FULL.md
	// §4.1): a Block/Variable token that occupies an entire source line
	// consumes that line's trailing newline and leading whitespace.
	SmartTrim bool
}

// Lex scans src into a flat Token slice. It never nests delimiters and
// never looks inside a preceding block's string literals; it is a pure
// delimiter splitter, with expression structure left entirely to the
// parser (SPEC_FULL.md §4.1).
func Lex(src string, opts Options) ([]Token, error) {
	var tokens []Token
	line, col := 1, 1
	pos := 0
	lineStart := 0 // byte offset of the start of the current line

	advance := func(s string) {
		for i, r := range s {
			if r == '\n' {
				line++
				col = 1
				lineStart = pos + i + 1
			} else {
				col++
			}
		}
		pos += len(s)
	}

	for pos < len(src) {
		rest := src[pos:]

		nextStart, kind, endDelim := findNextDelimiter(rest)
		if nextStart < 0 {
			tokens = appendText(tokens, rest, line, col)
			advance(rest)
			break
		}

		if nextStart > 0 {
			textSpan := rest[:nextStart]
			tokens = appendText(tokens, textSpan, line, col)
			advance(textSpan)
			rest = src[pos:]
		}

		openLine, openCol, openPos := line, col, pos
		startDelim := rest[:2]
		advance(startDelim)
		rest = src[pos:]

		closeIdx := strings.Index(rest, endDelim)
		if closeIdx < 0 {
			return nil, &Error{
				Message: "unterminated '" + startDelim + "' tag",
				Line:    openLine,
				Column:  openCol,
			}
		}

		content := rest[:closeIdx]
		advance(content)
		advance(endDelim)
		closePos := pos

		if kind == -1 {
			continue // Comment: discarded, no token emitted.
		}

		trimmed := strings.TrimSpace(content)
		tok := Token{Kind: Kind(kind), Content: trimmed, Line: openLine, Column: openCol}

		if opts.SmartTrim && onOwnLine(src, lineStart, openPos, closePos) {
			if len(tokens) > 0 {
				last := &tokens[len(tokens)-1]
				if last.Kind == Text {
					last.Content = strings.TrimRight(last.Content, " \t")
				}
			}
			if pos < len(src) && src[pos] == '\n' {
				advance(src[pos : pos+1])
			} else if pos+1 < len(src) && src[pos] == '\r' && src[pos+1] == '\n' {
				advance(src[pos : pos+2])
			}
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

func appendText(tokens []Token, text string, line, col int) []Token {
	if text == "" {
		return tokens
	}
	return append(tokens, Token{Kind: Text, Content: text, Line: line, Column: col})
}

// onOwnLine reports whether the delimiter run [openPos, closePos) has
// nothing but whitespace between the start of its line and openPos, and
// nothing but whitespace between closePos and the next newline (or EOF).
func onOwnLine(src string, lineStart, openPos, closePos int) bool {
	if strings.TrimSpace(src[lineStart:openPos]) != "" {
		return false
	}
	nl := strings.IndexByte(src[closePos:], '\n')
	var after string
	if nl < 0 {
		after = src[closePos:]
	} else {
		after = src[closePos : closePos+nl]
	}
	return strings.TrimSpace(after) == ""
}

// findNextDelimiter returns the byte offset (relative to rest) of the next
// opening delimiter, its Kind (or -1 for comment), and its matching closing
// delimiter string. Returns offset -1 when no delimiter remains.
func findNextDelimiter(rest string) (int, int, string) {
	vi := strings.Index(rest, variableStart)
	bi := strings.Index(rest, blockStart)
	ci := strings.Index(rest, commentStart)

	best := -1
	kind := -1
	end := ""
	consider := func(idx, k int, e string) {
		if idx < 0 {
			return
		}
		if best == -1 || idx < best {
			best, kind, end = idx, k, e
		}
	}
	consider(vi, int(Variable), variableEnd)
	consider(bi, int(Block), blockEnd)
	consider(ci, -1, commentEnd)
	return best, kind, end
}
