package runtime

import (
	"io"
	"strings"

	"github.com/deicod/dtl/value"
)

// OutputStream is the escape-aware sink every node writes through
// (SPEC_FULL.md §3). Unlike gojinja's channel-based TemplateStream (whose
// generator-style delivery this language's synchronous node tree has no use
// for — see DESIGN.md), it is a thin, synchronous wrapper over an
// io.Writer: nodes never need to pull from it, only push.
type OutputStream struct {
	w   io.Writer
	err error
}

// NewOutputStream wraps w. Render errors returned from w are sticky: once
// set, subsequent writes are no-ops, so a node tree that ignores a write
// error from a nested call still can't silently continue past a broken
// sink.
func NewOutputStream(w io.Writer) *OutputStream {
	return &OutputStream{w: w}
}

// NewBufferedOutputStream returns an OutputStream over a fresh
// strings.Builder, along with that builder — used to capture a rendered
// fragment in isolation (a block's default body before `{{ block.super }}`
// substitution, for instance).
func NewBufferedOutputStream() (*OutputStream, *strings.Builder) {
	var b strings.Builder
	return NewOutputStream(&b), &b
}

// WriteString writes raw text verbatim, bypassing escaping. Used for
// TextNode's literal spans, which are never subject to auto-escape.
func (o *OutputStream) WriteString(s string) error {
	if o.err != nil {
		return o.err
	}
	if s == "" {
		return nil
	}
	_, err := io.WriteString(o.w, s)
	if err != nil {
		o.err = err
	}
	return err
}

// WriteValue stringifies v and writes it, applying HTML escaping when
// autoEscape is true and v is not already a Safe value.SafeString
// (SPEC_FULL.md §3 "auto-escape discipline"). This is the path VariableNode
// and the print-filters route every resolved value through.
func (o *OutputStream) WriteValue(v value.Value, autoEscape bool) error {
	if o.err != nil {
		return o.err
	}
	if ss, ok := v.(value.SafeString); ok {
		switch {
		case ss.NeedsEscape:
			return o.WriteString(value.EscapeHTML(ss.String()))
		case ss.Safe || !autoEscape:
			return o.WriteString(ss.String())
		default:
			return o.WriteString(value.EscapeHTML(ss.String()))
		}
	}
	s := value.ToString(v)
	if !autoEscape {
		return o.WriteString(s)
	}
	return o.WriteString(value.EscapeHTML(s))
}

// Err reports the first write error this stream encountered, if any.
func (o *OutputStream) Err() error { return o.err }
