package nep

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState is returned when a lexer is used before it was initialized.
var ErrInvalidState = errors.New("lexer is not initialized")

type LexErrorKind string

const (
	LexUnexpectedCharacter LexErrorKind = "UnexpectedCharacter"
	LexUnterminatedString  LexErrorKind = "UnterminatedString"
)

// LexError reports a character the lexer could not turn into a token.
type LexError struct {
	Kind   LexErrorKind
	Char   rune
	Pos    Position
	source string
}

func (e *LexError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case LexUnterminatedString:
		fmt.Fprintf(&b, "lex error at %d:%d: unterminated string literal", e.Pos.Line, e.Pos.Column)
	default:
		fmt.Fprintf(&b, "lex error at %d:%d: unexpected character %q at offset %d", e.Pos.Line, e.Pos.Column, e.Char, e.Pos.Offset)
	}
	writeFrame(&b, e.source, e.Pos)
	return b.String()
}

// SyntaxError is a structural violation. It aborts the parse immediately.
type SyntaxError struct {
	Pos    Position
	Msg    string
	source string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	writeFrame(&b, e.source, e.Pos)
	return b.String()
}

// Diagnostic is a recoverable semantic problem found while parsing.
type Diagnostic struct {
	Pos Position
	Msg string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Pos.Line, d.Pos.Column, d.Msg)
}

// ParseErrors carries every semantic diagnostic collected during a parse.
type ParseErrors struct {
	Diagnostics []Diagnostic
	source      string
}

func (e *ParseErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parsing failed with %d error(s):", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		fmt.Fprintf(&b, "\n\nsemantic error at %s", d)
		writeFrame(&b, e.source, d.Pos)
	}
	return b.String()
}

type ErrorOrigin string

const (
	OriginCompile    ErrorOrigin = "compiler"
	OriginUnexpected ErrorOrigin = "unexpected"
)

// CompileError is the single failure surfaced to hosts. Origin separates
// problems found before evaluation from failures raised while running.
type CompileError struct {
	Origin ErrorOrigin
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Origin, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func writeFrame(b *strings.Builder, source string, pos Position) {
	if frame := formatCodeFrame(source, pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
}
