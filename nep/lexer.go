package nep

import (
	"strings"
	"unicode/utf8"
)

// multiWordKeywords are matched by fixed-length lookahead before the
// identifier scan, since the inner space would end a plain identifier.
var multiWordKeywords = []struct {
	text string
	kind TokenKind
}{
	{kwElse, TokenElse},
	{kwWhile, TokenWhile},
	{kwContinue, TokenContinue},
	{kwReturningFunc, TokenFunction},
}

var twoCharOperators = []string{"<=", ">=", "==", "!="}

type lexer struct {
	input string
	ready bool

	offset int
	line   int
	column int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, ready: true, line: 1, column: 1}
}

// Tokenize converts source text into tokens. The returned slice always ends
// with a single EOF token.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

// HasMore reports whether unread input remains.
func (l *lexer) HasMore() bool {
	return l.ready && l.offset < len(l.input)
}

func (l *lexer) NextToken() (Token, error) {
	if !l.ready {
		return Token{}, ErrInvalidState
	}

	for {
		if l.offset >= len(l.input) {
			return Token{Kind: TokenEOF, Pos: l.pos()}, nil
		}
		rest := l.input[l.offset:]
		if strings.HasPrefix(rest, incrementOperator) {
			return l.emit(TokenOperator, len(incrementOperator)), nil
		}
		if !isSpace(rest[0]) {
			break
		}
		l.advance(1)
	}

	rest := l.input[l.offset:]
	ch := rest[0]

	switch {
	case l.matchWord(kwNull):
		return l.emit(TokenNull, len(kwNull)), nil
	case isLetter(ch):
		return l.readIdentifierOrKeyword(), nil
	case isDigit(ch):
		return l.readNumber(), nil
	case strings.IndexByte("+-*/%=!<>", ch) >= 0:
		return l.readOperator()
	case ch == '"':
		return l.readString()
	}

	switch ch {
	case ';':
		return l.emit(TokenSemicolon, 1), nil
	case ',':
		return l.emit(TokenComma, 1), nil
	case '(':
		return l.emit(TokenLeftParen, 1), nil
	case ')':
		return l.emit(TokenRightParen, 1), nil
	case '{':
		return l.emit(TokenLeftBrace, 1), nil
	case '}':
		return l.emit(TokenRightBrace, 1), nil
	case '[':
		return l.emit(TokenLeftSquare, 1), nil
	case ']':
		return l.emit(TokenRightSquare, 1), nil
	}

	return Token{}, l.unexpected()
}

func (l *lexer) readIdentifierOrKeyword() Token {
	for _, kw := range multiWordKeywords {
		if l.matchWord(kw.text) {
			return l.emit(kw.kind, len(kw.text))
		}
	}

	n := 0
	for l.offset+n < len(l.input) && isIdentifierByte(l.input[l.offset+n]) {
		n++
	}
	return l.emit(lookupIdent(l.input[l.offset:l.offset+n]), n)
}

func (l *lexer) readNumber() Token {
	n := 0
	for l.offset+n < len(l.input) && isDigit(l.input[l.offset+n]) {
		n++
	}
	return l.emit(TokenNumber, n)
}

func (l *lexer) readOperator() (Token, error) {
	rest := l.input[l.offset:]
	for _, op := range twoCharOperators {
		if strings.HasPrefix(rest, op) {
			return l.emit(TokenOperator, 2), nil
		}
	}
	if rest[0] == '!' {
		return Token{}, l.unexpected()
	}
	return l.emit(TokenOperator, 1), nil
}

func (l *lexer) readString() (Token, error) {
	start := l.pos()
	end := strings.IndexByte(l.input[l.offset+1:], '"')
	if end < 0 {
		return Token{}, &LexError{Kind: LexUnterminatedString, Char: '"', Pos: start, source: l.input}
	}
	text := l.input[l.offset+1 : l.offset+1+end]
	l.advance(end + 2)
	return Token{Kind: TokenString, Text: text, Pos: start}, nil
}

// matchWord reports whether word starts at the cursor and is not followed
// by another identifier character.
func (l *lexer) matchWord(word string) bool {
	if !strings.HasPrefix(l.input[l.offset:], word) {
		return false
	}
	next := l.offset + len(word)
	return next >= len(l.input) || !isIdentifierByte(l.input[next])
}

func (l *lexer) emit(kind TokenKind, n int) Token {
	tok := Token{Kind: kind, Text: l.input[l.offset : l.offset+n], Pos: l.pos()}
	l.advance(n)
	return tok
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.offset < len(l.input); i++ {
		b := l.input[l.offset]
		if b == '\n' {
			l.line++
			l.column = 1
		} else if utf8.RuneStart(b) {
			l.column++
		}
		l.offset++
	}
}

func (l *lexer) pos() Position {
	return Position{Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *lexer) unexpected() error {
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return &LexError{Kind: LexUnexpectedCharacter, Char: r, Pos: l.pos(), source: l.input}
}

func lookupIdent(ident string) TokenKind {
	switch ident {
	case kwPrint:
		return TokenPrint
	case kwIf:
		return TokenIf
	case kwElseIf:
		return TokenElseIf
	case kwTrue, kwFalse:
		return TokenBoolean
	case kwBreak:
		return TokenBreak
	case kwFunction:
		return TokenFunction
	case kwReturn:
		return TokenReturn
	case kwDeclare:
		return TokenKeyword
	}
	return TokenIdentifier
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentifierByte(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '_'
}
