package nep

import "fmt"

type parser struct {
	tokens []Token
	cursor int
	source string

	scope       *symbolTable
	loopDepth   int
	funcDepth   int
	diagnostics []Diagnostic
}

func newParser(tokens []Token, source string, globals *symbolTable) *parser {
	if globals == nil {
		globals = newSymbolTable(nil)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		var end Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Kind: TokenEOF, Pos: end})
	}
	return &parser{tokens: tokens, source: source, scope: globals}
}

// Parse tokenizes and parses source into a program. Structural problems are
// returned as *LexError or *SyntaxError; semantic problems are collected
// and returned together as *ParseErrors.
func Parse(source string) (*Program, error) {
	return parseWithGlobals(source, nil)
}

// ParseProgram parses an already tokenized program.
func ParseProgram(tokens []Token) (*Program, error) {
	return newParser(tokens, "", nil).parseProgram()
}

func parseWithGlobals(source string, globals *symbolTable) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return newParser(tokens, source, globals).parseProgram()
}

func (p *parser) parseProgram() (*Program, error) {
	program := &Program{source: p.source}
	for !p.at(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	if len(p.diagnostics) > 0 {
		return nil, &ParseErrors{Diagnostics: p.diagnostics, source: p.source}
	}
	return program, nil
}

func (p *parser) cur() Token {
	return p.tokens[p.cursor]
}

func (p *parser) peek() Token {
	if p.cursor+1 < len(p.tokens) {
		return p.tokens[p.cursor+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.cursor]
	if tok.Kind != TokenEOF {
		p.cursor++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.cur().Kind == kind
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, p.errorExpected(tok, what)
	}
	return p.advance(), nil
}

func (p *parser) errorExpected(tok Token, expected string) error {
	return p.syntaxError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) syntaxError(pos Position, msg string) error {
	return &SyntaxError{Pos: pos, Msg: msg, source: p.source}
}

func (p *parser) report(pos Position, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) pushScope() {
	p.scope = newSymbolTable(p.scope)
}

func (p *parser) popScope() {
	p.scope = p.scope.parent
}

func tokenLabel(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return fmt.Sprintf("identifier %s", tok.Text)
	case TokenNumber:
		return fmt.Sprintf("number %s", tok.Text)
	case TokenString:
		return fmt.Sprintf("string %q", tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}
