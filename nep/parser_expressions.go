package nep

import "strconv"

const (
	precLowest = iota
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

// binaryPrecedence returns the binding level of a binary operator, or
// precLowest when op does not continue an expression.
func binaryPrecedence(op string) int {
	switch op {
	case "==", "!=":
		return precEquality
	case "<", "<=", ">", ">=":
		return precRelational
	case "+", "-":
		return precAdditive
	case "*", "/", "%":
		return precMultiplicative
	default:
		return precLowest
	}
}

// parseExpression climbs operator precedence. Operators bind left to right
// within a level; a parenthesized group restarts at precLowest.
func (p *parser) parseExpression(minPrec int) (Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()
		if tok.Kind != TokenOperator {
			return left, nil
		}
		prec := binaryPrecedence(tok.Text)
		if prec <= minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: tok.Text, Right: right, position: tok.Pos}
	}
}

func (p *parser) parsePrimary() (Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.syntaxError(tok.Pos, "invalid number literal "+tok.Text)
		}
		return &NumberLiteral{Value: value, position: tok.Pos}, nil
	case TokenString:
		p.advance()
		return &StringLiteral{Value: tok.Text, position: tok.Pos}, nil
	case TokenBoolean:
		p.advance()
		return &BoolLiteral{Value: tok.Text == kwTrue, position: tok.Pos}, nil
	case TokenNull:
		p.advance()
		return &NullLiteral{position: tok.Pos}, nil
	case TokenIdentifier:
		if p.peek().Kind == TokenLeftParen {
			return p.parseCall()
		}
		p.advance()
		return &Identifier{Name: tok.Text, position: tok.Pos}, nil
	case TokenLeftParen:
		p.advance()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorExpected(tok, "expression")
	}
}

func (p *parser) parseCall() (*CallExpr, error) {
	name := p.advance()
	if _, err := p.expect(TokenLeftParen, "'(' after "+name.Text); err != nil {
		return nil, err
	}

	call := &CallExpr{Callee: name.Text, position: name.Pos}
	if !p.at(TokenRightParen) {
		for {
			arg, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.at(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after arguments"); err != nil {
		return nil, err
	}
	return call, nil
}
