package nep

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur().Kind {
	case TokenKeyword:
		return p.parseDeclaration()
	case TokenIdentifier:
		if p.peek().Kind == TokenLeftParen {
			return p.parseCallStatement()
		}
		return p.parseAssignment()
	case TokenPrint:
		return p.parsePrint()
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenFunction:
		return p.parseFunctionDecl()
	case TokenReturn:
		return p.parseReturn()
	case TokenBreak:
		return p.parseBreak()
	case TokenContinue:
		return p.parseContinue()
	case TokenLeftBrace:
		return p.parseBlock()
	case TokenElseIf, TokenElse:
		tok := p.cur()
		return nil, p.syntaxError(tok.Pos, tokenLabel(tok)+" without a preceding 'yedi'")
	case TokenSemicolon:
		p.advance()
		return nil, nil
	default:
		tok := p.advance()
		p.report(tok.Pos, "unexpected %s", tokenLabel(tok))
		return nil, nil
	}
}

func (p *parser) parseDeclaration() (Statement, error) {
	kw := p.advance()
	name, err := p.expect(TokenIdentifier, "variable name after 'rakh'")
	if err != nil {
		return nil, err
	}

	stmt := &VarDeclStmt{Name: name.Text, position: kw.Pos}
	record, fresh := p.scope.declare(name.Text, TypeNumber, name.Pos)
	if !fresh {
		p.report(name.Pos, "variable %s is already declared in this scope", name.Text)
	}

	if p.cur().isOperator("=") {
		p.advance()
		init, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		stmt.Init = init
		if fresh {
			record.Type = p.inferType(init, false)
			record.LastValue = init
		} else {
			p.inferType(init, false)
		}
	}

	if _, err := p.expect(TokenSemicolon, "';' after declaration"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseAssignment() (Statement, error) {
	name := p.advance()
	record, known := p.scope.lookup(name.Text)
	if !known {
		p.report(name.Pos, "undeclared variable %s", name.Text)
	}

	if p.cur().isOperator(incrementOperator) {
		p.advance()
		if _, err := p.expect(TokenSemicolon, "';' after increment"); err != nil {
			return nil, err
		}
		return &IncrementStmt{Name: name.Text, position: name.Pos}, nil
	}

	if !p.cur().isOperator("=") {
		return nil, p.errorExpected(p.cur(), "'=' or '++' after "+name.Text)
	}
	p.advance()
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	typ := p.inferType(value, false)
	if known {
		if record.staticType() != typ {
			record.Type = typeUnknown
			record.Placeholder = false
		}
		record.LastValue = value
	}

	if _, err := p.expect(TokenSemicolon, "';' after assignment"); err != nil {
		return nil, err
	}
	return &AssignStmt{Name: name.Text, Value: value, position: name.Pos}, nil
}

func (p *parser) parsePrint() (Statement, error) {
	kw := p.advance()
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	p.inferType(value, true)
	if _, err := p.expect(TokenSemicolon, "';' after 'nikaal' value"); err != nil {
		return nil, err
	}
	return &PrintStmt{Value: value, position: kw.Pos}, nil
}

func (p *parser) parseIf() (Statement, error) {
	kw := p.advance()
	root, err := p.parseConditionalBranch(kw)
	if err != nil {
		return nil, err
	}

	tail := root
	for p.at(TokenElseIf) {
		branch, err := p.parseConditionalBranch(p.advance())
		if err != nil {
			return nil, err
		}
		tail.Alternate = branch
		tail = branch
	}

	if p.at(TokenElse) {
		p.advance()
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		tail.Alternate = block
	}
	return root, nil
}

func (p *parser) parseConditionalBranch(kw Token) (*IfStmt, error) {
	test, err := p.parseCondition(kw)
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &IfStmt{Test: test, Consequent: consequent, position: kw.Pos}, nil
}

func (p *parser) parseCondition(kw Token) (Expression, error) {
	if _, err := p.expect(TokenLeftParen, "'(' after "+tokenLabel(kw)); err != nil {
		return nil, err
	}
	test, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "')' after condition"); err != nil {
		return nil, err
	}
	// The condition's type is checked when it is evaluated.
	p.inferType(test, false)
	return test, nil
}

func (p *parser) parseWhile() (Statement, error) {
	kw := p.advance()
	test, err := p.parseCondition(kw)
	if err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.parseBlock()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Test: test, Body: body, position: kw.Pos}, nil
}

func (p *parser) parseBlock() (*BlockStmt, error) {
	open, err := p.expect(TokenLeftBrace, "'{'")
	if err != nil {
		return nil, err
	}

	block := &BlockStmt{position: open.Pos}
	p.pushScope()
	defer p.popScope()

	for !p.at(TokenRightBrace) {
		if p.at(TokenEOF) {
			return nil, p.syntaxError(open.Pos, "block is missing its closing '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.advance()
	return block, nil
}

func (p *parser) parseFunctionDecl() (Statement, error) {
	kw := p.advance()
	name, err := p.expect(TokenIdentifier, "function name after "+tokenLabel(kw))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []*Identifier
	if !p.at(TokenRightParen) {
		for {
			param, err := p.expect(TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, &Identifier{Name: param.Text, position: param.Pos})
			if !p.at(TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(TokenRightParen, "')' after parameters"); err != nil {
		return nil, err
	}

	stmt := &FunctionStmt{
		Name:     name.Text,
		Params:   params,
		Returns:  kw.Text == kwReturningFunc,
		position: kw.Pos,
	}

	p.pushScope()
	for _, param := range params {
		record, fresh := p.scope.declare(param.Name, TypeString, param.Pos())
		if !fresh {
			p.report(param.Pos(), "duplicate parameter %s in function %s", param.Name, name.Text)
			continue
		}
		record.Placeholder = true
	}
	savedLoop := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	body, err := p.parseBlock()
	p.funcDepth--
	p.loopDepth = savedLoop
	p.popScope()
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	hasReturn := containsReturn(body.Statements)
	switch {
	case stmt.Returns && !hasReturn:
		p.report(kw.Pos, "function %s is declared with '%s' but never uses '%s'", name.Text, kwReturningFunc, kwReturn)
	case !stmt.Returns && hasReturn:
		p.report(kw.Pos, "function %s is declared with '%s' and cannot use '%s'", name.Text, kwFunction, kwReturn)
	}
	return stmt, nil
}

// containsReturn reports whether stmts contain a return, looking into nested
// blocks but not into nested function declarations.
func containsReturn(stmts []Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ReturnStmt:
			return true
		case *BlockStmt:
			if containsReturn(s.Statements) {
				return true
			}
		case *WhileStmt:
			if containsReturn(s.Body.Statements) {
				return true
			}
		case *IfStmt:
			if containsReturn([]Statement{s.Consequent}) {
				return true
			}
			if s.Alternate != nil && containsReturn([]Statement{s.Alternate}) {
				return true
			}
		}
	}
	return false
}

func (p *parser) parseCallStatement() (Statement, error) {
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "';' after call"); err != nil {
		return nil, err
	}
	return &CallStmt{Call: call, position: call.Pos()}, nil
}

func (p *parser) parseReturn() (Statement, error) {
	kw := p.advance()
	if p.funcDepth == 0 {
		p.report(kw.Pos, "'%s' outside of a function", kwReturn)
	}
	stmt := &ReturnStmt{position: kw.Pos}
	if !p.at(TokenSemicolon) {
		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		p.inferType(value, false)
		stmt.Value = value
	}
	if _, err := p.expect(TokenSemicolon, "';' after return"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseBreak() (Statement, error) {
	kw := p.advance()
	if p.loopDepth == 0 {
		p.report(kw.Pos, "'%s' outside of a loop", kwBreak)
	}
	if _, err := p.expect(TokenSemicolon, "';' after '"+kwBreak+"'"); err != nil {
		return nil, err
	}
	return &BreakStmt{position: kw.Pos}, nil
}

func (p *parser) parseContinue() (Statement, error) {
	kw := p.advance()
	if p.loopDepth == 0 {
		p.report(kw.Pos, "'%s' outside of a loop", kwContinue)
	}
	if _, err := p.expect(TokenSemicolon, "';' after '"+kwContinue+"'"); err != nil {
		return nil, err
	}
	return &ContinueStmt{position: kw.Pos}, nil
}
