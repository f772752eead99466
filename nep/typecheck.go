package nep

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

// inferType derives the static type of expr and reports undeclared names and
// operand mismatches. Inside a print statement comparisons between numbers
// are rejected as well. typeUnknown means the type is decided at run time.
func (p *parser) inferType(expr Expression, inPrint bool) VarType {
	switch e := expr.(type) {
	case *NumberLiteral:
		return TypeNumber
	case *StringLiteral:
		return TypeString
	case *BoolLiteral:
		return TypeBoolean
	case *NullLiteral:
		return typeUnknown
	case *Identifier:
		record, ok := p.scope.lookup(e.Name)
		if !ok {
			p.report(e.Pos(), "undeclared variable %s", e.Name)
			return typeUnknown
		}
		return record.staticType()
	case *CallExpr:
		for _, arg := range e.Args {
			p.inferType(arg, false)
		}
		return typeUnknown
	case *BinaryExpr:
		return p.inferBinaryType(e, inPrint)
	}
	return typeUnknown
}

func (p *parser) inferBinaryType(e *BinaryExpr, inPrint bool) VarType {
	left := p.inferType(e.Left, inPrint)
	right := p.inferType(e.Right, inPrint)
	arithmetic := isArithmetic(e.Operator)

	if left == typeUnknown || right == typeUnknown {
		if !arithmetic {
			return TypeBoolean
		}
		return typeUnknown
	}

	switch {
	case left == TypeNumber && right == TypeNumber:
		if arithmetic {
			return TypeNumber
		}
		if inPrint {
			p.report(e.Pos(), "cannot print the result of %s between numbers", e.Operator)
		}
		return TypeBoolean
	case left == right:
		// Same-type operands are left to the evaluator.
		if left == TypeString && e.Operator == "+" {
			return TypeString
		}
		if !arithmetic {
			return TypeBoolean
		}
		return typeUnknown
	case (left == TypeNumber && right == TypeString) || (left == TypeString && right == TypeNumber):
		if e.Operator == "+" {
			return TypeString
		}
	}

	p.report(e.Pos(), "type mismatch: %s %s %s", left, e.Operator, right)
	return typeUnknown
}
