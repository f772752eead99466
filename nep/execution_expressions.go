package nep

import "math"

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return NewNumber(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBoolean(e.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return NewNull(), exec.errorAt(ErrUndefinedVariable, e.Pos(), "undefined variable %s", e.Name)
		}
		return val, nil
	case *CallExpr:
		return exec.evalCall(e, env)
	case *BinaryExpr:
		left, err := exec.evalExpression(e.Left, env)
		if err != nil {
			return NewNull(), err
		}
		right, err := exec.evalExpression(e.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return exec.evalBinary(e, left, right)
	default:
		return NewNull(), exec.errorAt(ErrTypeError, expr.Pos(), "unsupported expression %T", expr)
	}
}

func (exec *Execution) evalBinary(e *BinaryExpr, left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		return exec.evalNumberBinary(e, left.Number(), right.Number())
	case left.Kind() == KindString || right.Kind() == KindString:
		switch e.Operator {
		case "+":
			return NewString(left.String() + right.String()), nil
		case "==":
			return NewBoolean(valuesEqual(left, right)), nil
		}
	}
	return NewNull(), exec.errorAt(ErrUnsupportedOperator, e.Pos(), "operator %s is not supported between %s and %s", e.Operator, left.Kind(), right.Kind())
}

func (exec *Execution) evalNumberBinary(e *BinaryExpr, a, b float64) (Value, error) {
	switch e.Operator {
	case "+":
		return NewNumber(a + b), nil
	case "-":
		return NewNumber(a - b), nil
	case "*":
		return NewNumber(a * b), nil
	case "/":
		if b == 0 {
			return NewNull(), exec.errorAt(ErrDivisionByZero, e.Pos(), "division by zero")
		}
		return NewNumber(a / b), nil
	case "%":
		if b == 0 {
			return NewNull(), exec.errorAt(ErrDivisionByZero, e.Pos(), "modulo by zero")
		}
		return NewNumber(math.Mod(a, b)), nil
	case "<":
		return NewBoolean(a < b), nil
	case "<=":
		return NewBoolean(a <= b), nil
	case ">":
		return NewBoolean(a > b), nil
	case ">=":
		return NewBoolean(a >= b), nil
	case "==":
		return NewBoolean(a == b), nil
	case "!=":
		return NewBoolean(a != b), nil
	default:
		return NewNull(), exec.errorAt(ErrUnsupportedOperator, e.Pos(), "unknown operator %s", e.Operator)
	}
}

func valuesEqual(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	return a.data == b.data
}

// evalCall evaluates arguments in the caller's environment and runs the body
// in a child of the function's closure environment. Output produced by the
// call is handed to the caller's environment.
func (exec *Execution) evalCall(call *CallExpr, env *Env) (Value, error) {
	callee, ok := env.Get(call.Callee)
	if !ok {
		return NewNull(), exec.errorAt(ErrNotAFunction, call.Pos(), "%s is not a function", call.Callee)
	}
	if callee.Kind() != KindFunction {
		return NewNull(), exec.errorAt(ErrNotAFunction, call.Pos(), "%s is not a function (got %s)", call.Callee, callee.Kind())
	}
	fn := callee.Function()

	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		val, err := exec.evalExpression(arg, env)
		if err != nil {
			return NewNull(), err
		}
		args[i] = val
	}
	if len(args) != len(fn.Params) {
		return NewNull(), exec.errorAt(ErrArityMismatch, call.Pos(), "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	if err := exec.pushFrame(fn.Name, call.Pos()); err != nil {
		return NewNull(), err
	}
	defer exec.popFrame()

	callEnv := newEnv(fn.Env)
	for i, name := range fn.Params {
		callEnv.Define(name, args[i])
	}

	val, ctrl, err := exec.evalBlock(fn.Body, callEnv)
	if err != nil {
		return NewNull(), err
	}
	switch ctrl {
	case controlReturn:
	case controlNone:
		val = NewNull()
	default:
		return NewNull(), exec.errorAt(ErrControlEscape, call.Pos(), "%s escaped function %s", ctrl, fn.Name)
	}
	env.absorb(callEnv)
	return val, nil
}
