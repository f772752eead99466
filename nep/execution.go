package nep

import "context"

// control is the non-value outcome of a statement. It unwinds the enclosing
// statements until a While (break, continue) or a call (return) takes it.
type control int

const (
	controlNone control = iota
	controlBreak
	controlContinue
	controlReturn
)

func (c control) String() string {
	switch c {
	case controlBreak:
		return "'" + kwBreak + "'"
	case controlContinue:
		return "'" + kwContinue + "'"
	case controlReturn:
		return "'" + kwReturn + "'"
	default:
		return "none"
	}
}

// Execution holds the state of a single evaluation run.
type Execution struct {
	ctx          context.Context
	source       string
	quota        int
	recursionCap int
	steps        int
	callStack    []StackFrame
	root         *Env
}

func newExecution(ctx context.Context, cfg Config, source string, root *Env) *Execution {
	if ctx == nil {
		ctx = context.Background()
	}
	if root == nil {
		root = newEnv(nil)
	}
	return &Execution{
		ctx:          ctx,
		source:       source,
		quota:        cfg.StepQuota,
		recursionCap: cfg.RecursionLimit,
		callStack:    make([]StackFrame, 0, 8),
		root:         root,
	}
}

// runProgram evaluates every top-level statement in the root environment and
// returns the value of the last one.
func (exec *Execution) runProgram(program *Program) (Value, error) {
	last := NewNull()
	for _, stmt := range program.Statements {
		val, ctrl, err := exec.evalStatement(stmt, exec.root)
		if err != nil {
			return NewNull(), err
		}
		if ctrl != controlNone {
			return NewNull(), exec.errorAt(ErrControlEscape, stmt.Pos(), "%s reached the top level", ctrl)
		}
		last = val
	}
	return last, nil
}

func (exec *Execution) evalStatements(stmts []Statement, env *Env) (Value, control, error) {
	last := NewNull()
	for _, stmt := range stmts {
		val, ctrl, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewNull(), controlNone, err
		}
		if ctrl != controlNone {
			return val, ctrl, nil
		}
		last = val
	}
	return last, controlNone, nil
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, control, error) {
	if err := exec.step(stmt.Pos()); err != nil {
		return NewNull(), controlNone, err
	}

	switch s := stmt.(type) {
	case *VarDeclStmt:
		// An uninitialized declaration starts at zero.
		val := NewNumber(0)
		if s.Init != nil {
			var err error
			if val, err = exec.evalExpression(s.Init, env); err != nil {
				return NewNull(), controlNone, err
			}
		}
		env.Define(s.Name, val)
		return val, controlNone, nil
	case *AssignStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNull(), controlNone, err
		}
		if !env.Assign(s.Name, val) {
			return NewNull(), controlNone, exec.errorAt(ErrUndefinedVariable, s.Pos(), "undefined variable %s", s.Name)
		}
		return val, controlNone, nil
	case *IncrementStmt:
		val, err := exec.evalIncrement(s, env)
		return val, controlNone, err
	case *PrintStmt:
		val, err := exec.evalPrint(s, env)
		return val, controlNone, err
	case *IfStmt:
		return exec.evalIf(s, env)
	case *BlockStmt:
		return exec.evalBlock(s, env)
	case *WhileStmt:
		return exec.evalWhile(s, env)
	case *BreakStmt:
		return NewNull(), controlBreak, nil
	case *ContinueStmt:
		return NewNull(), controlContinue, nil
	case *FunctionStmt:
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Name
		}
		fn := NewFunction(&Function{Name: s.Name, Params: params, Body: s.Body, Env: env})
		env.Define(s.Name, fn)
		return fn, controlNone, nil
	case *ReturnStmt:
		if s.Value == nil {
			return NewNull(), controlReturn, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNull(), controlNone, err
		}
		return val, controlReturn, nil
	case *CallStmt:
		val, err := exec.evalCall(s.Call, env)
		return val, controlNone, err
	default:
		return NewNull(), controlNone, exec.errorAt(ErrTypeError, stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *Execution) evalIncrement(s *IncrementStmt, env *Env) (Value, error) {
	current, ok := env.Get(s.Name)
	if !ok {
		return NewNull(), exec.errorAt(ErrUndefinedVariable, s.Pos(), "undefined variable %s", s.Name)
	}
	if current.Kind() != KindNumber {
		return NewNull(), exec.errorAt(ErrTypeError, s.Pos(), "cannot increment %s (%s)", s.Name, current.Kind())
	}
	next := NewNumber(current.Number() + 1)
	env.Assign(s.Name, next)
	return next, nil
}

func (exec *Execution) evalPrint(s *PrintStmt, env *Env) (Value, error) {
	val, err := exec.evalExpression(s.Value, env)
	if err != nil {
		return NewNull(), err
	}
	switch val.Kind() {
	case KindNumber, KindString, KindBoolean:
		env.Print(val.String())
		return val, nil
	default:
		return NewNull(), exec.errorAt(ErrTypeError, s.Pos(), "cannot print a %s value", val.Kind())
	}
}

func (exec *Execution) evalCondition(test Expression, env *Env) (bool, error) {
	val, err := exec.evalExpression(test, env)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBoolean {
		return false, exec.errorAt(ErrTypeError, test.Pos(), "condition must be %s, got %s", KindBoolean, val.Kind())
	}
	return val.Bool(), nil
}

func (exec *Execution) evalIf(s *IfStmt, env *Env) (Value, control, error) {
	ok, err := exec.evalCondition(s.Test, env)
	if err != nil {
		return NewNull(), controlNone, err
	}
	if ok {
		return exec.evalBlock(s.Consequent, env)
	}
	switch alt := s.Alternate.(type) {
	case *IfStmt:
		return exec.evalIf(alt, env)
	case *BlockStmt:
		return exec.evalBlock(alt, env)
	default:
		return NewNull(), controlNone, nil
	}
}

// evalBlock runs block in a fresh child of parent. The child's output log is
// handed to parent whenever the block finishes without a runtime error.
func (exec *Execution) evalBlock(block *BlockStmt, parent *Env) (Value, control, error) {
	scope := newEnv(parent)
	val, ctrl, err := exec.evalStatements(block.Statements, scope)
	if err != nil {
		return NewNull(), controlNone, err
	}
	parent.absorb(scope)
	return val, ctrl, nil
}

func (exec *Execution) evalWhile(s *WhileStmt, env *Env) (Value, control, error) {
	for {
		if err := exec.step(s.Pos()); err != nil {
			return NewNull(), controlNone, err
		}
		ok, err := exec.evalCondition(s.Test, env)
		if err != nil {
			return NewNull(), controlNone, err
		}
		if !ok {
			return NewNull(), controlNone, nil
		}

		val, ctrl, err := exec.evalBlock(s.Body, env)
		if err != nil {
			return NewNull(), controlNone, err
		}
		switch ctrl {
		case controlBreak:
			return NewNull(), controlNone, nil
		case controlReturn:
			return val, ctrl, nil
		}
	}
}
