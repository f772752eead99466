package nep

import (
	"context"
	"maps"
	"sync"
)

// Session evaluates successive chunks of source against shared state, the
// way a REPL does. Declarations and bindings from one Eval are visible to
// the next until Reset is called.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	globals *symbolTable
	root    *Env
}

func (e *Engine) NewSession() *Session {
	return &Session{engine: e, globals: newSymbolTable(nil), root: newEnv(nil)}
}

// Eval parses source against the session's declarations and runs it in the
// session's root environment. The Result only carries the outputs printed
// by this chunk. Declarations of a chunk that fails to parse or run are
// discarded; assignments it made to earlier bindings are kept.
func (s *Session) Eval(ctx context.Context, source string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	globals := s.globals.clone()
	program, err := parseWithGlobals(source, globals)
	if err != nil {
		return nil, &CompileError{Origin: OriginCompile, Err: err}
	}

	before := maps.Clone(s.root.values)
	exec := newExecution(ctx, s.engine.config, source, s.root)
	result, err := s.engine.evaluate(exec, program, s.root.drainOutputs)
	if err != nil {
		s.root.forgetExcept(before)
		return result, err
	}
	s.globals = globals
	return result, nil
}

// Reset forgets every declaration and binding.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globals = newSymbolTable(nil)
	s.root = newEnv(nil)
}

// Bindings returns a copy of the session's top-level bindings.
func (s *Session) Bindings() map[string]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.root.values)
}
