package nep

// Env is one lexical scope. Every block, loop iteration and call gets its own
// Env; print output is logged on the Env it ran in and bubbles to the parent
// once that construct completes.
type Env struct {
	parent  *Env
	values  map[string]Value
	outputs []string
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if val, ok := cur.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Assign rebinds name in the nearest scope that owns it. It reports false
// when no scope does.
func (e *Env) Assign(name string, val Value) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.values[name]; ok {
			cur.values[name] = val
			return true
		}
	}
	return false
}

func (e *Env) Print(line string) {
	e.outputs = append(e.outputs, line)
}

func (e *Env) Outputs() []string {
	return append([]string(nil), e.outputs...)
}

// absorb appends the output log of a finished child scope.
func (e *Env) absorb(child *Env) {
	e.outputs = append(e.outputs, child.outputs...)
}

// forgetExcept drops every binding of this scope whose name is not in keep.
func (e *Env) forgetExcept(keep map[string]Value) {
	for name := range e.values {
		if _, ok := keep[name]; !ok {
			delete(e.values, name)
		}
	}
}

func (e *Env) drainOutputs() []string {
	out := e.outputs
	e.outputs = nil
	return out
}
