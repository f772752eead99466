package nep

// VarType is the statically inferred type of a declared variable.
type VarType string

const (
	TypeNumber  VarType = "Number"
	TypeString  VarType = "String"
	TypeBoolean VarType = "Boolean"

	// typeUnknown marks values whose type is only known at run time:
	// parameters, call results and null.
	typeUnknown VarType = ""
)

type VarScope string

const (
	ScopeGlobal VarScope = "Global"
	ScopeLocal  VarScope = "Local"
)

// declaredVar is the parse-time record kept for every rakh declaration and
// function parameter. It is never consulted by the evaluator.
type declaredVar struct {
	Name        string
	Type        VarType
	LastValue   Expression
	Scope       VarScope
	Placeholder bool
	Pos         Position
}

func (v *declaredVar) staticType() VarType {
	if v.Placeholder {
		return typeUnknown
	}
	return v.Type
}

type symbolTable struct {
	vars   map[string]*declaredVar
	parent *symbolTable
	scope  VarScope
}

func newSymbolTable(parent *symbolTable) *symbolTable {
	scope := ScopeLocal
	if parent == nil {
		scope = ScopeGlobal
	}
	return &symbolTable{vars: make(map[string]*declaredVar), parent: parent, scope: scope}
}

// declare registers name in this table only. The returned bool is false when
// the name was already declared here; the existing record is returned then.
func (t *symbolTable) declare(name string, typ VarType, pos Position) (*declaredVar, bool) {
	if existing, ok := t.vars[name]; ok {
		return existing, false
	}
	v := &declaredVar{Name: name, Type: typ, Scope: t.scope, Pos: pos}
	t.vars[name] = v
	return v, true
}

func (t *symbolTable) lookup(name string) (*declaredVar, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// clone copies the table and its records so a failed parse cannot leak
// declarations into the original.
func (t *symbolTable) clone() *symbolTable {
	if t == nil {
		return nil
	}
	out := &symbolTable{vars: make(map[string]*declaredVar, len(t.vars)), parent: t.parent.clone(), scope: t.scope}
	for name, v := range t.vars {
		copied := *v
		out.vars[name] = &copied
	}
	return out
}
