package nep

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
	source     string
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{Line: 1, Column: 1}
	}
	return p.Statements[0].Pos()
}

// VarDeclStmt is a `rakh` declaration. Init is nil when no initializer is given.
type VarDeclStmt struct {
	Name     string
	Init     Expression
	position Position
}

func (s *VarDeclStmt) stmtNode()     {}
func (s *VarDeclStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type IncrementStmt struct {
	Name     string
	position Position
}

func (s *IncrementStmt) stmtNode()     {}
func (s *IncrementStmt) Pos() Position { return s.position }

type PrintStmt struct {
	Value    Expression
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

// IfStmt covers the whole yedi/navaye/haina bhane chain. Alternate is nil,
// another *IfStmt for a navaye branch, or a *BlockStmt for the final else.
type IfStmt struct {
	Test       Expression
	Consequent *BlockStmt
	Alternate  Statement
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type BlockStmt struct {
	Statements []Statement
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Test     Expression
	Body     *BlockStmt
	position Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type ContinueStmt struct {
	position Position
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.position }

// FunctionStmt declares a function. Returns is set for the `kaam ra firta` form.
type FunctionStmt struct {
	Name     string
	Params   []*Identifier
	Body     *BlockStmt
	Returns  bool
	position Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type CallStmt struct {
	Call     *CallExpr
	position Position
}

func (s *CallStmt) stmtNode()     {}
func (s *CallStmt) Pos() Position { return s.position }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type NumberLiteral struct {
	Value    float64
	position Position
}

func (e *NumberLiteral) exprNode()     {}
func (e *NumberLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type NullLiteral struct {
	position Position
}

func (e *NullLiteral) exprNode()     {}
func (e *NullLiteral) Pos() Position { return e.position }

type CallExpr struct {
	Callee   string
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator string
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }
