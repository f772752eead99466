package nep

import "fmt"

// Dump converts an AST node into plain maps and slices that encode cleanly
// as YAML or JSON. Every node carries its "type" and source "pos".
func Dump(node Node) map[string]any {
	if node == nil {
		return nil
	}
	out := map[string]any{"pos": fmt.Sprintf("%d:%d", node.Pos().Line, node.Pos().Column)}

	switch n := node.(type) {
	case *Program:
		out["type"] = "Program"
		out["body"] = dumpStatements(n.Statements)
	case *VarDeclStmt:
		out["type"] = "VarDecl"
		out["name"] = n.Name
		if n.Init != nil {
			out["init"] = Dump(n.Init)
		}
	case *AssignStmt:
		out["type"] = "Assign"
		out["name"] = n.Name
		out["value"] = Dump(n.Value)
	case *IncrementStmt:
		out["type"] = "Increment"
		out["name"] = n.Name
	case *PrintStmt:
		out["type"] = "Print"
		out["value"] = Dump(n.Value)
	case *IfStmt:
		out["type"] = "If"
		out["test"] = Dump(n.Test)
		out["consequent"] = Dump(n.Consequent)
		if n.Alternate != nil {
			out["alternate"] = Dump(n.Alternate)
		}
	case *BlockStmt:
		out["type"] = "Block"
		out["body"] = dumpStatements(n.Statements)
	case *WhileStmt:
		out["type"] = "While"
		out["test"] = Dump(n.Test)
		out["body"] = Dump(n.Body)
	case *BreakStmt:
		out["type"] = "Break"
	case *ContinueStmt:
		out["type"] = "Continue"
	case *FunctionStmt:
		out["type"] = "FuncDecl"
		out["name"] = n.Name
		params := make([]string, len(n.Params))
		for i, param := range n.Params {
			params[i] = param.Name
		}
		out["params"] = params
		out["returns"] = n.Returns
		out["body"] = Dump(n.Body)
	case *ReturnStmt:
		out["type"] = "Return"
		if n.Value != nil {
			out["argument"] = Dump(n.Value)
		}
	case *CallStmt:
		return Dump(n.Call)
	case *CallExpr:
		out["type"] = "Call"
		out["callee"] = n.Callee
		args := make([]map[string]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Dump(arg)
		}
		out["args"] = args
	case *BinaryExpr:
		out["type"] = "BinaryExpr"
		out["operator"] = n.Operator
		out["left"] = Dump(n.Left)
		out["right"] = Dump(n.Right)
	case *Identifier:
		out["type"] = "Identifier"
		out["name"] = n.Name
	case *NumberLiteral:
		out["type"] = "NumberLit"
		out["value"] = n.Value
	case *StringLiteral:
		out["type"] = "StringLit"
		out["value"] = n.Value
	case *BoolLiteral:
		out["type"] = "BoolLit"
		out["value"] = n.Value
	case *NullLiteral:
		out["type"] = "NullLit"
	default:
		out["type"] = fmt.Sprintf("%T", node)
	}
	return out
}

func dumpStatements(stmts []Statement) []map[string]any {
	out := make([]map[string]any, len(stmts))
	for i, stmt := range stmts {
		out[i] = Dump(stmt)
	}
	return out
}
