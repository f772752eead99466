package nep

import (
	"strconv"
	"strings"
)

const formatIndent = "    "

type formatter struct {
	b     strings.Builder
	depth int
}

// Format renders program in canonical layout: one statement per line,
// four-space indentation and only the parentheses precedence requires.
func Format(program *Program) string {
	f := &formatter{}
	for _, stmt := range program.Statements {
		f.statement(stmt)
	}
	return f.b.String()
}

func (f *formatter) line(text string) {
	f.b.WriteString(strings.Repeat(formatIndent, f.depth))
	f.b.WriteString(text)
	f.b.WriteString("\n")
}

func (f *formatter) statement(stmt Statement) {
	switch s := stmt.(type) {
	case *VarDeclStmt:
		if s.Init == nil {
			f.line(kwDeclare + " " + s.Name + ";")
			return
		}
		f.line(kwDeclare + " " + s.Name + " = " + formatExpr(s.Init, precLowest, false) + ";")
	case *AssignStmt:
		f.line(s.Name + " = " + formatExpr(s.Value, precLowest, false) + ";")
	case *IncrementStmt:
		f.line(s.Name + incrementOperator + ";")
	case *PrintStmt:
		f.line(kwPrint + " " + formatExpr(s.Value, precLowest, false) + ";")
	case *IfStmt:
		f.ifChain(s)
	case *BlockStmt:
		f.block("", s)
	case *WhileStmt:
		f.block(kwWhile+" ("+formatExpr(s.Test, precLowest, false)+") ", s.Body)
	case *BreakStmt:
		f.line(kwBreak + ";")
	case *ContinueStmt:
		f.line(kwContinue + ";")
	case *FunctionStmt:
		head := kwFunction
		if s.Returns {
			head = kwReturningFunc
		}
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Name
		}
		f.block(head+" "+s.Name+"("+strings.Join(params, ", ")+") ", s.Body)
	case *ReturnStmt:
		if s.Value == nil {
			f.line(kwReturn + ";")
			return
		}
		f.line(kwReturn + " " + formatExpr(s.Value, precLowest, false) + ";")
	case *CallStmt:
		f.line(formatExpr(s.Call, precLowest, false) + ";")
	}
}

func (f *formatter) block(head string, body *BlockStmt) {
	if len(body.Statements) == 0 {
		f.line(head + "{}")
		return
	}
	f.open(head)
	f.body(body)
	f.line("}")
}

func (f *formatter) ifChain(s *IfStmt) {
	head := kwIf + " (" + formatExpr(s.Test, precLowest, false) + ") "
	for {
		f.open(head)
		f.body(s.Consequent)
		switch alt := s.Alternate.(type) {
		case *IfStmt:
			head = "} " + kwElseIf + " (" + formatExpr(alt.Test, precLowest, false) + ") "
			s = alt
			continue
		case *BlockStmt:
			f.open("} " + kwElse + " ")
			f.body(alt)
		}
		f.line("}")
		return
	}
}

func (f *formatter) open(head string) {
	f.line(head + "{")
}

func (f *formatter) body(block *BlockStmt) {
	f.depth++
	for _, stmt := range block.Statements {
		f.statement(stmt)
	}
	f.depth--
}

func formatExpr(expr Expression, parentPrec int, rightOperand bool) string {
	switch e := expr.(type) {
	case *NumberLiteral:
		return strconv.FormatFloat(e.Value, 'f', -1, 64)
	case *StringLiteral:
		return `"` + e.Value + `"`
	case *BoolLiteral:
		if e.Value {
			return kwTrue
		}
		return kwFalse
	case *NullLiteral:
		return kwNull
	case *Identifier:
		return e.Name
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = formatExpr(arg, precLowest, false)
		}
		return e.Callee + "(" + strings.Join(args, ", ") + ")"
	case *BinaryExpr:
		prec := binaryPrecedence(e.Operator)
		text := formatExpr(e.Left, prec, false) + " " + e.Operator + " " + formatExpr(e.Right, prec, true)
		if prec < parentPrec || (prec == parentPrec && rightOperand) {
			return "(" + text + ")"
		}
		return text
	}
	return ""
}
