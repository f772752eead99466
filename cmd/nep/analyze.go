package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
)

const topLevel = "<script>"

type lintWarning struct {
	Function string
	Pos      nep.Position
	Message  string
}

func newAnalyzeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Report unreachable code and unused declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve script path: %w", err)
			}
			input, err := os.ReadFile(scriptPath)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			program, err := state.newEngine().Compile(string(input))
			if err != nil {
				return fmt.Errorf("analysis compile failed: %w", err)
			}

			out := cmd.OutOrStdout()
			warnings := analyzeProgram(program)
			if len(warnings) == 0 {
				fmt.Fprintln(out, "No issues found")
				return nil
			}
			for _, warning := range warnings {
				fmt.Fprintf(out, "%s:%d:%d: %s (%s)\n", scriptPath, warning.Pos.Line, warning.Pos.Column, warning.Message, warning.Function)
			}
			return fmt.Errorf("analysis found %d issue(s)", len(warnings))
		},
	}
}

func analyzeProgram(program *nep.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(topLevel, program.Statements, &warnings)

	usage := &usageCollector{
		reads: make(map[string]bool),
		calls: make(map[string]bool),
	}
	usage.statements(topLevel, program.Statements)
	for _, decl := range usage.vars {
		if !usage.reads[decl.name] {
			warnings = append(warnings, lintWarning{
				Function: decl.function,
				Pos:      decl.pos,
				Message:  fmt.Sprintf("variable %s is never read", decl.name),
			})
		}
	}
	for _, decl := range usage.funcs {
		if !usage.calls[decl.name] {
			warnings = append(warnings, lintWarning{
				Function: decl.function,
				Pos:      decl.pos,
				Message:  fmt.Sprintf("function %s is never called", decl.name),
			})
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

func lintStatements(function string, statements []nep.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt nep.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *nep.ReturnStmt, *nep.BreakStmt, *nep.ContinueStmt:
		return true
	case *nep.IfStmt:
		return ifStatementTerminates(function, typed, warnings)
	case *nep.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *nep.WhileStmt:
		lintStatements(function, typed.Body.Statements, warnings)
		return false
	case *nep.FunctionStmt:
		lintStatements(typed.Name, typed.Body.Statements, warnings)
		return false
	default:
		return false
	}
}

func ifStatementTerminates(function string, stmt *nep.IfStmt, warnings *[]lintWarning) bool {
	consequentTerminated := lintStatements(function, stmt.Consequent.Statements, warnings)
	if stmt.Alternate == nil {
		return false
	}
	alternateTerminated := statementTerminates(function, stmt.Alternate, warnings)
	return consequentTerminated && alternateTerminated
}

type declaration struct {
	name     string
	function string
	pos      nep.Position
}

// usageCollector matches names only, so a read of any variable called x
// counts for every declaration of x.
type usageCollector struct {
	vars  []declaration
	funcs []declaration
	reads map[string]bool
	calls map[string]bool
}

func (u *usageCollector) statements(function string, statements []nep.Statement) {
	for _, stmt := range statements {
		u.statement(function, stmt)
	}
}

func (u *usageCollector) statement(function string, stmt nep.Statement) {
	switch s := stmt.(type) {
	case *nep.VarDeclStmt:
		u.vars = append(u.vars, declaration{name: s.Name, function: function, pos: s.Pos()})
		u.expression(s.Init)
	case *nep.AssignStmt:
		u.expression(s.Value)
	case *nep.PrintStmt:
		u.expression(s.Value)
	case *nep.IfStmt:
		u.expression(s.Test)
		u.statements(function, s.Consequent.Statements)
		if s.Alternate != nil {
			u.statement(function, s.Alternate)
		}
	case *nep.BlockStmt:
		u.statements(function, s.Statements)
	case *nep.WhileStmt:
		u.expression(s.Test)
		u.statements(function, s.Body.Statements)
	case *nep.FunctionStmt:
		u.funcs = append(u.funcs, declaration{name: s.Name, function: function, pos: s.Pos()})
		u.statements(s.Name, s.Body.Statements)
	case *nep.ReturnStmt:
		u.expression(s.Value)
	case *nep.CallStmt:
		u.expression(s.Call)
	}
}

func (u *usageCollector) expression(expr nep.Expression) {
	switch e := expr.(type) {
	case *nep.Identifier:
		u.reads[e.Name] = true
	case *nep.CallExpr:
		u.calls[e.Callee] = true
		for _, arg := range e.Args {
			u.expression(arg)
		}
	case *nep.BinaryExpr:
		u.expression(e.Left)
		u.expression(e.Right)
	}
}
