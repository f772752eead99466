package nep

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func parseDiagnostics(t *testing.T, source string) []Diagnostic {
	t.Helper()
	_, err := Parse(source)
	var parseErrs *ParseErrors
	if !errors.As(err, &parseErrs) {
		t.Fatalf("expected ParseErrors, got %v", err)
	}
	return parseErrs.Diagnostics
}

func requireDiagnostic(t *testing.T, source, fragment string) {
	t.Helper()
	for _, d := range parseDiagnostics(t, source) {
		if strings.Contains(d.Msg, fragment) {
			return
		}
	}
	t.Fatalf("expected diagnostic containing %q for %q", fragment, source)
}

func requireSyntaxError(t *testing.T, source, fragment string) {
	t.Helper()
	_, err := Parse(source)
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if !strings.Contains(syntaxErr.Msg, fragment) {
		t.Fatalf("expected %q in %q", fragment, syntaxErr.Msg)
	}
}

func declInit(t *testing.T, program *Program, index int) Expression {
	t.Helper()
	decl, ok := program.Statements[index].(*VarDeclStmt)
	if !ok {
		t.Fatalf("statement %d is %T, want *VarDeclStmt", index, program.Statements[index])
	}
	return decl.Init
}

func TestParsePrecedence(t *testing.T) {
	program := mustParse(t, "rakh x = 1 + 2 * 3;")
	sum, ok := declInit(t, program, 0).(*BinaryExpr)
	if !ok || sum.Operator != "+" {
		t.Fatalf("expected + at the root, got %#v", declInit(t, program, 0))
	}
	product, ok := sum.Right.(*BinaryExpr)
	if !ok || product.Operator != "*" {
		t.Fatalf("expected * on the right, got %#v", sum.Right)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	program := mustParse(t, "rakh x = 10 - 4 - 3;")
	outer := declInit(t, program, 0).(*BinaryExpr)
	inner, ok := outer.Left.(*BinaryExpr)
	if !ok || inner.Operator != "-" {
		t.Fatalf("expected (10 - 4) - 3, got %#v", outer)
	}
	if lit, ok := outer.Right.(*NumberLiteral); !ok || lit.Value != 3 {
		t.Fatalf("unexpected right operand %#v", outer.Right)
	}
}

func TestParseParenthesesRebind(t *testing.T) {
	program := mustParse(t, "rakh x = (1 + 2) * 3;")
	product := declInit(t, program, 0).(*BinaryExpr)
	if product.Operator != "*" {
		t.Fatalf("expected * at the root, got %s", product.Operator)
	}
	if sum, ok := product.Left.(*BinaryExpr); !ok || sum.Operator != "+" {
		t.Fatalf("expected grouped sum on the left, got %#v", product.Left)
	}
}

func TestParseComparisonBindsLooserThanArithmetic(t *testing.T) {
	program := mustParse(t, "rakh x = 1; rakh b = x + 1 == 3 * 2;")
	eq := declInit(t, program, 1).(*BinaryExpr)
	if eq.Operator != "==" {
		t.Fatalf("expected == at the root, got %s", eq.Operator)
	}
	if left := eq.Left.(*BinaryExpr); left.Operator != "+" {
		t.Fatalf("expected + under ==, got %s", left.Operator)
	}
	if right := eq.Right.(*BinaryExpr); right.Operator != "*" {
		t.Fatalf("expected * under ==, got %s", right.Operator)
	}
}

func TestParseElseIfChain(t *testing.T) {
	program := mustParse(t, `rakh x = 2;
yedi (x == 1) {
    nikaal "a";
} navaye (x == 2) {
    nikaal "b";
} haina bhane {
    nikaal "c";
}`)
	root, ok := program.Statements[1].(*IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", program.Statements[1])
	}
	elseIf, ok := root.Alternate.(*IfStmt)
	if !ok {
		t.Fatalf("expected navaye branch, got %T", root.Alternate)
	}
	if _, ok := elseIf.Alternate.(*BlockStmt); !ok {
		t.Fatalf("expected final else block, got %T", elseIf.Alternate)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	program := mustParse(t, "yedi (sahi) { nikaal 1; }")
	if alt := program.Statements[0].(*IfStmt).Alternate; alt != nil {
		t.Fatalf("expected no alternate, got %T", alt)
	}
}

func TestParseCollectsSemanticErrors(t *testing.T) {
	diags := parseDiagnostics(t, "nikaal a; nikaal b;")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Msg, "undeclared variable a") || !strings.Contains(diags[1].Msg, "undeclared variable b") {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestParseRedeclaration(t *testing.T) {
	requireDiagnostic(t, "rakh x = 1; rakh x = 2;", "already declared")
}

func TestParseShadowingInNestedBlockIsAllowed(t *testing.T) {
	mustParse(t, "rakh x = 1; yedi (sahi) { rakh x = 2; nikaal x; }")
}

func TestParseAssignmentToUndeclared(t *testing.T) {
	requireDiagnostic(t, "y = 3;", "undeclared variable y")
	requireDiagnostic(t, "y++;", "undeclared variable y")
}

func TestParseBlockScopedDeclaration(t *testing.T) {
	requireDiagnostic(t, "yedi (sahi) { rakh y = 1; } nikaal y;", "undeclared variable y")
}

func TestParseMissingSemicolon(t *testing.T) {
	requireSyntaxError(t, "rakh x = 5", "';'")
	requireSyntaxError(t, "rakh x = 5 nikaal x;", "';'")
}

func TestParseStructuralErrors(t *testing.T) {
	requireSyntaxError(t, "yedi sahi { }", "'('")
	requireSyntaxError(t, "jaba samma (sahi) nikaal 1;", "'{'")
	requireSyntaxError(t, "yedi (sahi) { nikaal 1;", "closing '}'")
	requireSyntaxError(t, "haina bhane { }", "without a preceding 'yedi'")
	requireSyntaxError(t, "rakh x = ;", "expression")
	requireSyntaxError(t, "rakh x = 1; x 2;", "'=' or '++'")
}

func TestParseFunctionReturnRules(t *testing.T) {
	requireDiagnostic(t, "kaam f() { firta 1; }", "cannot use 'firta'")
	requireDiagnostic(t, "kaam ra firta g() { nikaal 1; }", "never uses 'firta'")

	mustParse(t, "kaam ra firta h(a) { yedi (a == 1) { firta 1; } firta 2; }")
	mustParse(t, "kaam ra firta outer() { kaam inner() { nikaal 1; } firta 1; }")
	mustParse(t, "kaam outer() { kaam ra firta inner() { firta 1; } nikaal inner(); }")
}

func TestParseReturnInsideLoopCounts(t *testing.T) {
	mustParse(t, "kaam ra firta f(n) { jaba samma (sahi) { firta n; } }")
}

func TestParseParametersAreUntyped(t *testing.T) {
	program := mustParse(t, "kaam f(a, b) { nikaal a + 1; nikaal a - b; nikaal a * 2; }")
	fn := program.Statements[0].(*FunctionStmt)
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" || fn.Returns {
		t.Fatalf("unexpected function header: %#v", fn)
	}
}

func TestParseDuplicateParameter(t *testing.T) {
	requireDiagnostic(t, "kaam f(a, a) { nikaal 1; }", "duplicate parameter a")
}

func TestParsePrintTypeChecks(t *testing.T) {
	requireDiagnostic(t, "nikaal 1 < 2;", "cannot print")
	requireDiagnostic(t, `nikaal "a" - 1;`, "type mismatch")
	requireDiagnostic(t, `rakh s = "a"; nikaal s * 2;`, "type mismatch")
	requireDiagnostic(t, "rakh b = sahi; nikaal b + 1;", "type mismatch")

	mustParse(t, `nikaal "n=" + 5;`)
	mustParse(t, `rakh n = 4; nikaal n + " items";`)
	mustParse(t, "rakh ok = 1 < 2; yedi (ok) { nikaal ok; }")
}

func TestParseLeavesConditionAndIncrementTypesToRuntime(t *testing.T) {
	mustParse(t, "yedi (1) { nikaal 1; }")
	mustParse(t, `jaba samma ("x") { bhayo; }`)
	mustParse(t, `rakh s = "a"; s++;`)
}

func TestParseSameTypeOperandsAreNotMismatches(t *testing.T) {
	mustParse(t, `nikaal "a" - "b";`)
	mustParse(t, `rakh ok = "a" < "b";`)
	mustParse(t, "rakh same = sahi == galat;")
	mustParse(t, "rakh b = sahi; rakh c = b * b;")
}

func TestParseControlOutsideConstruct(t *testing.T) {
	requireDiagnostic(t, "bhayo;", "outside of a loop")
	requireDiagnostic(t, "jaari rakh;", "outside of a loop")
	requireDiagnostic(t, "firta 1;", "outside of a function")
	requireDiagnostic(t, "jaba samma (sahi) { kaam f() { bhayo; } bhayo; }", "outside of a loop")
}

func TestParseUnexpectedTokenIsReported(t *testing.T) {
	requireDiagnostic(t, "rakh x = 1; 5; nikaal x;", "unexpected number 5")
}

func TestParseUndeclaredCalleeIsNotAParseError(t *testing.T) {
	program := mustParse(t, "missing(1, 2);")
	call, ok := program.Statements[0].(*CallStmt)
	if !ok || call.Call.Callee != "missing" || len(call.Call.Args) != 2 {
		t.Fatalf("unexpected call statement: %#v", program.Statements[0])
	}
}

func TestParseProgramFromTokens(t *testing.T) {
	tokens, err := Tokenize("rakh x = 1; nikaal x;")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	program, err := ParseProgram(tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}

func TestParseErrorsIncludeCodeFrame(t *testing.T) {
	_, err := Parse("rakh x = 1;\nnikaal y;")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "semantic error at 2:8: undeclared variable y") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, " 2 | nikaal y;") {
		t.Fatalf("expected code frame in %s", msg)
	}
}
