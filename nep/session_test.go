package nep

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func evalChunk(t *testing.T, s *Session, source string) []string {
	t.Helper()
	result, err := s.Eval(context.Background(), source)
	if err != nil {
		t.Fatalf("eval %q: %v", source, err)
	}
	return result.Outputs
}

func TestSessionKeepsStateBetweenChunks(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	if got := evalChunk(t, s, "rakh x = 1; nikaal x;"); !cmp.Equal(got, []string{"1"}) {
		t.Fatalf("unexpected first outputs %v", got)
	}
	if got := evalChunk(t, s, "x++; nikaal x + 1;"); !cmp.Equal(got, []string{"3"}) {
		t.Fatalf("unexpected second outputs %v", got)
	}
	evalChunk(t, s, "kaam ra firta sq(n) { firta n * n; }")
	if got := evalChunk(t, s, "nikaal sq(x);"); !cmp.Equal(got, []string{"4"}) {
		t.Fatalf("unexpected call outputs %v", got)
	}
}

func TestSessionResetClearsDeclarations(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	evalChunk(t, s, "rakh x = 1;")
	s.Reset()

	_, err := s.Eval(context.Background(), "nikaal x;")
	var compileErr *CompileError
	if !errors.As(err, &compileErr) || compileErr.Origin != OriginCompile {
		t.Fatalf("expected compile error after reset, got %v", err)
	}
	if len(s.Bindings()) != 0 {
		t.Fatalf("expected no bindings after reset, got %v", s.Bindings())
	}
	evalChunk(t, s, "rakh x = 2;")
}

func TestSessionDiscardsDeclarationsOfFailedParse(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	if _, err := s.Eval(context.Background(), "rakh y = 1; nikaal z;"); err == nil {
		t.Fatalf("expected parse failure")
	}
	evalChunk(t, s, "rakh y = 2;")
}

func TestSessionDiscardsDeclarationsOfFailedRun(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	evalChunk(t, s, "rakh n = 1;")
	result, err := s.Eval(context.Background(), "n++; rakh x = 1; nikaal x; nikaal 1 / 0;")
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Kind != ErrDivisionByZero {
		t.Fatalf("expected %s, got %v", ErrDivisionByZero, err)
	}
	if !cmp.Equal(result.Outputs, []string{"1"}) {
		t.Fatalf("unexpected outputs %v", result.Outputs)
	}

	_, err = s.Eval(context.Background(), "nikaal x;")
	var compileErr *CompileError
	if !errors.As(err, &compileErr) || compileErr.Origin != OriginCompile {
		t.Fatalf("expected compile error for discarded declaration, got %v", err)
	}
	if _, ok := s.Bindings()["x"]; ok {
		t.Fatalf("binding x survived a failed run")
	}
	if got := evalChunk(t, s, "rakh x = 5; nikaal x + n;"); !cmp.Equal(got, []string{"7"}) {
		t.Fatalf("unexpected outputs %v", got)
	}
}

func TestSessionRedeclarationAcrossChunks(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	evalChunk(t, s, "rakh x = 1;")
	if _, err := s.Eval(context.Background(), "rakh x = 2;"); err == nil {
		t.Fatalf("expected redeclaration error")
	}
}

func TestSessionBindings(t *testing.T) {
	s := NewEngine(Config{}).NewSession()
	evalChunk(t, s, `rakh name = "sita"; rakh n = 3;`)
	bindings := s.Bindings()
	if bindings["name"].String() != "sita" || bindings["n"].Number() != 3 {
		t.Fatalf("unexpected bindings %v", bindings)
	}
}
