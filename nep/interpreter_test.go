package nep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func TestRunReturnsOutputsAndRunID(t *testing.T) {
	result, err := NewEngine(Config{}).Run(context.Background(), "rakh x = 2; nikaal x * 21;")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Fatalf("invalid run id %q: %v", result.RunID, err)
	}
	if diff := cmp.Diff([]string{"42"}, result.Outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
	if result.Value.Kind() != KindNumber || result.Value.Number() != 42 {
		t.Fatalf("unexpected final value %v", result.Value)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	source := `rakh a = 1;
rakh b = 1;
rakh i = 0;
jaba samma (i < 10) {
    nikaal a;
    rakh next = a + b;
    a = b;
    b = next;
    i++;
}`
	engine := NewEngine(Config{})
	first, err := engine.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if diff := cmp.Diff(first.Outputs, second.Outputs); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
	if first.RunID == second.RunID {
		t.Fatalf("expected distinct run ids")
	}
	want := []string{"1", "1", "2", "3", "5", "8", "13", "21", "34", "55"}
	if diff := cmp.Diff(want, first.Outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrorOrigin(t *testing.T) {
	engine := NewEngine(Config{})

	_, err := engine.Run(context.Background(), "nikaal y;")
	var compileErr *CompileError
	if !errors.As(err, &compileErr) || compileErr.Origin != OriginCompile {
		t.Fatalf("expected compile-origin error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "compiler error: parsing failed") {
		t.Fatalf("unexpected message: %v", err)
	}

	_, err = engine.Run(context.Background(), "rakh x = @;")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexError inside compile error, got %v", err)
	}

	_, err = engine.Run(context.Background(), "nikaal 1 / 0;")
	if !errors.As(err, &compileErr) || compileErr.Origin != OriginUnexpected {
		t.Fatalf("expected unexpected-origin error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "unexpected error: DivisionByZero") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestCompileThenExecuteTwice(t *testing.T) {
	engine := NewEngine(Config{})
	program, err := engine.Compile("rakh n = 1; n++; nikaal n;")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for i := range 2 {
		result, err := engine.Execute(context.Background(), program)
		if err != nil {
			t.Fatalf("execute %d: %v", i, err)
		}
		if diff := cmp.Diff([]string{"2"}, result.Outputs); diff != "" {
			t.Errorf("execute %d outputs mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEngineConcurrentRuns(t *testing.T) {
	engine := NewEngine(Config{})
	results := make([][]string, 8)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			source := fmt.Sprintf("rakh i = 0; jaba samma (i < %d) { i++; } nikaal i;", i*10)
			result, err := engine.Run(context.Background(), source)
			if err != nil {
				return err
			}
			results[i] = result.Outputs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent run failed: %v", err)
	}
	for i, outputs := range results {
		if diff := cmp.Diff([]string{fmt.Sprint(i * 10)}, outputs); diff != "" {
			t.Errorf("run %d outputs mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEngineLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	result, err := NewEngine(Config{Logger: logger}).Run(context.Background(), "nikaal 1;")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	logs := buf.String()
	if !strings.Contains(logs, "execution finished") || !strings.Contains(logs, "run_id="+result.RunID) {
		t.Fatalf("unexpected logs:\n%s", logs)
	}
}
