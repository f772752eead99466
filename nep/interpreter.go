package nep

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Config controls interpreter execution bounds.
type Config struct {
	StepQuota      int
	RecursionLimit int
	Logger         *slog.Logger
}

// Engine compiles and runs programs. It keeps no per-run state, so a single
// Engine may serve concurrent runs.
type Engine struct {
	config Config
	logger *slog.Logger
}

// Result is the outcome of one run. Outputs lists every printed value in
// order; on a runtime failure it holds what was printed before the failure.
type Result struct {
	RunID   string
	Value   Value
	Outputs []string
}

// NewEngine constructs an Engine, filling unset limits with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 1_000_000
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return &Engine{config: cfg, logger: cfg.Logger}
}

// Compile parses source with a fresh symbol table.
func (e *Engine) Compile(source string) (*Program, error) {
	program, err := Parse(source)
	if err != nil {
		e.logger.Debug("compile failed", "error", err)
		return nil, &CompileError{Origin: OriginCompile, Err: err}
	}
	e.logger.Debug("compiled program", "statements", len(program.Statements))
	return program, nil
}

// Execute evaluates program in a fresh root environment.
func (e *Engine) Execute(ctx context.Context, program *Program) (*Result, error) {
	exec := newExecution(ctx, e.config, program.source, nil)
	return e.evaluate(exec, program, exec.root.Outputs)
}

// Run compiles and executes source.
func (e *Engine) Run(ctx context.Context, source string) (*Result, error) {
	program, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, program)
}

func (e *Engine) evaluate(exec *Execution, program *Program, outputs func() []string) (*Result, error) {
	result := &Result{RunID: uuid.NewString(), Value: NewNull()}
	logger := e.logger.With("run_id", result.RunID)
	start := time.Now()

	val, err := exec.runProgram(program)
	result.Outputs = outputs()
	if err != nil {
		logger.DebugContext(exec.ctx, "execution failed", "error", err, "steps", exec.steps)
		return result, &CompileError{Origin: OriginUnexpected, Err: err}
	}
	result.Value = val
	logger.DebugContext(exec.ctx, "execution finished",
		"steps", exec.steps,
		"outputs", len(result.Outputs),
		"elapsed", time.Since(start),
	)
	return result, nil
}
