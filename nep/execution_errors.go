package nep

import (
	"fmt"
	"strings"
)

type RuntimeErrorKind string

const (
	ErrDivisionByZero      RuntimeErrorKind = "DivisionByZero"
	ErrUndefinedVariable   RuntimeErrorKind = "UndefinedVariable"
	ErrNotAFunction        RuntimeErrorKind = "NotAFunction"
	ErrUnsupportedOperator RuntimeErrorKind = "UnsupportedOperator"
	ErrTypeError           RuntimeErrorKind = "TypeError"
	ErrArityMismatch       RuntimeErrorKind = "ArityMismatch"
	ErrControlEscape       RuntimeErrorKind = "ControlEscape"
	ErrStepQuotaExceeded   RuntimeErrorKind = "StepQuotaExceeded"
	ErrRecursionLimit      RuntimeErrorKind = "RecursionLimit"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts evaluation. Frames lists the innermost frame first.
type RuntimeError struct {
	Kind      RuntimeErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", re.Kind, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

func (exec *Execution) errorAt(kind RuntimeErrorKind, pos Position, format string, args ...any) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, exec.callStack[i])
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}

	return &RuntimeError{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Pos:       pos,
		CodeFrame: formatCodeFrame(exec.source, pos),
		Frames:    frames,
	}
}

func (exec *Execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.errorAt(ErrStepQuotaExceeded, pos, "step quota exceeded (%d)", exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) pushFrame(name string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(ErrRecursionLimit, pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, StackFrame{Function: name, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}
