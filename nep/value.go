package nep

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBoolean
	KindFunction
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindFunction:
		return "Function"
	default:
		return "Null"
	}
}

type Value struct {
	kind ValueKind
	data any
}

// Function is a declared function together with the environment it closes over.
type Function struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Env    *Env
}

func NewNull() Value                 { return Value{kind: KindNull} }
func NewNumber(n float64) Value      { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value       { return Value{kind: KindString, data: s} }
func NewBoolean(b bool) Value        { return Value{kind: KindBoolean, data: b} }
func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Number() float64 {
	if n, ok := v.data.(float64); ok {
		return n
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.data.(string); ok {
		return s
	}
	return ""
}

func (v Value) Bool() bool {
	if b, ok := v.data.(bool); ok {
		return b
	}
	return false
}

func (v Value) Function() *Function {
	if fn, ok := v.data.(*Function); ok {
		return fn
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.Str()
	case KindBoolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindFunction:
		return "<kaam " + v.Function().Name + ">"
	default:
		return "null"
	}
}

// formatNumber renders n the way scripts expect to see it printed: whole
// numbers without a fraction, everything else in its shortest exact form.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'g', -1, 64)
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
