package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nepscript/nep/nep"
)

type warningLine struct {
	Line     int
	Function string
	Message  string
}

func analyzeSource(t *testing.T, source string) []warningLine {
	t.Helper()
	program, err := nep.Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var got []warningLine
	for _, w := range analyzeProgram(program) {
		got = append(got, warningLine{Line: w.Pos.Line, Function: w.Function, Message: w.Message})
	}
	return got
}

func TestAnalyzeLoopControl(t *testing.T) {
	got := analyzeSource(t, `rakh i = 0;
jaba samma (i < 3) {
    i++;
    yedi (i == 2) {
        jaari rakh;
        nikaal "skipped";
    }
    bhayo;
    nikaal i;
}`)
	want := []warningLine{
		{Line: 6, Function: "<script>", Message: "unreachable statement"},
		{Line: 9, Function: "<script>", Message: "unreachable statement"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeIfChainTerminatesOnlyWhenEveryBranchDoes(t *testing.T) {
	got := analyzeSource(t, `kaam ra firta sign(n) {
    yedi (n > 0) {
        firta 1;
    } navaye (n < 0) {
        firta 0 - 1;
    } haina bhane {
        firta 0;
    }
    nikaal "never";
}
kaam ra firta partial(n) {
    yedi (n > 0) {
        firta 1;
    }
    firta 0;
}
nikaal sign(2);
nikaal partial(2);`)
	want := []warningLine{
		{Line: 9, Function: "sign", Message: "unreachable statement"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeUnusedDeclarations(t *testing.T) {
	got := analyzeSource(t, `rakh used = 1;
rakh unused = 2;
kaam helper() {
    nikaal used;
}
kaam caller() {
    helper();
}`)
	want := []warningLine{
		{Line: 2, Function: "<script>", Message: "variable unused is never read"},
		{Line: 6, Function: "<script>", Message: "function caller is never called"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}
