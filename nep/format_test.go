package nep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatCanonicalLayout(t *testing.T) {
	source := `rakh x=2;rakh s;
yedi(x==1){nikaal "a";}navaye (x==2) {nikaal "b";} haina bhane {nikaal "c";}
kaam ra firta add(a,b){firta a+b;}
kaam hello(){}
jaba samma (x<5){x++;yedi (x==4){bhayo;}jaari rakh;}
add(1,2);`
	want := `rakh x = 2;
rakh s;
yedi (x == 1) {
    nikaal "a";
} navaye (x == 2) {
    nikaal "b";
} haina bhane {
    nikaal "c";
}
kaam ra firta add(a, b) {
    firta a + b;
}
kaam hello() {}
jaba samma (x < 5) {
    x++;
    yedi (x == 4) {
        bhayo;
    }
    jaari rakh;
}
add(1, 2);
`
	got := Format(mustParse(t, source))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatParentheses(t *testing.T) {
	cases := map[string]string{
		"rakh a = (1 + 2) * 3;":           "rakh a = (1 + 2) * 3;\n",
		"rakh b = 10 - (4 - 3);":          "rakh b = 10 - (4 - 3);\n",
		"rakh c = (10 - 4) - 3;":          "rakh c = 10 - 4 - 3;\n",
		"rakh d = ((1 * 2)) + 3;":         "rakh d = 1 * 2 + 3;\n",
		"rakh e = (1 + 2) * (3 - 1) % 4;": "rakh e = (1 + 2) * (3 - 1) % 4;\n",
		"rakh f = 2 * (3 % 4);":          "rakh f = 2 * (3 % 4);\n",
	}
	for source, want := range cases {
		got := Format(mustParse(t, source))
		if got != want {
			t.Errorf("Format(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	source := `rakh total = 0;
rakh i = 1;
jaba samma (i <= 10) {
    yedi (i % 3 == 0) { jaari rakh; }
    total = total + i * (i - 1);
    i++;
}
nikaal "total: " + total;`
	once := Format(mustParse(t, source))
	twice := Format(mustParse(t, once))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("format not idempotent (-once +twice):\n%s", diff)
	}
}

func TestDumpProgram(t *testing.T) {
	program := mustParse(t, "rakh x = 1 + 2;\nnikaal x;")
	got := Dump(program)
	want := map[string]any{
		"type": "Program",
		"pos":  "1:1",
		"body": []map[string]any{
			{
				"type": "VarDecl",
				"pos":  "1:1",
				"name": "x",
				"init": map[string]any{
					"type":     "BinaryExpr",
					"pos":      "1:12",
					"operator": "+",
					"left":     map[string]any{"type": "NumberLit", "pos": "1:10", "value": 1.0},
					"right":    map[string]any{"type": "NumberLit", "pos": "1:14", "value": 2.0},
				},
			},
			{
				"type":  "Print",
				"pos":   "2:1",
				"value": map[string]any{"type": "Identifier", "pos": "2:8", "name": "x"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}
