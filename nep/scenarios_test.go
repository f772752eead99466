package nep

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Outputs []string `yaml:"outputs"`
	Error   string   `yaml:"error"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("read scenarios: %v", err)
	}
	var scenarios []scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		t.Fatalf("decode scenarios: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("no scenarios found")
	}
	return scenarios
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := NewEngine(Config{}).Run(context.Background(), sc.Source)

			switch sc.Error {
			case "":
				if err != nil {
					t.Fatalf("run failed: %v", err)
				}
				if diff := cmp.Diff(sc.Outputs, result.Outputs); diff != "" {
					t.Errorf("outputs mismatch (-want +got):\n%s", diff)
				}
			case "compile":
				var compileErr *CompileError
				if !errors.As(err, &compileErr) || compileErr.Origin != OriginCompile {
					t.Fatalf("expected compile error, got %v", err)
				}
			default:
				var rtErr *RuntimeError
				if !errors.As(err, &rtErr) || string(rtErr.Kind) != sc.Error {
					t.Fatalf("expected %s, got %v", sc.Error, err)
				}
			}
		})
	}
}
