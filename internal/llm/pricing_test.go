package llm

import (
	"math"
	"testing"
)

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}

	tests := []struct {
		name     string
		in, out  int
		expected float64
	}{
		{"one million each", 1_000_000, 1_000_000, 18},
		{"input only", 500_000, 0, 1.5},
		{"output only", 0, 100_000, 1.5},
		{"zero tokens", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Cost(tt.in, tt.out)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cost(%d, %d) = %v, want %v", tt.in, tt.out, got, tt.expected)
			}
		})
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-sonnet-4-5")
	if c == nil {
		t.Fatal("expected pricing for claude-sonnet-4-5")
	}
	if c.InputPerMTok != 3 || c.OutputPerMTok != 15 {
		t.Errorf("unexpected pricing: %+v", c)
	}

	if got := LookupCost("not-a-model"); got != nil {
		t.Errorf("expected nil for unknown model, got %+v", got)
	}
}
