package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	if LookupCost("gpt-4o-mini") == nil {
		t.Fatal("expected price for gpt-4o-mini")
	}
	if LookupCost("openai/gpt-4o-mini") == nil {
		t.Fatal("expected vendor-prefixed id to resolve")
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("claude-haiku-4-5-20251001", 1_000_000, 200_000)
	if !ok {
		t.Fatal("expected priced model")
	}
	if math.Abs(cost-2.0) > 1e-9 {
		t.Fatalf("cost = %v, want 2.0", cost)
	}
	if _, ok := EstimateCost("mystery", 1, 1); ok {
		t.Fatal("expected unpriced model")
	}
}
