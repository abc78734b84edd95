package cpa

import (
	"context"
	"math"
	"testing"

	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// attack runs one simulated attack and fails the test on error.
func attack(t *testing.T, config Config) *Result {
	t.Helper()
	result, err := NewClient().WithConfig(config).Attack(context.Background())
	if err != nil {
		t.Fatalf("Attack failed: %v", err)
	}
	return result
}

// sameBits reports whether two tables hold bit-identical scores.
func sameBits(a, b *scores.Table) bool {
	x, y := a.All(), b.All()
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.Float64bits(x[i]) != math.Float64bits(y[i]) {
			return false
		}
	}
	return true
}
