package cpa

import (
	"fmt"

	"github.com/mahdiidarabi/simcpa/pkg/key"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// Result contains the outcome of one simulated attack.
type Result struct {
	Key    key.Key       // Secret key the traces were simulated with
	Scores *scores.Table // |r| or least-squares cost per (position, hypothesis)
	Config Config        // Parameters of the run
}

// Order returns the ranking direction of the scores as the attack produced
// them.
func (r *Result) Order() scores.Order {
	return r.Config.Distinguisher.Order()
}

// KeyByteRanks returns, for every position, the 1-based rank of the true key
// byte within t.
func KeyByteRanks(t *scores.Table, k key.Key, order scores.Order) []int {
	ranks := make([]int, k.Len())
	for p := range ranks {
		ranks[p] = t.Rank(p, int(k.Byte(p)), order)
	}
	return ranks
}

// BestGuess returns the strongest hypothesis of every position as a key.
func BestGuess(t *scores.Table, order scores.Order) (key.Key, error) {
	b := make([]byte, t.Dims().ByteCount)
	for p := range b {
		b[p] = byte(t.Best(p, order))
	}
	k, err := key.New(b)
	if err != nil {
		return key.Key{}, fmt.Errorf("failed to build best guess: %w", err)
	}
	return k, nil
}
