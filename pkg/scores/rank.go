package scores

import "math"

// Order tells which end of the score range marks the strongest hypothesis.
type Order int

const (
	// HigherIsBetter fits raw correlation scores.
	HigherIsBetter Order = iota
	// LowerIsBetter fits scores after Log2 and Abs.
	LowerIsBetter
)

func (o Order) String() string {
	if o == LowerIsBetter {
		return "lower-is-better"
	}
	return "higher-is-better"
}

// better reports whether a beats b. NaN never beats anything and is beaten
// by every number.
func (o Order) better(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	if o == LowerIsBetter {
		return a < b
	}
	return a > b
}

// Rank returns the 1-based rank of hypothesis at position: one plus the
// number of hypotheses that strictly beat it. A NaN score ranks last.
func (t *Table) Rank(position, hypothesis int, order Order) int {
	s := t.At(position, hypothesis)
	if math.IsNaN(s) {
		return t.dims.HypothesesPerByte
	}
	rank := 1
	for h := 0; h < t.dims.HypothesesPerByte; h++ {
		if h != hypothesis && order.better(t.At(position, h), s) {
			rank++
		}
	}
	return rank
}

// Best returns the strongest hypothesis at position; ties keep the lowest
// value.
func (t *Table) Best(position int, order Order) int {
	best := 0
	for h := 1; h < t.dims.HypothesesPerByte; h++ {
		if order.better(t.At(position, h), t.At(position, best)) {
			best = h
		}
	}
	return best
}
