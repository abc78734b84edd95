// Package scores provides the dense (position, hypothesis) score table that
// an attack produces and downstream rank estimation consumes.
package scores

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// HypothesesPerByte is the number of candidate values for one key byte.
const HypothesesPerByte = 256

var (
	// ErrDimensions is returned for an invalid table shape.
	ErrDimensions = errors.New("scores: invalid dimensions")
	// ErrPosition is returned when a position is outside the table.
	ErrPosition = errors.New("scores: position out of range")
	// ErrLength is returned when a score vector has the wrong length.
	ErrLength = errors.New("scores: wrong number of scores")
)

// Dimensions describes the table shape.
type Dimensions struct {
	ByteCount         int
	HypothesesPerByte int
}

// NewDimensions returns the shape (byteCount, 256).
func NewDimensions(byteCount int) (Dimensions, error) {
	if byteCount <= 0 {
		return Dimensions{}, fmt.Errorf("%w: byte count %d", ErrDimensions, byteCount)
	}
	return Dimensions{ByteCount: byteCount, HypothesesPerByte: HypothesesPerByte}, nil
}

// Len is the total number of scores.
func (d Dimensions) Len() int { return d.ByteCount * d.HypothesesPerByte }

func (d Dimensions) valid() bool {
	return d.ByteCount > 0 && d.HypothesesPerByte > 0
}

// Table holds one float64 per (position, hypothesis), rows are positions.
type Table struct {
	dims Dimensions
	m    *mat.Dense
}

// NewTable allocates a zeroed table.
func NewTable(dims Dimensions) (*Table, error) {
	if !dims.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrDimensions, dims)
	}
	return &Table{dims: dims, m: mat.NewDense(dims.ByteCount, dims.HypothesesPerByte, nil)}, nil
}

// FromScores builds a table from a flat position-major slice. The slice is
// copied.
func FromScores(dims Dimensions, all []float64) (*Table, error) {
	if !dims.valid() {
		return nil, fmt.Errorf("%w: %+v", ErrDimensions, dims)
	}
	if len(all) != dims.Len() {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLength, dims.Len(), len(all))
	}
	data := append([]float64(nil), all...)
	return &Table{dims: dims, m: mat.NewDense(dims.ByteCount, dims.HypothesesPerByte, data)}, nil
}

// Dims returns the table shape.
func (t *Table) Dims() Dimensions { return t.dims }

// AddScores stores the scores of every hypothesis at position, in hypothesis
// order.
func (t *Table) AddScores(position int, scores []float64) error {
	if position < 0 || position >= t.dims.ByteCount {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrPosition, position, t.dims.ByteCount)
	}
	if len(scores) != t.dims.HypothesesPerByte {
		return fmt.Errorf("%w: expected %d, got %d", ErrLength, t.dims.HypothesesPerByte, len(scores))
	}
	t.m.SetRow(position, scores)
	return nil
}

// At returns the score of hypothesis at position.
func (t *Table) At(position, hypothesis int) float64 {
	return t.m.At(position, hypothesis)
}

// Row returns a copy of the scores at position.
func (t *Table) Row(position int) []float64 {
	return mat.Row(nil, position, t.m)
}

// All returns a copy of every score, position-major, hypothesis-minor.
func (t *Table) All() []float64 {
	raw := t.m.RawMatrix()
	out := make([]float64, 0, t.dims.Len())
	for r := 0; r < raw.Rows; r++ {
		out = append(out, raw.Data[r*raw.Stride:r*raw.Stride+raw.Cols]...)
	}
	return out
}

// Log2 replaces every score with its base-2 logarithm.
func (t *Table) Log2() {
	t.m.Apply(func(_, _ int, v float64) float64 { return math.Log2(v) }, t.m)
}

// Abs replaces every score with its absolute value.
func (t *Table) Abs() {
	t.m.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, t.m)
}
