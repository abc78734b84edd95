package correlation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mahdiidarabi/simcpa/internal/leakage"
)

// lsqOffset keeps the best least-squares hypothesis strictly above zero
// before the cost flip.
const lsqOffset = 1e-4

// LeastSquaresPosition returns, for each hypothesis c, the sum of squared
// differences d between the traces and HW(SBox(pt ^ c)), normalised within
// the position to 1 - d/max(d) + 1e-4. The true key byte has the largest
// value. Only the first min(len(pts), len(traces)) samples are used.
func LeastSquaresPosition(pts []byte, traces []float64) Row {
	n := len(pts)
	if len(traces) < n {
		n = len(traces)
	}

	var row Row
	for c := range row {
		var sum float64
		for i := 0; i < n; i++ {
			d := traces[i] - leakage.Predict(pts[i], byte(c))
			sum += d * d
		}
		row[c] = sum
	}

	top := floats.Max(row[:])
	for c := range row {
		row[c] = 1 - row[c]/top + lsqOffset
	}
	return row
}

// FlipToCost turns normalised least-squares rows into costs, max - |v|,
// where max is taken over every non-NaN entry of every row. The true key byte
// then has the smallest cost. NaN entries stay NaN.
func FlipToCost(rows []Row) {
	top := math.Inf(-1)
	for p := range rows {
		if m := floats.Max(rows[p][:]); m > top {
			top = m
		}
	}
	for p := range rows {
		for c := range rows[p] {
			rows[p][c] = top - math.Abs(rows[p][c])
		}
	}
}
