// Package correlation scores key-byte hypotheses against simulated traces
// with the absolute Pearson correlation of predicted and observed leakage.
package correlation

import "math"

// Pearson returns the Pearson correlation of the first n = min(len(x),
// len(y)) samples of x and y:
//
//	r = (Σxy - n·x̄·ȳ) / (sqrt(Σx² - n·x̄²) · sqrt(Σy² - n·ȳ²))
//
// accumulated in a single pass. Zero variance or empty input gives NaN.
func Pearson(x, y []float64) float64 {
	if len(y) < len(x) {
		x = x[:len(y)]
	}
	y = y[:len(x)]
	var sx, sx2, sy, sy2, sxy float64
	for i := range x {
		sx += x[i]
		sx2 += x[i] * x[i]
		sy += y[i]
		sy2 += y[i] * y[i]
		sxy += x[i] * y[i]
	}
	n := float64(len(x))
	xMean := sx / n
	yMean := sy / n
	num := sxy - n*xMean*yMean
	den := math.Sqrt(sx2-n*xMean*xMean) * math.Sqrt(sy2-n*yMean*yMean)
	return num / den
}
