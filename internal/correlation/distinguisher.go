package correlation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// ErrDistinguisher is returned for an unknown distinguisher.
var ErrDistinguisher = errors.New("correlation: unknown distinguisher")

// Distinguisher selects how a hypothesis is scored against the traces.
type Distinguisher int

const (
	// Correlation scores each hypothesis with |Pearson r|; higher is better.
	Correlation Distinguisher = iota
	// LeastSquares scores each hypothesis with a normalised sum of squared
	// differences between traces and predicted leakage; lower is better.
	LeastSquares
)

func (d Distinguisher) String() string {
	switch d {
	case Correlation:
		return "cpa"
	case LeastSquares:
		return "lsq"
	default:
		return fmt.Sprintf("Distinguisher(%d)", int(d))
	}
}

// Order returns the ranking direction of the scores d produces.
func (d Distinguisher) Order() scores.Order {
	if d == LeastSquares {
		return scores.LowerIsBetter
	}
	return scores.HigherIsBetter
}

// Validate reports whether d is a known distinguisher.
func (d Distinguisher) Validate() error {
	if d != Correlation && d != LeastSquares {
		return fmt.Errorf("%w: %d", ErrDistinguisher, int(d))
	}
	return nil
}

// ParseDistinguisher maps a command-line name to a Distinguisher.
func ParseDistinguisher(s string) (Distinguisher, error) {
	switch strings.ToLower(s) {
	case "cpa", "correlation":
		return Correlation, nil
	case "lsq", "least-squares":
		return LeastSquares, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrDistinguisher, s)
	}
}
