package cpa

import (
	"errors"
	"fmt"

	"github.com/mahdiidarabi/simcpa/internal/correlation"
)

var (
	// ErrByteCount is returned for a non-positive key length.
	ErrByteCount = errors.New("cpa: byte count must be positive")
	// ErrTraceCount is returned for a negative trace count.
	ErrTraceCount = errors.New("cpa: trace count must not be negative")
	// ErrDistinguisher is returned for an unknown scoring method.
	ErrDistinguisher = correlation.ErrDistinguisher
)

// Distinguisher selects the hypothesis scoring method.
type Distinguisher = correlation.Distinguisher

const (
	// CPA scores with |Pearson r| (default).
	CPA = correlation.Correlation
	// LeastSquares scores with the normalised squared-error cost.
	LeastSquares = correlation.LeastSquares
)

// ParseDistinguisher maps "cpa" or "lsq" to a Distinguisher.
func ParseDistinguisher(s string) (Distinguisher, error) {
	return correlation.ParseDistinguisher(s)
}

// Config fixes the parameters of an attack run.
type Config struct {
	// ByteCount is the key length in bytes
	ByteCount int

	// TraceCount is the number of simulated traces per key byte. 0 is allowed
	// and yields NaN scores.
	TraceCount int

	// SNR sets the noise standard deviation to sqrt(2/SNR). Not validated;
	// SNR <= 0 yields NaN or infinite noise.
	SNR float64

	// Seed determines the key and every simulated sample
	Seed uint64

	// Workers controls parallel scoring (0 = auto-detect)
	Workers int

	// Distinguisher scores the hypotheses (zero value = CPA)
	Distinguisher Distinguisher
}

// DefaultConfig returns the defaults of the simulate command.
func DefaultConfig() Config {
	return Config{
		ByteCount:     16,
		TraceCount:    100,
		SNR:           0.125,
		Seed:          0xABCDEF,
		Workers:       0, // Auto-detect
		Distinguisher: CPA,
	}
}

// Validate checks the structural parameters.
func (c Config) Validate() error {
	if c.ByteCount <= 0 {
		return fmt.Errorf("%w: got %d", ErrByteCount, c.ByteCount)
	}
	if c.TraceCount < 0 {
		return fmt.Errorf("%w: got %d", ErrTraceCount, c.TraceCount)
	}
	return c.Distinguisher.Validate()
}
