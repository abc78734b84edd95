// Package leakage synthesizes Hamming-weight power traces of the AES SubBytes
// step for a fixed key.
package leakage

import (
	"math"
	"math/rand"

	"github.com/mahdiidarabi/simcpa/pkg/key"
)

// Batch is one attack's worth of simulated data. Both slices are
// position-major: entry (p, i) lives at p*TraceCount+i.
type Batch struct {
	ByteCount  int
	TraceCount int
	Plaintexts []byte
	Traces     []float64
}

// PlaintextsAt returns the plaintext bytes of every trace at position p.
func (b *Batch) PlaintextsAt(p int) []byte {
	return b.Plaintexts[p*b.TraceCount : (p+1)*b.TraceCount]
}

// TracesAt returns the trace samples of every trace at position p.
func (b *Batch) TracesAt(p int) []float64 {
	return b.Traces[p*b.TraceCount : (p+1)*b.TraceCount]
}

// Simulator produces batches for a fixed key and parameter set.
//
// Draws from rnd happen in this order, which is part of the output contract:
// every plaintext byte as rnd.Intn(256) for (position, trace) with trace
// varying fastest, then one rnd.NormFloat64() per (position, trace) in the
// same order.
type Simulator struct {
	key        key.Key
	traceCount int
	sigma      float64
	rnd        *rand.Rand
}

// NewSimulator returns a simulator with noise standard deviation
// sqrt(2/snr). traceCount 0 and snr <= 0 are accepted and lead to NaN
// scores downstream.
func NewSimulator(k key.Key, traceCount int, snr float64, rnd *rand.Rand) *Simulator {
	return &Simulator{
		key:        k,
		traceCount: traceCount,
		sigma:      NoiseSigma(snr),
		rnd:        rnd,
	}
}

// NoiseSigma is the noise standard deviation for a given SNR. Hamming
// weights of uniform bytes have variance 2.
func NoiseSigma(snr float64) float64 {
	return math.Sqrt(2 / snr)
}

// Key returns the simulated secret key.
func (s *Simulator) Key() key.Key { return s.key }

// TraceCount returns the number of traces per position.
func (s *Simulator) TraceCount() int { return s.traceCount }

// Next generates fresh plaintexts and traces.
func (s *Simulator) Next() *Batch {
	n := s.key.Len() * s.traceCount
	b := &Batch{
		ByteCount:  s.key.Len(),
		TraceCount: s.traceCount,
		Plaintexts: make([]byte, n),
		Traces:     make([]float64, n),
	}

	for i := range b.Plaintexts {
		b.Plaintexts[i] = byte(s.rnd.Intn(256))
	}

	for p := 0; p < b.ByteCount; p++ {
		k := s.key.Byte(p)
		for i := 0; i < b.TraceCount; i++ {
			idx := p*b.TraceCount + i
			leak := Predict(b.Plaintexts[idx], k)
			noise := s.rnd.NormFloat64() * s.sigma
			b.Traces[idx] = leak + noise
		}
	}

	return b
}
