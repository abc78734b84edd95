// Package prng provides the seeded pseudorandom stream that drives trace
// simulation. A stream is a blake2b keyed XOF (lattigo's KeyedPRNG) whose key
// is derived from a 64-bit seed and a domain label with SHAKE256, so equal
// (seed, label) pairs always yield the same byte sequence.
package prng

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// KeySize is the length of the derived PRNG key in bytes.
const KeySize = 32

// Labels separating the independent streams of one run.
const (
	LabelKey    = "simcpa/key"
	LabelTraces = "simcpa/traces"
)

// DeriveKey expands (label, seed) into a KeySize byte key.
func DeriveKey(label string, seed uint64) []byte {
	h := sha3.NewShake256()
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	// sha3 writes never fail
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(s[:])
	out := make([]byte, KeySize)
	_, _ = h.Read(out)
	return out
}

// Stream is a deterministic byte stream that also satisfies rand.Source64,
// so it can back a *rand.Rand for integer and Gaussian draws.
type Stream struct {
	label string
	seed  uint64
	prng  utils.PRNG
	buf   [8]byte
}

// NewStream returns the stream for (label, seed).
func NewStream(label string, seed uint64) (*Stream, error) {
	s := &Stream{label: label}
	if err := s.reseed(seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) reseed(seed uint64) error {
	p, err := utils.NewKeyedPRNG(DeriveKey(s.label, seed))
	if err != nil {
		return fmt.Errorf("failed to key PRNG: %w", err)
	}
	s.seed = seed
	s.prng = p
	return nil
}

// SeedValue returns the seed the stream was last keyed with.
func (s *Stream) SeedValue() uint64 { return s.seed }

// Read fills p with the next len(p) stream bytes.
func (s *Stream) Read(p []byte) (int, error) {
	return s.prng.Read(p)
}

// Uint64 consumes eight bytes, little-endian.
func (s *Stream) Uint64() uint64 {
	if _, err := s.prng.Read(s.buf[:]); err != nil {
		panic(fmt.Errorf("prng: read: %w", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Int63 implements rand.Source.
func (s *Stream) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed implements rand.Source by rekeying the stream under the same label.
func (s *Stream) Seed(seed int64) {
	if err := s.reseed(uint64(seed)); err != nil {
		panic(err)
	}
}

// Rand wraps the stream in a *rand.Rand. All draws made through the returned
// value consume this stream.
func (s *Stream) Rand() *rand.Rand {
	return rand.New(s)
}

var _ rand.Source64 = (*Stream)(nil)
