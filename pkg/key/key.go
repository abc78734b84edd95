// Package key holds the fixed-length secret key attacked by the simulation.
package key

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrLength is returned when a key is built with a non-positive or
	// mismatched length.
	ErrLength = errors.New("key: invalid length")
)

// Key is an immutable byte sequence whose length is fixed at construction.
type Key struct {
	b []byte
}

// New copies b into a Key. b must not be empty.
func New(b []byte) (Key, error) {
	if len(b) == 0 {
		return Key{}, fmt.Errorf("%w: empty key", ErrLength)
	}
	return Key{b: append([]byte(nil), b...)}, nil
}

// FromHex parses a key of byteCount bytes from hex digits. Upper and lower
// case digits are accepted; separators are not.
func FromHex(s string, byteCount int) (Key, error) {
	if byteCount <= 0 {
		return Key{}, fmt.Errorf("%w: byte count %d", ErrLength, byteCount)
	}
	if len(s) != 2*byteCount {
		return Key{}, fmt.Errorf("%w: expected %d hex digits, got %d", ErrLength, 2*byteCount, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("failed to decode key hex: %w", err)
	}
	return Key{b: b}, nil
}

// Random draws byteCount bytes from r.
func Random(r io.Reader, byteCount int) (Key, error) {
	if byteCount <= 0 {
		return Key{}, fmt.Errorf("%w: byte count %d", ErrLength, byteCount)
	}
	b := make([]byte, byteCount)
	if _, err := io.ReadFull(r, b); err != nil {
		return Key{}, fmt.Errorf("failed to draw key bytes: %w", err)
	}
	return Key{b: b}, nil
}

// Len returns the number of key bytes.
func (k Key) Len() int { return len(k.b) }

// Bits returns the key length in bits.
func (k Key) Bits() int { return 8 * len(k.b) }

// Byte returns the key byte at position i.
func (k Key) Byte(i int) byte { return k.b[i] }

// Bytes returns a copy of the key bytes.
func (k Key) Bytes() []byte { return append([]byte(nil), k.b...) }

// Hex returns the key as lowercase, zero-padded hex digits.
func (k Key) Hex() string { return hex.EncodeToString(k.b) }

func (k Key) String() string { return k.Hex() }

// Equal reports whether k and o hold the same bytes.
func (k Key) Equal(o Key) bool { return bytes.Equal(k.b, o.b) }
