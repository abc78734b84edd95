// Package scorefile reads and writes score tables and keys.
//
// A score file is a headerless sequence of little-endian IEEE-754 float64
// values in position-major, hypothesis-minor order, 8 bytes per score. A key
// file holds the key as lowercase hex digits with no trailing newline.
package scorefile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mahdiidarabi/simcpa/pkg/key"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// EntrySize is the on-disk width of one score.
const EntrySize = 8

var (
	// ErrEmpty is returned for a zero-length score file.
	ErrEmpty = errors.New("scorefile: empty score file")
	// ErrTruncated is returned when the file size is not a multiple of EntrySize.
	ErrTruncated = errors.New("scorefile: truncated score file")
	// ErrShape is returned when the entry count does not match the requested
	// dimensions.
	ErrShape = errors.New("scorefile: entry count does not match dimensions")
)

// EncodeScores writes every score of t to w.
func EncodeScores(w io.Writer, t *scores.Table) error {
	bw := bufio.NewWriter(w)
	var buf [EntrySize]byte
	for _, v := range t.All() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("failed to write score: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush scores: %w", err)
	}
	return nil
}

// DecodeScores parses raw score bytes into a table of shape dims.
func DecodeScores(data []byte, dims scores.Dimensions) (*scores.Table, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data)%EntrySize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	n := len(data) / EntrySize
	if n != dims.Len() {
		return nil, fmt.Errorf("%w: file has %d scores, expected %d", ErrShape, n, dims.Len())
	}

	all := make([]float64, n)
	for i := range all {
		all[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*EntrySize:]))
	}
	return scores.FromScores(dims, all)
}

// WriteScores creates (or truncates) path and writes t to it.
func WriteScores(path string, t *scores.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create score file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close score file: %w", cerr)
		}
	}()
	return EncodeScores(f, t)
}

// ReadScores loads the score file at path into a table of shape dims.
func ReadScores(path string, dims scores.Dimensions) (*scores.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}
	t, err := DecodeScores(data, dims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteKey writes the hex encoding of k to path.
func WriteKey(path string, k key.Key) error {
	if err := os.WriteFile(path, []byte(k.Hex()), 0o644); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// ReadKey loads a byteCount-byte key from path. Surrounding whitespace is
// ignored.
func ReadKey(path string, byteCount int) (key.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return key.Key{}, fmt.Errorf("failed to read key file: %w", err)
	}
	k, err := key.FromHex(strings.TrimSpace(string(data)), byteCount)
	if err != nil {
		return key.Key{}, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}
