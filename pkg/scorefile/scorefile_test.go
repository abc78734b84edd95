package scorefile

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mahdiidarabi/simcpa/pkg/key"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

func sampleTable(t *testing.T, byteCount int) *scores.Table {
	t.Helper()
	dims, err := scores.NewDimensions(byteCount)
	if err != nil {
		t.Fatalf("Failed to build dimensions: %v", err)
	}
	all := make([]float64, dims.Len())
	for i := range all {
		all[i] = float64(i)/7 - 3
	}
	all[1] = math.NaN()
	all[2] = math.Inf(-1)
	all[3] = math.Copysign(0, -1)
	tbl, err := scores.FromScores(dims, all)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}
	return tbl
}

func bitsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func TestScores_RoundTrip(t *testing.T) {
	tbl := sampleTable(t, 4)
	path := filepath.Join(t.TempDir(), "scores.bin")

	if err := WriteScores(path, tbl); err != nil {
		t.Fatalf("WriteScores failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(EntrySize*4*scores.HypothesesPerByte) {
		t.Errorf("Expected %d bytes, got %d", EntrySize*4*scores.HypothesesPerByte, info.Size())
	}

	back, err := ReadScores(path, tbl.Dims())
	if err != nil {
		t.Fatalf("ReadScores failed: %v", err)
	}
	if !bitsEqual(back.All(), tbl.All()) {
		t.Error("Round trip changed score bits")
	}

	again := filepath.Join(t.TempDir(), "again.bin")
	if err := WriteScores(again, back); err != nil {
		t.Fatalf("WriteScores failed: %v", err)
	}
	a, _ := os.ReadFile(path)
	b, _ := os.ReadFile(again)
	if !bytes.Equal(a, b) {
		t.Error("Re-written file differs byte-for-byte")
	}
}

func TestEncodeScores_Layout(t *testing.T) {
	dims, _ := scores.NewDimensions(1)
	all := make([]float64, dims.Len())
	all[0] = 1.0
	tbl, _ := scores.FromScores(dims, all)

	var buf bytes.Buffer
	if err := EncodeScores(&buf, tbl); err != nil {
		t.Fatalf("EncodeScores failed: %v", err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}
	if !bytes.Equal(buf.Bytes()[:8], want) {
		t.Errorf("First entry encoded as %x, want %x", buf.Bytes()[:8], want)
	}
}

func TestDecodeScores_Errors(t *testing.T) {
	dims, _ := scores.NewDimensions(1)

	if _, err := DecodeScores(nil, dims); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
	if _, err := DecodeScores(make([]byte, 13), dims); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
	if _, err := DecodeScores(make([]byte, 16), dims); !errors.Is(err, ErrShape) {
		t.Errorf("Expected ErrShape, got %v", err)
	}
}

func TestReadScores_Missing(t *testing.T) {
	dims, _ := scores.NewDimensions(1)
	_, err := ReadScores(filepath.Join(t.TempDir(), "nope.bin"), dims)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadScores_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	dims, _ := scores.NewDimensions(1)
	if _, err := ReadScores(path, dims); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
}

func TestWriteScores_BadPath(t *testing.T) {
	tbl := sampleTable(t, 1)
	if err := WriteScores(filepath.Join(t.TempDir(), "missing", "scores.bin"), tbl); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestKey_RoundTrip(t *testing.T) {
	k, err := key.New([]byte{0x00, 0x0f, 0xa0, 0xff})
	if err != nil {
		t.Fatalf("Failed to build key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "key.txt")

	if err := WriteKey(path, k); err != nil {
		t.Fatalf("WriteKey failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "000fa0ff" {
		t.Errorf("Unexpected key file contents %q", raw)
	}

	back, err := ReadKey(path, 4)
	if err != nil {
		t.Fatalf("ReadKey failed: %v", err)
	}
	if !back.Equal(k) {
		t.Errorf("Round trip mismatch. Got: %s, Expected: %s", back, k)
	}
}

func TestReadKey_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadKey(filepath.Join(dir, "nope.txt"), 16); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}

	path := filepath.Join(dir, "short.txt")
	_ = os.WriteFile(path, []byte("abcd\n"), 0o644)
	if _, err := ReadKey(path, 16); !errors.Is(err, key.ErrLength) {
		t.Errorf("Expected key.ErrLength, got %v", err)
	}
	if k, err := ReadKey(path, 2); err != nil || k.Hex() != "abcd" {
		t.Errorf("Trailing newline should be tolerated, got %v, %v", k, err)
	}
}
