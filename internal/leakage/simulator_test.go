package leakage

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mahdiidarabi/simcpa/internal/prng"
	"github.com/mahdiidarabi/simcpa/pkg/key"
)

func testKey(t *testing.T, hexKey string) key.Key {
	t.Helper()
	k, err := key.FromHex(hexKey, len(hexKey)/2)
	if err != nil {
		t.Fatalf("Failed to parse key: %v", err)
	}
	return k
}

func testRand(t *testing.T, seed uint64) *rand.Rand {
	t.Helper()
	s, err := prng.NewStream(prng.LabelTraces, seed)
	if err != nil {
		t.Fatalf("Failed to create stream: %v", err)
	}
	return s.Rand()
}

func TestSBox_KnownValues(t *testing.T) {
	cases := map[byte]byte{0x00: 0x63, 0x01: 0x7c, 0x53: 0xed, 0xff: 0x16, 0x10: 0xca}
	for in, want := range cases {
		if got := SBox[in]; got != want {
			t.Errorf("SBox[%#02x] = %#02x, want %#02x", in, got, want)
		}
	}

	var seen [256]bool
	for _, v := range SBox {
		if seen[v] {
			t.Fatalf("SBox is not a permutation, %#02x repeats", v)
		}
		seen[v] = true
	}
}

func TestHammingWeight(t *testing.T) {
	cases := map[byte]float64{0x00: 0, 0x01: 1, 0x80: 1, 0x0f: 4, 0xaa: 4, 0xfe: 7, 0xff: 8}
	for in, want := range cases {
		if got := HammingWeight(in); got != want {
			t.Errorf("HammingWeight(%#02x) = %v, want %v", in, got, want)
		}
	}
	// SBox[0x00 ^ 0x00] = 0x63 has four set bits
	if got := Predict(0x00, 0x00); got != 4 {
		t.Errorf("Predict(0, 0) = %v, want 4", got)
	}
}

func TestSimulator_Shape(t *testing.T) {
	k := testKey(t, "000102030405060708090a0b0c0d0e0f")
	sim := NewSimulator(k, 50, 0.25, testRand(t, 1))
	b := sim.Next()

	if b.ByteCount != 16 || b.TraceCount != 50 {
		t.Fatalf("Unexpected batch shape %dx%d", b.ByteCount, b.TraceCount)
	}
	if len(b.Plaintexts) != 16*50 || len(b.Traces) != 16*50 {
		t.Fatalf("Expected %d plaintexts and traces, got %d and %d", 16*50, len(b.Plaintexts), len(b.Traces))
	}
	if len(b.PlaintextsAt(15)) != 50 || len(b.TracesAt(15)) != 50 {
		t.Error("Per-position views have the wrong length")
	}
}

func TestSimulator_ZeroTraces(t *testing.T) {
	k := testKey(t, "00112233")
	b := NewSimulator(k, 0, 0.25, testRand(t, 1)).Next()
	if len(b.Plaintexts) != 0 || len(b.Traces) != 0 {
		t.Errorf("Expected empty batch, got %d plaintexts", len(b.Plaintexts))
	}
	if len(b.TracesAt(3)) != 0 {
		t.Error("Expected empty per-position view")
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	k := testKey(t, "2b7e151628aed2a6abf7158809cf4f3c")
	a := NewSimulator(k, 100, 0.25, testRand(t, 1234)).Next()
	b := NewSimulator(k, 100, 0.25, testRand(t, 1234)).Next()

	for i := range a.Plaintexts {
		if a.Plaintexts[i] != b.Plaintexts[i] {
			t.Fatalf("Plaintext %d differs", i)
		}
		if math.Float64bits(a.Traces[i]) != math.Float64bits(b.Traces[i]) {
			t.Fatalf("Trace %d differs: %v vs %v", i, a.Traces[i], b.Traces[i])
		}
	}
}

func TestSimulator_DrawOrder(t *testing.T) {
	k := testKey(t, "a0b1c2d3")
	const traces = 20
	const snr = 0.5
	got := NewSimulator(k, traces, snr, testRand(t, 77)).Next()

	// Replay: all plaintexts first, then one noise draw per sample.
	rnd := testRand(t, 77)
	n := k.Len() * traces
	pts := make([]byte, n)
	for i := range pts {
		pts[i] = byte(rnd.Intn(256))
	}
	sigma := math.Sqrt(2 / snr)
	for p := 0; p < k.Len(); p++ {
		for i := 0; i < traces; i++ {
			idx := p*traces + i
			if got.Plaintexts[idx] != pts[idx] {
				t.Fatalf("Plaintext (%d,%d) differs from replay", p, i)
			}
			want := Predict(pts[idx], k.Byte(p)) + rnd.NormFloat64()*sigma
			if math.Float64bits(got.Traces[idx]) != math.Float64bits(want) {
				t.Fatalf("Trace (%d,%d) = %v, replay gives %v", p, i, got.Traces[idx], want)
			}
		}
	}
}

func TestSimulator_LowNoiseMatchesModel(t *testing.T) {
	k := testKey(t, "ffee")
	b := NewSimulator(k, 200, 1e12, testRand(t, 3)).Next()
	for p := 0; p < b.ByteCount; p++ {
		pts, trs := b.PlaintextsAt(p), b.TracesAt(p)
		for i := range pts {
			if d := math.Abs(trs[i] - Predict(pts[i], k.Byte(p))); d > 1e-3 {
				t.Fatalf("Trace (%d,%d) deviates from model by %v", p, i, d)
			}
		}
	}
}

func TestSimulator_NextIsFresh(t *testing.T) {
	k := testKey(t, "0011223344556677")
	sim := NewSimulator(k, 64, 1, testRand(t, 5))
	a, b := sim.Next(), sim.Next()

	same := true
	for i := range a.Plaintexts {
		if a.Plaintexts[i] != b.Plaintexts[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Consecutive batches should use fresh plaintexts")
	}
}

func TestNoiseSigma(t *testing.T) {
	if got := NoiseSigma(2); got != 1 {
		t.Errorf("NoiseSigma(2) = %v, want 1", got)
	}
	if got := NoiseSigma(-1); !math.IsNaN(got) {
		t.Errorf("NoiseSigma(-1) = %v, want NaN", got)
	}
	if got := NoiseSigma(0); !math.IsInf(got, 1) {
		t.Errorf("NoiseSigma(0) = %v, want +Inf", got)
	}
}
