// Package cpa simulates a Correlation Power Analysis attack on the AES
// SubBytes step and produces a score table with one absolute Pearson
// correlation per (key-byte position, hypothesis) pair.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/simcpa/pkg/cpa"
//
//	// Create a client with default settings (16 bytes, 100 traces, SNR 0.125)
//	client := cpa.NewClient()
//
//	// Draw a key from the seed, simulate traces and score every hypothesis
//	result, err := client.Attack(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Key: %s\n", result.Key)
//	fmt.Printf("Ranks: %v\n", cpa.KeyByteRanks(result.Scores, result.Key, scores.HigherIsBetter))
//
// # Customization
//
//	client := cpa.NewClient().WithConfig(cpa.Config{
//	    ByteCount:  16,
//	    TraceCount: 1000,
//	    SNR:        0.25,
//	    Seed:       1234,
//	    Workers:    8,
//	})
//
// # Distinguishers
//
// CPA (the default) scores with |Pearson r|, higher is better. LeastSquares
// scores with the sum of squared differences between traces and predicted
// leakage, normalised per position and flipped to a cost, lower is better.
// Both read the same simulated traces; Result.Order gives the direction.
//
//	client := cpa.NewClient().WithConfig(cpa.Config{
//	    ByteCount:     16,
//	    TraceCount:    1000,
//	    SNR:           0.25,
//	    Distinguisher: cpa.LeastSquares,
//	})
//
// # Reproducibility
//
// A run is fully determined by (ByteCount, TraceCount, SNR, Seed). The key is
// drawn from the stream keyed by Seed, traces from the stream keyed by
// Seed+1. Within the trace stream every plaintext byte is drawn before any
// noise sample, in position-major, trace-minor order. The worker count does
// not affect the output.
//
// # Parameter Sweeps
//
// Sweep repeats attacks over a grid of trace counts and SNRs and reports how
// well the true key bytes rank:
//
//	points, err := cpa.Sweep(ctx, cpa.SweepConfig{
//	    TraceCounts: []int{10, 100, 1000},
//	    SNRs:        []float64{0.125, 1},
//	    Repeats:     5,
//	    ByteCount:   16,
//	})
package cpa
