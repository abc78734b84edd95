// Command simcpa simulates a CPA attack on the AES SubBytes step and writes
// the resulting score table and the secret key to disk.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	flag "github.com/spf13/pflag"

	"github.com/mahdiidarabi/simcpa/pkg/cpa"
)

func main() {
	defaults := cpa.DefaultConfig()
	var (
		scoresFile = flag.StringP("file", "f", "scores.bin", "Write scores to this file")
		keyFile    = flag.StringP("keyfile", "k", "key.txt", "Write key to this file")
		traceCount = flag.IntP("trace-count", "t", defaults.TraceCount, "Number of traces to simulate")
		snr        = flag.Float64P("snr", "s", defaults.SNR, "SNR for simulated traces")
		seed       = flag.Uint64P("seed", "r", defaults.Seed, "Rng seed for simulation of trace data")
		byteCount  = flag.IntP("byte-count", "n", defaults.ByteCount, "Key length in bytes")
		numWorkers = flag.IntP("workers", "w", defaults.Workers, "Number of parallel workers (0 = auto-detect based on CPU cores)")
		raw        = flag.Bool("raw", false, "Write raw |r| scores instead of |log2 |r|| (cpa only)")
		method     = flag.StringP("distinguisher", "d", defaults.Distinguisher.String(), "Hypothesis scoring: cpa or lsq (least squares)")
	)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	_ = goflag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	distinguisher, err := cpa.ParseDistinguisher(*method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}

	client := cpa.NewClient().WithConfig(cpa.Config{
		ByteCount:     *byteCount,
		TraceCount:    *traceCount,
		SNR:           *snr,
		Seed:          *seed,
		Workers:       *numWorkers,
		Distinguisher: distinguisher,
	})

	result, err := client.SimulateToFiles(context.Background(), *scoresFile, *keyFile, *raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}

	fmt.Printf("Simulated %d traces per byte at SNR %g (seed %d, %s)\n", *traceCount, *snr, *seed, distinguisher)
	fmt.Printf("    Key:    %s -> %s\n", result.Key, *keyFile)
	fmt.Printf("    Scores: %d x %d -> %s\n", result.Scores.Dims().ByteCount, result.Scores.Dims().HypothesesPerByte, *scoresFile)
}
