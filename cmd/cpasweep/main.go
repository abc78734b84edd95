// Command cpasweep runs simulated CPA attacks over every combination of the
// given trace counts and SNRs and prints how well the true key ranks.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/rodaine/table"
	flag "github.com/spf13/pflag"

	"github.com/mahdiidarabi/simcpa/pkg/cpa"
)

func main() {
	defaults := cpa.DefaultSweepConfig()
	var (
		traceCounts = flag.IntSlice("trace-counts", defaults.TraceCounts, "Trace counts to simulate")
		snrs        = flag.Float64Slice("snrs", defaults.SNRs, "SNRs to simulate")
		repeats     = flag.Int("repeats", defaults.Repeats, "Attacks per (trace count, SNR) pair")
		byteCount   = flag.IntP("byte-count", "n", defaults.ByteCount, "Key length in bytes")
		seed        = flag.Uint64P("seed", "r", defaults.Seed, "Base rng seed")
		numWorkers  = flag.IntP("workers", "w", defaults.Workers, "Number of parallel attacks (0 = auto-detect based on CPU cores)")
		method      = flag.StringP("distinguisher", "d", defaults.Distinguisher.String(), "Hypothesis scoring: cpa or lsq (least squares)")
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

	points, err := cpa.Sweep(context.Background(), cpa.SweepConfig{
		TraceCounts:   *traceCounts,
		SNRs:          *snrs,
		Repeats:       *repeats,
		ByteCount:     *byteCount,
		Seed:          *seed,
		Workers:       *numWorkers,
		Distinguisher: distinguisher,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	goodFmt := color.New(color.FgGreen).SprintfFunc()
	badFmt := color.New(color.FgRed, color.Bold).SprintfFunc()
	rate := func(r float64) string {
		if r == 1 {
			return goodFmt("%.2f", r)
		}
		return badFmt("%.2f", r)
	}

	tbl := table.New("Traces", "SNR", "Runs", "Mean rank", "Byte success", "Key success", "Mean key score")
	tbl.WithHeaderFormatter(headerFmt)
	for _, p := range points {
		tbl.AddRow(p.TraceCount, p.SNR, p.Runs,
			fmt.Sprintf("%.2f", p.MeanRank),
			rate(p.ByteSuccessRate),
			rate(p.KeySuccessRate),
			fmt.Sprintf("%.4f", p.MeanKeyScore))
	}
	tbl.Print()
}
