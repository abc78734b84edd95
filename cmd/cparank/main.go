// Command cparank reads a score file and its key file and reports where the
// true key byte ranks at every position.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/rodaine/table"
	flag "github.com/spf13/pflag"

	"github.com/mahdiidarabi/simcpa/pkg/cpa"
	"github.com/mahdiidarabi/simcpa/pkg/scorefile"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

func main() {
	var (
		scoresFile = flag.StringP("file", "f", "scores.bin", "Read scores from this file")
		keyFile    = flag.StringP("keyfile", "k", "key.txt", "Read key from this file")
		byteCount  = flag.IntP("byte-count", "n", 16, "Key length in bytes")
		raw        = flag.Bool("raw", false, "Scores are raw |r| (higher is better) instead of |log2 |r|| or least-squares cost (lower is better)")
	)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	_ = goflag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if err := run(*scoresFile, *keyFile, *byteCount, *raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(scoresFile, keyFile string, byteCount int, raw bool) error {
	dims, err := scores.NewDimensions(byteCount)
	if err != nil {
		return err
	}
	tbl, err := scorefile.ReadScores(scoresFile, dims)
	if err != nil {
		return err
	}
	k, err := scorefile.ReadKey(keyFile, byteCount)
	if err != nil {
		return err
	}
	glog.V(1).Infof("loaded %d scores from %s", dims.Len(), scoresFile)

	order := scores.LowerIsBetter
	if raw {
		order = scores.HigherIsBetter
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	goodFmt := color.New(color.FgGreen).SprintfFunc()
	badFmt := color.New(color.FgRed, color.Bold).SprintfFunc()

	report := table.New("Position", "Key", "Score", "Best", "Best score", "Rank")
	report.WithHeaderFormatter(headerFmt)

	ranks := cpa.KeyByteRanks(tbl, k, order)
	found := 0
	for p, rank := range ranks {
		best := tbl.Best(p, order)
		rankStr := badFmt("%d", rank)
		if rank == 1 {
			rankStr = goodFmt("%d", rank)
			found++
		}
		report.AddRow(p,
			fmt.Sprintf("%02x", k.Byte(p)),
			fmt.Sprintf("%.6f", tbl.At(p, int(k.Byte(p)))),
			fmt.Sprintf("%02x", best),
			fmt.Sprintf("%.6f", tbl.At(p, best)),
			rankStr)
	}
	report.Print()

	guess, err := cpa.BestGuess(tbl, order)
	if err != nil {
		return err
	}
	fmt.Printf("\nKey:        %s\n", k)
	fmt.Printf("Best guess: %s\n", guess)
	fmt.Printf("Recovered %d/%d key bytes (%s)\n", found, len(ranks), order)
	return nil
}
