package cpa

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
)

// SweepConfig configures a grid of attacks.
type SweepConfig struct {
	// TraceCounts and SNRs span the grid (cartesian product)
	TraceCounts []int
	SNRs        []float64

	// Repeats is the number of independent attacks per grid point
	Repeats int

	// ByteCount is the key length in bytes
	ByteCount int

	// Seed is the base seed; repeat r uses Seed+2r, so a repeat attacks the
	// same key at every grid point
	Seed uint64

	// Workers controls how many attacks run at once (0 = auto-detect)
	Workers int

	// Distinguisher scores the hypotheses (zero value = CPA)
	Distinguisher Distinguisher
}

// DefaultSweepConfig returns the defaults of the sweep command.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		TraceCounts:   []int{10, 50, 100, 500},
		SNRs:          []float64{0.125, 0.25, 1},
		Repeats:       5,
		ByteCount:     16,
		Seed:          0xABCDEF,
		Workers:       0,
		Distinguisher: CPA,
	}
}

// SweepPoint summarises the attacks at one grid point.
type SweepPoint struct {
	TraceCount int
	SNR        float64
	Runs       int

	MeanRank        float64 // Mean rank of the true key byte over all positions and runs
	ByteSuccessRate float64 // Fraction of positions where the true key byte ranks first
	KeySuccessRate  float64 // Fraction of runs where every key byte ranks first
	MeanKeyScore    float64 // Mean score of the true key byte
}

type sweepJob struct {
	point  int
	repeat int
	config Config
}

type runStats struct {
	rankSum   int
	firsts    int
	allFirst  bool
	scoreSum  float64
	positions int
}

// Sweep runs cfg.Repeats attacks for every (trace count, SNR) pair and
// returns one point per pair, trace counts outermost.
func Sweep(ctx context.Context, cfg SweepConfig) ([]SweepPoint, error) {
	if cfg.Repeats <= 0 {
		return nil, fmt.Errorf("cpa: repeats must be positive, got %d", cfg.Repeats)
	}

	var jobs []sweepJob
	points := make([]SweepPoint, 0, len(cfg.TraceCounts)*len(cfg.SNRs))
	for _, tc := range cfg.TraceCounts {
		for _, snr := range cfg.SNRs {
			points = append(points, SweepPoint{TraceCount: tc, SNR: snr, Runs: cfg.Repeats})
			for r := 0; r < cfg.Repeats; r++ {
				c := Config{
					ByteCount:     cfg.ByteCount,
					TraceCount:    tc,
					SNR:           snr,
					Seed:          cfg.Seed + 2*uint64(r),
					Workers:       1,
					Distinguisher: cfg.Distinguisher,
				}
				if err := c.Validate(); err != nil {
					return nil, err
				}
				jobs = append(jobs, sweepJob{point: len(points) - 1, repeat: r, config: c})
			}
		}
	}

	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	glog.V(1).Infof("sweeping %d grid points x %d repeats with %d workers", len(points), cfg.Repeats, numWorkers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := make([]runStats, len(jobs))
	workChan := make(chan int, numWorkers*2)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		done     int64
	)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-workChan:
					if !ok {
						return
					}
					s, err := runJob(ctx, jobs[i])
					if err != nil {
						errOnce.Do(func() {
							firstErr = err
							cancel()
						})
						return
					}
					stats[i] = s
					if n := atomic.AddInt64(&done, 1); n%100 == 0 {
						glog.V(1).Infof("completed %d/%d attacks", n, len(jobs))
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range jobs {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return summarise(points, jobs, stats), nil
}

func runJob(ctx context.Context, job sweepJob) (runStats, error) {
	result, err := NewClient().WithConfig(job.config).Attack(ctx)
	if err != nil {
		return runStats{}, fmt.Errorf("attack t=%d snr=%g repeat=%d: %w", job.config.TraceCount, job.config.SNR, job.repeat, err)
	}

	s := runStats{allFirst: true, positions: result.Key.Len()}
	for p, rank := range KeyByteRanks(result.Scores, result.Key, result.Order()) {
		s.rankSum += rank
		if rank == 1 {
			s.firsts++
		} else {
			s.allFirst = false
		}
		s.scoreSum += result.Scores.At(p, int(result.Key.Byte(p)))
	}
	return s, nil
}

func summarise(points []SweepPoint, jobs []sweepJob, stats []runStats) []SweepPoint {
	type acc struct {
		rankSum, firsts, keys, positions int
		scoreSum                         float64
	}
	accs := make([]acc, len(points))
	for i, job := range jobs {
		a := &accs[job.point]
		s := stats[i]
		a.rankSum += s.rankSum
		a.firsts += s.firsts
		a.positions += s.positions
		a.scoreSum += s.scoreSum
		if s.allFirst {
			a.keys++
		}
	}

	for i := range points {
		a := accs[i]
		n := float64(a.positions)
		points[i].MeanRank = float64(a.rankSum) / n
		points[i].ByteSuccessRate = float64(a.firsts) / n
		points[i].KeySuccessRate = float64(a.keys) / float64(points[i].Runs)
		points[i].MeanKeyScore = a.scoreSum / n
		if math.IsNaN(points[i].MeanKeyScore) {
			glog.Warningf("NaN scores at t=%d snr=%g", points[i].TraceCount, points[i].SNR)
		}
	}
	return points
}
