package correlation

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/golang/glog"

	"github.com/mahdiidarabi/simcpa/internal/leakage"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// Row holds the score of every hypothesis for one key-byte position.
type Row [scores.HypothesesPerByte]float64

// Engine scores every position of a batch with a pool of workers.
type Engine struct {
	numWorkers    int
	distinguisher Distinguisher
}

// NewEngine returns an engine with numWorkers workers (0 = runtime.NumCPU()).
func NewEngine(numWorkers int) *Engine {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Engine{numWorkers: numWorkers}
}

// WithDistinguisher sets how hypotheses are scored (default Correlation).
func (e *Engine) WithDistinguisher(d Distinguisher) *Engine {
	e.distinguisher = d
	return e
}

// Workers returns the size of the worker pool.
func (e *Engine) Workers() int { return e.numWorkers }

// Distinguisher returns the scoring method.
func (e *Engine) Distinguisher() Distinguisher { return e.distinguisher }

// ScorePosition returns |r| for each hypothesis c, correlating
// HW(SBox(pt ^ c)) with the traces of one position. hyp is scratch space of
// len(pts); nil allocates.
func ScorePosition(pts []byte, traces []float64, hyp []float64) Row {
	if len(hyp) < len(pts) {
		hyp = make([]float64, len(pts))
	}
	hyp = hyp[:len(pts)]

	var row Row
	for c := 0; c < scores.HypothesesPerByte; c++ {
		for i, pt := range pts {
			hyp[i] = leakage.Predict(pt, byte(c))
		}
		row[c] = math.Abs(Pearson(hyp, traces))
	}
	return row
}

// Score returns one Row per position of b, in position order. Workers only
// read b and each writes the slot of the position it pulled, so no locking is
// needed. A cancelled ctx stops the pool and returns ctx.Err().
//
// Least-squares rows are flipped to costs across all positions once every
// worker is done.
func (e *Engine) Score(ctx context.Context, b *leakage.Batch) ([]Row, error) {
	if err := e.distinguisher.Validate(); err != nil {
		return nil, err
	}
	rows := make([]Row, b.ByteCount)

	workers := e.numWorkers
	if workers > b.ByteCount {
		workers = b.ByteCount
	}
	glog.V(2).Infof("scoring %d positions x %d traces with %d workers (%s)", b.ByteCount, b.TraceCount, workers, e.distinguisher)

	workChan := make(chan int, b.ByteCount)
	for p := 0; p < b.ByteCount; p++ {
		workChan <- p
	}
	close(workChan)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hyp := make([]float64, b.TraceCount)
			for {
				select {
				case <-ctx.Done():
					return
				case p, ok := <-workChan:
					if !ok {
						return
					}
					if e.distinguisher == LeastSquares {
						rows[p] = LeastSquaresPosition(b.PlaintextsAt(p), b.TracesAt(p))
					} else {
						rows[p] = ScorePosition(b.PlaintextsAt(p), b.TracesAt(p), hyp)
					}
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.distinguisher == LeastSquares {
		FlipToCost(rows)
	}
	return rows, nil
}

// Fill inserts rows into t in position order.
func Fill(t *scores.Table, rows []Row) error {
	for p := range rows {
		if err := t.AddScores(p, rows[p][:]); err != nil {
			return err
		}
	}
	return nil
}
