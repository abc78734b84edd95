package cpa

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/mahdiidarabi/simcpa/internal/correlation"
	"github.com/mahdiidarabi/simcpa/internal/leakage"
	"github.com/mahdiidarabi/simcpa/internal/prng"
	"github.com/mahdiidarabi/simcpa/pkg/key"
	"github.com/mahdiidarabi/simcpa/pkg/scorefile"
	"github.com/mahdiidarabi/simcpa/pkg/scores"
)

// Client provides a high-level API for simulated CPA attacks.
type Client struct {
	config Config
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{config: DefaultConfig()}
}

// WithConfig sets the run parameters.
func (c *Client) WithConfig(config Config) *Client {
	c.config = config
	return c
}

// Config returns the run parameters.
func (c *Client) Config() Config { return c.config }

// RandomKey draws the run key from the stream keyed by the configured seed.
func (c *Client) RandomKey() (key.Key, error) {
	if err := c.config.Validate(); err != nil {
		return key.Key{}, err
	}
	s, err := prng.NewStream(prng.LabelKey, c.config.Seed)
	if err != nil {
		return key.Key{}, err
	}
	return key.Random(s, c.config.ByteCount)
}

// Attack draws a key from the seed and attacks it.
func (c *Client) Attack(ctx context.Context) (*Result, error) {
	k, err := c.RandomKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return c.AttackKey(ctx, k)
}

// AttackKey simulates traces for k and scores every hypothesis.
//
// Args:
//   - ctx: Context for cancellation.
//   - k: Secret key; its length must equal the configured ByteCount.
//
// Returns:
//   - Result with the untransformed score table, error otherwise. Ranking
//     direction follows the distinguisher (see Result.Order).
func (c *Client) AttackKey(ctx context.Context, k key.Key) (*Result, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if k.Len() != c.config.ByteCount {
		return nil, fmt.Errorf("%w: key has %d bytes, config expects %d", key.ErrLength, k.Len(), c.config.ByteCount)
	}

	stream, err := prng.NewStream(prng.LabelTraces, c.config.Seed+1)
	if err != nil {
		return nil, err
	}

	sim := leakage.NewSimulator(k, c.config.TraceCount, c.config.SNR, stream.Rand())
	batch := sim.Next()
	glog.V(1).Infof("simulated %d traces for %d key bytes at SNR %g", batch.TraceCount, batch.ByteCount, c.config.SNR)

	engine := correlation.NewEngine(c.config.Workers).WithDistinguisher(c.config.Distinguisher)
	rows, err := engine.Score(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to score hypotheses: %w", err)
	}

	dims, err := scores.NewDimensions(c.config.ByteCount)
	if err != nil {
		return nil, err
	}
	tbl, err := scores.NewTable(dims)
	if err != nil {
		return nil, err
	}
	if err := correlation.Fill(tbl, rows); err != nil {
		return nil, err
	}

	return &Result{Key: k, Scores: tbl, Config: c.config}, nil
}

// SimulateToFiles runs Attack and writes the scores and key to disk. Unless
// raw is set, correlation scores are transformed with Log2 then Abs before
// writing, the form a weight mapper expects. Least-squares scores are already
// costs and are written unchanged. The returned result holds the scores as
// written.
func (c *Client) SimulateToFiles(ctx context.Context, scoresPath, keyPath string, raw bool) (*Result, error) {
	result, err := c.Attack(ctx)
	if err != nil {
		return nil, err
	}

	if !raw && c.config.Distinguisher == CPA {
		result.Scores.Log2()
		result.Scores.Abs()
	}

	if err := scorefile.WriteScores(scoresPath, result.Scores); err != nil {
		return nil, err
	}
	if err := scorefile.WriteKey(keyPath, result.Key); err != nil {
		return nil, err
	}
	glog.V(1).Infof("wrote %d scores to %s and key to %s", result.Scores.Dims().Len(), scoresPath, keyPath)

	return result, nil
}
