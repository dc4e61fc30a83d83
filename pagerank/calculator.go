package pagerank

import (
	"sync"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Calculator runs the sampling and iterative PageRank estimators with a
// fixed set of parameters. A Calculator may be shared between goroutines;
// calls to Sample are serialized as they share the configured random source.
type Calculator struct {
	cfg Config

	randMu sync.Mutex
}

// NewCalculator returns a new Calculator instance using the provided config
// options.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank calculator config validation failed: %w", err)
	}

	return &Calculator{cfg: cfg}, nil
}

// Config returns a copy of the calculator configuration with all defaults
// applied.
func (c *Calculator) Config() Config {
	cfg := c.cfg
	damping := *c.cfg.DampingFactor
	cfg.DampingFactor = &damping
	return cfg
}

// Sample estimates the PageRank scores of g by random sampling.
func (c *Calculator) Sample(g *linkgraph.Graph) (Distribution, error) {
	c.randMu.Lock()
	scores, err := SampleRank(g, *c.cfg.DampingFactor, c.cfg.NumSamples, c.cfg.Rand)
	c.randMu.Unlock()
	if err != nil {
		return nil, err
	}

	c.cfg.Logger.WithFields(logrus.Fields{
		"pages":   len(scores),
		"samples": c.cfg.NumSamples,
	}).Debug("sampled PageRank scores")
	return scores, nil
}

// Iterate calculates the PageRank scores of g with the iterative estimator.
func (c *Calculator) Iterate(g *linkgraph.Graph) (*IterationResult, error) {
	res, err := iterate(g, *c.cfg.DampingFactor, c.cfg.MinDeltaForConvergence, c.cfg.MaxIterations)
	if err != nil {
		return nil, err
	}

	c.cfg.Logger.WithFields(logrus.Fields{
		"pages":      len(res.Scores),
		"iterations": res.Iterations,
		"max_delta":  res.MaxDelta,
	}).Debug("PageRank scores converged")
	return res, nil
}
