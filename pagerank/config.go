package pagerank

import (
	"io"
	"math/rand"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	// DefaultDampingFactor is the damping factor used when none is configured.
	DefaultDampingFactor = 0.85

	// DefaultNumSamples is the number of pages visited by the sampling
	// estimator when no sample count is configured.
	DefaultNumSamples = 10000

	// DefaultMinDeltaForConvergence is the per-page score change below
	// which the iterative estimator considers the scores converged.
	DefaultMinDeltaForConvergence = 0.001

	// DefaultMaxIterations is the number of iterations after which the
	// iterative estimator gives up and reports ErrConvergence.
	DefaultMaxIterations = 10000
)

// Config encapsulates the parameters for creating a new PageRank calculator
// instance.
type Config struct {
	// DampingFactor is the probability that a random surfer will click on
	// one of the outgoing links on the page they are currently visiting
	// instead of visiting (teleporting to) a random page in the graph.
	//
	// If nil, a default value of 0.85 will be used instead. A zero damping
	// factor turns every step into a random jump.
	DampingFactor *float64

	// The number of pages visited by the sampling estimator. If not
	// specified, a default value of 10000 will be used instead.
	NumSamples int

	// The iterative estimator keeps running until the score of every page
	// changes by less than MinDeltaForConvergence between two iterations.
	//
	// If not specified, a default value of 0.001 will be used instead.
	MinDeltaForConvergence float64

	// The maximum number of iterations for the iterative estimator. If not
	// specified, a default value of 10000 will be used instead.
	MaxIterations int

	// The source of randomness for the sampling estimator. If not
	// specified, a time-seeded source will be used instead.
	Rand Rand

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

// validate checks whether the PageRank calculator configuration is valid and
// sets the default values where required.
func (c *Config) validate() error {
	var err error
	if c.DampingFactor == nil {
		damping := DefaultDampingFactor
		c.DampingFactor = &damping
	} else if !(*c.DampingFactor >= 0 && *c.DampingFactor <= 1.0) {
		err = multierror.Append(err, xerrors.New("DampingFactor must be in the range [0, 1]"))
	} else {
		// Detach from the caller's value.
		damping := *c.DampingFactor
		c.DampingFactor = &damping
	}

	if c.NumSamples < 0 {
		err = multierror.Append(err, xerrors.New("NumSamples must be a positive integer"))
	} else if c.NumSamples == 0 {
		c.NumSamples = DefaultNumSamples
	}

	if !(c.MinDeltaForConvergence >= 0 && c.MinDeltaForConvergence < 1.0) {
		err = multierror.Append(err, xerrors.New("MinDeltaForConvergence must be in the range [0, 1)"))
	} else if c.MinDeltaForConvergence == 0 {
		c.MinDeltaForConvergence = DefaultMinDeltaForConvergence
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.New("MaxIterations must be a positive integer"))
	} else if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}

	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}
