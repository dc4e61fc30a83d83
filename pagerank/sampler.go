package pagerank

import (
	"math/rand"
	"time"

	"github.com/linksrus/corpusrank/linkgraph"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/corpusrank/pagerank Rand

// Rand is the source of randomness used by the sampling estimator. It is
// satisfied by *rand.Rand.
type Rand interface {
	// Intn returns a uniformly distributed integer in [0, n).
	Intn(n int) int

	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// SampleRank estimates PageRank scores by simulating a random surfer that
// visits numSamples pages. The first page is picked uniformly at random; each
// subsequent page is drawn from the Transition distribution of the page
// visited before it. The score of each page is the fraction of samples that
// landed on it.
//
// If rnd is nil, a time-seeded source is used.
func SampleRank(g *linkgraph.Graph, dampingFactor float64, numSamples int, rnd Rand) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("sample rank: %w", err)
	}
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, xerrors.Errorf("sample rank: %w", err)
	}
	if numSamples < 1 {
		return nil, xerrors.Errorf("sample rank: sample count must be at least 1; got %d: %w", numSamples, ErrInvalidArgument)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := newSurfer(g, dampingFactor)
	visits := make([]int, len(s.pages))

	cur := rnd.Intn(len(s.pages))
	visits[cur]++
	for i := 1; i < numSamples; i++ {
		cur = s.next(cur, rnd.Float64())
		visits[cur]++
	}

	dist := make(Distribution, len(s.pages))
	for i, p := range s.pages {
		dist[p] = float64(visits[i]) / float64(numSamples)
	}
	return dist, nil
}

// surfer walks a link graph according to the transition model. The
// cumulative transition table of each page is computed the first time the
// surfer lands on it.
type surfer struct {
	g             *linkgraph.Graph
	pages         []linkgraph.Page
	dampingFactor float64
	cdf           [][]float64
}

func newSurfer(g *linkgraph.Graph, dampingFactor float64) *surfer {
	pages := g.Pages()
	return &surfer{
		g:             g,
		pages:         pages,
		dampingFactor: dampingFactor,
		cdf:           make([][]float64, len(pages)),
	}
}

// next returns the index of the page visited after cur, given a uniform
// random value r in [0, 1).
func (s *surfer) next(cur int, r float64) int {
	cdf := s.cdf[cur]
	if cdf == nil {
		cdf = transitionRow(s.g, s.pages, s.pages[cur], s.dampingFactor)
		for i := 1; i < len(cdf); i++ {
			cdf[i] += cdf[i-1]
		}
		s.cdf[cur] = cdf
	}

	for i, cum := range cdf {
		if r < cum {
			return i
		}
	}

	// Rounding errors can leave the last cumulative value slightly below 1;
	// fall back to the last page with a non-zero probability.
	for i := len(cdf) - 1; i > 0; i-- {
		if cdf[i] > cdf[i-1] {
			return i
		}
	}
	return 0
}
