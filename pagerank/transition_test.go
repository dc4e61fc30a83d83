package pagerank_test

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(TransitionTestSuite))

type TransitionTestSuite struct{}

func (s *TransitionTestSuite) TestLinkedPagesGetDampedShare(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B", "C"},
		"B": {"A"},
		"C": {"A"},
	})

	dist, err := pagerank.Transition(g, "A", 0.85)
	c.Assert(err, gc.IsNil)
	assertDistribution(c, dist, map[linkgraph.Page]float64{
		"A": 0.05,
		"B": 0.475,
		"C": 0.475,
	}, 1e-12)
}

func (s *TransitionTestSuite) TestPageWithoutLinksTeleportsUniformly(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B"},
		"B": {"A"},
		"C": nil,
		"D": nil,
	})

	dist, err := pagerank.Transition(g, "C", 0.85)
	c.Assert(err, gc.IsNil)
	assertDistribution(c, dist, map[linkgraph.Page]float64{
		"A": 0.25,
		"B": 0.25,
		"C": 0.25,
		"D": 0.25,
	}, 1e-12)
}

func (s *TransitionTestSuite) TestDampingFactorExtremes(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B"},
		"B": nil,
	})

	dist, err := pagerank.Transition(g, "A", 0)
	c.Assert(err, gc.IsNil)
	assertDistribution(c, dist, map[linkgraph.Page]float64{"A": 0.5, "B": 0.5}, 1e-12)

	dist, err = pagerank.Transition(g, "A", 1)
	c.Assert(err, gc.IsNil)
	assertDistribution(c, dist, map[linkgraph.Page]float64{"A": 0, "B": 1}, 1e-12)
}

func (s *TransitionTestSuite) TestUnknownPage(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{"A": nil})

	_, err := pagerank.Transition(g, "B", 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidPage), gc.Equals, true, gc.Commentf("got %v", err))

	_, err = pagerank.Transition(linkgraph.New(nil), "A", 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidPage), gc.Equals, true, gc.Commentf("got %v", err))

	_, err = pagerank.Transition(nil, "A", 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidPage), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *TransitionTestSuite) TestInvalidDampingFactor(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{"A": nil})

	for _, damping := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := pagerank.Transition(g, "A", damping)
		c.Assert(xerrors.Is(err, pagerank.ErrInvalidArgument), gc.Equals, true, gc.Commentf("damping %v: got %v", damping, err))
	}
}

func (s *TransitionTestSuite) TestRandomGraphsYieldValidDistributions(c *gc.C) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		g := randomGraph(rnd, 1+rnd.Intn(30), 5)
		damping := 0.05 + 0.9*rnd.Float64()

		for _, page := range g.Pages() {
			dist, err := pagerank.Transition(g, page, damping)
			c.Assert(err, gc.IsNil)
			c.Assert(dist, gc.HasLen, g.Len())
			c.Assert(math.Abs(dist.Sum()-1.0) <= 1e-9, gc.Equals, true, gc.Commentf("sum %v", dist.Sum()))
			for p, v := range dist {
				c.Assert(v > 0, gc.Equals, true, gc.Commentf("page %s has non-positive probability %v", p, v))
			}
		}
	}
}

func assertDistribution(c *gc.C, got pagerank.Distribution, exp map[linkgraph.Page]float64, tolerance float64) {
	c.Assert(got, gc.HasLen, len(exp))
	for page, expScore := range exp {
		score, found := got[page]
		c.Assert(found, gc.Equals, true, gc.Commentf("missing score for page %s", page))
		absDelta := math.Abs(score - expScore)
		c.Assert(absDelta <= tolerance, gc.Equals, true, gc.Commentf("expected score for %v to be %f ± %g; got %f (abs. delta %f)", page, expScore, tolerance, score, absDelta))
	}
}

// randomGraph returns a graph with numPages pages where each page links to
// up to maxOutLinks random pages.
func randomGraph(rnd *rand.Rand, numPages, maxOutLinks int) *linkgraph.Graph {
	names := make([]linkgraph.Page, numPages)
	for i := range names {
		names[i] = linkgraph.Page(strconv.Itoa(i) + ".html")
	}

	links := make(map[linkgraph.Page][]linkgraph.Page, numPages)
	for _, src := range names {
		outLinks := rnd.Intn(maxOutLinks + 1)
		links[src] = nil
		for j := 0; j < outLinks; j++ {
			links[src] = append(links[src], names[rnd.Intn(numPages)])
		}
	}
	return linkgraph.New(links)
}
