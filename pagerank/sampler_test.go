package pagerank_test

import (
	"math"
	"math/rand"

	"github.com/golang/mock/gomock"
	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	"github.com/linksrus/corpusrank/pagerank/mocks"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(SamplerTestSuite))

type SamplerTestSuite struct{}

func (s *SamplerTestSuite) TestSurferFollowsCumulativeDraws(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B"},
		"B": {"A"},
		"C": nil,
	})

	// Cumulative transition tables (damping 0.85, sorted page order):
	//  A: [0.05, 0.95, 1.0]
	//  B: [0.90, 0.95, 1.0]
	//  C: [1/3,  2/3,  1.0]
	rnd := mocks.NewMockRand(ctrl)
	gomock.InOrder(
		rnd.EXPECT().Intn(3).Return(0),       // start at A
		rnd.EXPECT().Float64().Return(0.5),   // A -> B
		rnd.EXPECT().Float64().Return(0.97),  // B -> C
		rnd.EXPECT().Float64().Return(0.1),   // C -> A
		rnd.EXPECT().Float64().Return(0.049), // A -> A
	)

	dist, err := pagerank.SampleRank(g, 0.85, 5, rnd)
	c.Assert(err, gc.IsNil)
	c.Assert(dist, gc.DeepEquals, pagerank.Distribution{
		"A": 0.6,
		"B": 0.2,
		"C": 0.2,
	})
}

func (s *SamplerTestSuite) TestSinglePageGraph(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{"A": nil})

	dist, err := pagerank.SampleRank(g, 0.85, 100, rand.New(rand.NewSource(42)))
	c.Assert(err, gc.IsNil)
	c.Assert(dist, gc.DeepEquals, pagerank.Distribution{"A": 1.0})
}

func (s *SamplerTestSuite) TestScoresAreMultiplesOfSampleCount(c *gc.C) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 10; round++ {
		g := randomGraph(rnd, 1+rnd.Intn(20), 4)
		numSamples := 1 + rnd.Intn(2000)

		dist, err := pagerank.SampleRank(g, 0.85, numSamples, rnd)
		c.Assert(err, gc.IsNil)
		c.Assert(dist, gc.HasLen, g.Len())
		c.Assert(math.Abs(dist.Sum()-1.0) <= 1e-9, gc.Equals, true, gc.Commentf("sum %v", dist.Sum()))

		for page, score := range dist {
			visits := score * float64(numSamples)
			c.Assert(math.Abs(visits-math.Round(visits)) <= 1e-6, gc.Equals, true,
				gc.Commentf("score %v of %s is not a multiple of 1/%d", score, page, numSamples))
		}
	}
}

func (s *SamplerTestSuite) TestSameSeedSameScores(c *gc.C) {
	g := randomGraph(rand.New(rand.NewSource(1)), 10, 3)

	dist1, err := pagerank.SampleRank(g, 0.85, 1000, rand.New(rand.NewSource(7)))
	c.Assert(err, gc.IsNil)
	dist2, err := pagerank.SampleRank(g, 0.85, 1000, rand.New(rand.NewSource(7)))
	c.Assert(err, gc.IsNil)
	c.Assert(dist1, gc.DeepEquals, dist2)
}

func (s *SamplerTestSuite) TestNilRandUsesDefaultSource(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B"},
		"B": {"A"},
	})

	dist, err := pagerank.SampleRank(g, 0.85, 10, nil)
	c.Assert(err, gc.IsNil)
	c.Assert(math.Abs(dist.Sum()-1.0) <= 1e-9, gc.Equals, true)
}

func (s *SamplerTestSuite) TestConvergesTowardsIterativeScores(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"1.html": {"2.html"},
		"2.html": {"1.html", "3.html"},
		"3.html": {"2.html", "4.html"},
		"4.html": {"2.html"},
		"5.html": nil,
	})

	exp, err := pagerank.IterateRank(g, 0.85)
	c.Assert(err, gc.IsNil)

	rnd := rand.New(rand.NewSource(42))
	small, err := pagerank.SampleRank(g, 0.85, 100, rnd)
	c.Assert(err, gc.IsNil)
	large, err := pagerank.SampleRank(g, 0.85, 100000, rnd)
	c.Assert(err, gc.IsNil)

	smallDist := pagerank.Distance(small, exp)
	largeDist := pagerank.Distance(large, exp)
	c.Logf("L1 distance from iterative scores: n=100 -> %f, n=100000 -> %f", smallDist, largeDist)

	c.Assert(largeDist < 0.05, gc.Equals, true, gc.Commentf("L1 distance %f exceeds tolerance", largeDist))
	c.Assert(largeDist < smallDist, gc.Equals, true, gc.Commentf("expected estimate to improve with more samples"))
}

func (s *SamplerTestSuite) TestInvalidArguments(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{"A": nil})
	rnd := rand.New(rand.NewSource(42))

	specs := []struct {
		descr      string
		g          *linkgraph.Graph
		damping    float64
		numSamples int
	}{
		{descr: "zero samples", g: g, damping: 0.85, numSamples: 0},
		{descr: "negative samples", g: g, damping: 0.85, numSamples: -5},
		{descr: "empty graph", g: linkgraph.New(nil), damping: 0.85, numSamples: 10},
		{descr: "nil graph", g: nil, damping: 0.85, numSamples: 10},
		{descr: "damping above 1", g: g, damping: 1.5, numSamples: 10},
		{descr: "negative damping", g: g, damping: -1, numSamples: 10},
	}

	for _, spec := range specs {
		_, err := pagerank.SampleRank(spec.g, spec.damping, spec.numSamples, rnd)
		c.Assert(xerrors.Is(err, pagerank.ErrInvalidArgument), gc.Equals, true, gc.Commentf("%s: got %v", spec.descr, err))
	}
}
