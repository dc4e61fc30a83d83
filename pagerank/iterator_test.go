package pagerank_test

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(IteratorTestSuite))

type IteratorTestSuite struct{}

type iterSpec struct {
	descr     string
	links     map[linkgraph.Page][]linkgraph.Page
	expScores map[linkgraph.Page]float64
}

func (s *IteratorTestSuite) TestSinglePage(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr:     "A single page without links gets all the score.",
		links:     map[linkgraph.Page][]linkgraph.Page{"A": nil},
		expScores: map[linkgraph.Page]float64{"A": 1.0},
	})
}

func (s *IteratorTestSuite) TestTwoPageCycle(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr: `
 (A) <-> (B)
`,
		links: map[linkgraph.Page][]linkgraph.Page{
			"A": {"B"},
			"B": {"A"},
		},
		expScores: map[linkgraph.Page]float64{"A": 0.5, "B": 0.5},
	})
}

func (s *IteratorTestSuite) TestThreePageCycle(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr: `
 (A) -> (B) -> (C)
  ^             |
  |             |
  +-------------+

Expect PageRank score to be distributed evenly across the three nodes.
`,
		links: map[linkgraph.Page][]linkgraph.Page{
			"A": {"B"},
			"B": {"C"},
			"C": {"A"},
		},
		expScores: map[linkgraph.Page]float64{
			"A": 1.0 / 3.0,
			"B": 1.0 / 3.0,
			"C": 1.0 / 3.0,
		},
	})
}

func (s *IteratorTestSuite) TestBackLinks(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr: `
  +--(A)<-+
  |       |
  V       |
 (B) <-> (C)

Expect B and C to get better score than A due to the back-link between them.
Also, B should get slightly better score than C as there are two links pointing
to it.
`,
		links: map[linkgraph.Page][]linkgraph.Page{
			"A": {"B"},
			"B": {"C"},
			"C": {"A", "B"},
		},
		expScores: map[linkgraph.Page]float64{
			"A": 0.2145,
			"B": 0.3937,
			"C": 0.3879,
		},
	})
}

func (s *IteratorTestSuite) TestChain(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr: `
 (A) <-> (B) <-> (C)

Expect A and C to get the same score and B to get the largest score since there
are two links pointing to it.
`,
		links: map[linkgraph.Page][]linkgraph.Page{
			"A": {"B"},
			"B": {"A", "C"},
			"C": {"B"},
		},
		expScores: map[linkgraph.Page]float64{
			"A": 0.2569,
			"B": 0.4860,
			"C": 0.2569,
		},
	})
}

func (s *IteratorTestSuite) TestDeadEnd(c *gc.C) {
	s.assertScores(c, iterSpec{
		descr: `
 (A) -> (B) -> (C)

C is a dead-end as it has no outgoing links. It is treated as linking to every
page (itself included) so it still passes its score on and keeps a positive
score of its own.
`,
		links: map[linkgraph.Page][]linkgraph.Page{
			"A": {"B"},
			"B": {"C"},
			"C": nil,
		},
		expScores: map[linkgraph.Page]float64{
			"A": 0.1842,
			"B": 0.3411,
			"C": 0.4745,
		},
	})
}

func (s *IteratorTestSuite) TestDeadEndRewriteIsNotVisibleToCaller(c *gc.C) {
	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{
		"A": {"B"},
		"B": {"C"},
		"C": nil,
	})

	scores, err := pagerank.IterateRank(g, 0.85)
	c.Assert(err, gc.IsNil)
	c.Assert(scores["C"] > 0, gc.Equals, true)
	c.Assert(g.Links("C"), gc.IsNil)
	c.Assert(g.OutDegree("C"), gc.Equals, 0)

	// The transition model still sees C as a page without links.
	dist, err := pagerank.Transition(g, "C", 0.85)
	c.Assert(err, gc.IsNil)
	c.Assert(dist["A"], gc.Equals, 1.0/3.0)
}

func (s *IteratorTestSuite) TestDeterministic(c *gc.C) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 10; round++ {
		g := randomGraph(rnd, 1+rnd.Intn(50), 6)

		first, err := pagerank.IterateRank(g, 0.85)
		c.Assert(err, gc.IsNil)
		second, err := pagerank.IterateRank(g, 0.85)
		c.Assert(err, gc.IsNil)

		c.Assert(first, gc.DeepEquals, second)
		c.Assert(first, gc.HasLen, g.Len())
		c.Assert(math.Abs(first.Sum()-1.0) <= 1e-6, gc.Equals, true, gc.Commentf("sum %v", first.Sum()))
	}
}

func (s *IteratorTestSuite) TestMatchesGonumPageRank(c *gc.C) {
	// Example graph from http://en.wikipedia.org/w/index.php?title=PageRank&oldid=659286279#Power_Method
	edges := map[int64][]int64{
		0: {1, 2},
		1: {3},
		2: {3, 4},
		3: {4},
		4: {0},
	}

	ref := simple.NewDirectedGraph()
	links := make(map[linkgraph.Page][]linkgraph.Page)
	for src, dsts := range edges {
		if ref.Node(src) == nil {
			ref.AddNode(simple.Node(src))
		}
		links[pageName(src)] = nil
		for _, dst := range dsts {
			if ref.Node(dst) == nil {
				ref.AddNode(simple.Node(dst))
			}
			ref.SetEdge(simple.Edge{F: simple.Node(src), T: simple.Node(dst)})
			links[pageName(src)] = append(links[pageName(src)], pageName(dst))
		}
	}

	exp := network.PageRank(ref, 0.8, 1e-8)
	got, err := pagerank.IterateRank(linkgraph.New(links), 0.8)
	c.Assert(err, gc.IsNil)

	for id, expScore := range exp {
		absDelta := math.Abs(got[pageName(id)] - expScore)
		c.Assert(absDelta <= 0.01, gc.Equals, true, gc.Commentf("page %d: expected %f; got %f", id, expScore, got[pageName(id)]))
	}
}

func (s *IteratorTestSuite) TestInvalidArguments(c *gc.C) {
	_, err := pagerank.IterateRank(linkgraph.New(nil), 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidArgument), gc.Equals, true, gc.Commentf("got %v", err))

	_, err = pagerank.IterateRank(nil, 0.85)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidArgument), gc.Equals, true, gc.Commentf("got %v", err))

	g := linkgraph.New(map[linkgraph.Page][]linkgraph.Page{"A": nil})
	_, err = pagerank.IterateRank(g, 2)
	c.Assert(xerrors.Is(err, pagerank.ErrInvalidArgument), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *IteratorTestSuite) assertScores(c *gc.C, spec iterSpec) {
	c.Log(spec.descr)

	scores, err := pagerank.IterateRank(linkgraph.New(spec.links), 0.85)
	c.Assert(err, gc.IsNil)
	assertDistribution(c, scores, spec.expScores, 0.01)
	c.Assert(math.Abs(scores.Sum()-1.0) <= 1e-6, gc.Equals, true, gc.Commentf("expected all pagerank scores to add up to 1.0; got %f", scores.Sum()))
}

func pageName(id int64) linkgraph.Page {
	return linkgraph.Page(strconv.FormatInt(id, 10))
}
