package pagerank_test

import (
	"math"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(DistributionTestSuite))

type DistributionTestSuite struct{}

func (s *DistributionTestSuite) TestPagesAreSorted(c *gc.C) {
	d := pagerank.Distribution{"c": 0.2, "a": 0.5, "b": 0.3}
	c.Assert(d.Pages(), gc.DeepEquals, []linkgraph.Page{"a", "b", "c"})
}

func (s *DistributionTestSuite) TestNormalize(c *gc.C) {
	d := pagerank.Distribution{"a": 2, "b": 6}
	d.Normalize()
	c.Assert(d, gc.DeepEquals, pagerank.Distribution{"a": 0.25, "b": 0.75})
	c.Assert(d.Sum(), gc.Equals, 1.0)

	zero := pagerank.Distribution{"a": 0, "b": 0}
	zero.Normalize()
	c.Assert(zero, gc.DeepEquals, pagerank.Distribution{"a": 0, "b": 0})
}

func (s *DistributionTestSuite) TestDistance(c *gc.C) {
	a := pagerank.Distribution{"a": 0.5, "b": 0.5}
	b := pagerank.Distribution{"a": 0.25, "b": 0.5, "c": 0.25}

	c.Assert(pagerank.Distance(a, a), gc.Equals, 0.0)
	c.Assert(math.Abs(pagerank.Distance(a, b)-0.5) < 1e-12, gc.Equals, true)
	c.Assert(pagerank.Distance(a, b), gc.Equals, pagerank.Distance(b, a))
}

func (s *DistributionTestSuite) TestMaxDelta(c *gc.C) {
	a := pagerank.Distribution{"a": 0.5, "b": 0.5}
	b := pagerank.Distribution{"a": 0.4, "b": 0.3, "c": 0.3}

	c.Assert(math.Abs(pagerank.MaxDelta(a, b)-0.3) < 1e-12, gc.Equals, true)
	c.Assert(math.Abs(pagerank.MaxDelta(b, a)-0.3) < 1e-12, gc.Equals, true)
}
