package pagerank

import (
	"math"

	"github.com/linksrus/corpusrank/linkgraph"
	"golang.org/x/xerrors"
)

// IterationResult describes the outcome of a run of the iterative PageRank
// estimator.
type IterationResult struct {
	// The normalized PageRank scores.
	Scores Distribution

	// The number of iterations executed until convergence.
	Iterations int

	// The largest per-page score change observed in the last iteration.
	MaxDelta float64
}

// IterateRank calculates PageRank scores by repeatedly applying the PageRank
// recurrence until no page score changes by more than
// DefaultMinDeltaForConvergence between two iterations. It fails with
// ErrConvergence if that does not happen within DefaultMaxIterations.
func IterateRank(g *linkgraph.Graph, dampingFactor float64) (Distribution, error) {
	res, err := iterate(g, dampingFactor, DefaultMinDeltaForConvergence, DefaultMaxIterations)
	if err != nil {
		return nil, err
	}
	return res.Scores, nil
}

// iterate runs the synchronous PageRank fixed-point iteration: each pass
// computes all new scores from the scores of the previous pass.
//
// Pages without outbound links are treated as if they link to every page in
// the graph (themselves included). The rewrite only affects the adjacency
// lists built here; g is never modified.
func iterate(g *linkgraph.Graph, dampingFactor, minDelta float64, maxIterations int) (*IterationResult, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}

	var (
		pages     = g.Pages()
		pageCount = len(pages)
		inbound   = make([][]int, pageCount)
		outDegree = make([]float64, pageCount)
	)
	for src, page := range pages {
		links := g.Links(page)
		if len(links) == 0 {
			outDegree[src] = float64(pageCount)
			for dst := range pages {
				inbound[dst] = append(inbound[dst], src)
			}
			continue
		}

		outDegree[src] = float64(len(links))
		for _, link := range links {
			dst, _ := g.Index(link)
			inbound[dst] = append(inbound[dst], src)
		}
	}

	var (
		teleport = (1.0 - dampingFactor) / float64(pageCount)
		prev     = make([]float64, pageCount)
		next     = make([]float64, pageCount)
		maxDelta float64
	)
	for i := range prev {
		prev[i] = 1.0 / float64(pageCount)
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		maxDelta = 0
		for dst := range pages {
			var sum float64
			for _, src := range inbound[dst] {
				sum += prev[src] / outDegree[src]
			}
			next[dst] = teleport + dampingFactor*sum
			maxDelta = math.Max(maxDelta, math.Abs(next[dst]-prev[dst]))
		}
		prev, next = next, prev

		if maxDelta < minDelta {
			scores := make(Distribution, pageCount)
			for i, p := range pages {
				scores[p] = prev[i]
			}
			scores.Normalize()

			return &IterationResult{
				Scores:     scores,
				Iterations: iteration,
				MaxDelta:   maxDelta,
			}, nil
		}
	}

	return nil, xerrors.Errorf(
		"iterate rank: max score delta still %v after %d iterations (threshold %v): %w",
		maxDelta, maxIterations, minDelta, ErrConvergence,
	)
}
