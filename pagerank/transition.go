package pagerank

import (
	"github.com/linksrus/corpusrank/linkgraph"
	"golang.org/x/xerrors"
)

// Transition returns the probability distribution over the page a random
// surfer visits next, given that it currently is at page.
//
// With probability dampingFactor the surfer follows one of the outbound
// links of page (chosen uniformly); otherwise it teleports to a page chosen
// uniformly from the whole graph. A surfer on a page without outbound links
// always teleports.
func Transition(g *linkgraph.Graph, page linkgraph.Page, dampingFactor float64) (Distribution, error) {
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, err
	}
	if g == nil || !g.Has(page) {
		return nil, xerrors.Errorf("transition: page %q is not part of the link graph: %w", page, ErrInvalidPage)
	}

	pages := g.Pages()
	row := transitionRow(g, pages, page, dampingFactor)
	dist := make(Distribution, len(pages))
	for i, p := range pages {
		dist[p] = row[i]
	}
	return dist, nil
}

// transitionRow returns the transition probabilities out of page, indexed
// by the position of each target in pages.
func transitionRow(g *linkgraph.Graph, pages []linkgraph.Page, page linkgraph.Page, dampingFactor float64) []float64 {
	var (
		pageCount = float64(len(pages))
		numLinks  = g.OutDegree(page)
		row       = make([]float64, len(pages))
	)

	if numLinks == 0 {
		for i := range row {
			row[i] = 1.0 / pageCount
		}
		return row
	}

	teleport := (1.0 - dampingFactor) / pageCount
	follow := dampingFactor / float64(numLinks)
	for i, p := range pages {
		row[i] = teleport
		if g.LinksTo(page, p) {
			row[i] += follow
		}
	}
	return row
}

func checkDampingFactor(dampingFactor float64) error {
	// The negated form also rejects NaN.
	if !(dampingFactor >= 0 && dampingFactor <= 1.0) {
		return xerrors.Errorf("damping factor %v is outside the range [0, 1]: %w", dampingFactor, ErrInvalidArgument)
	}
	return nil
}

func checkGraph(g *linkgraph.Graph) error {
	if g == nil || g.Len() == 0 {
		return xerrors.Errorf("link graph contains no pages: %w", ErrInvalidArgument)
	}
	return nil
}
