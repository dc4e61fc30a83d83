package linkgraph

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Page is an opaque identifier for a page in the corpus (typically the
// name of the file it was read from).
type Page string

// Graph is an immutable mapping from each page in a corpus to the set of
// pages it links to. Self-links and links that point outside the corpus are
// never part of a Graph.
//
// Pages are kept in sorted order; every method that returns pages returns
// them in that order so callers can rely on a fixed iteration order.
type Graph struct {
	pages []Page
	index map[Page]int
	links []mapset.Set[Page]
}

// New builds a Graph from a page -> outbound links mapping. Every key of
// links becomes a page of the graph. Link targets that are not keys of links
// and links from a page to itself are discarded. Duplicate targets are
// collapsed.
func New(links map[Page][]Page) *Graph {
	b := NewBuilder()
	for src, targets := range links {
		b.AddPage(src)
		for _, dst := range targets {
			b.AddLink(src, dst)
		}
	}
	return b.Build()
}

// Len returns the number of pages in the graph.
func (g *Graph) Len() int { return len(g.pages) }

// Pages returns a sorted copy of the graph pages.
func (g *Graph) Pages() []Page {
	return append([]Page(nil), g.pages...)
}

// Has returns true if p is a page of the graph.
func (g *Graph) Has(p Page) bool {
	_, found := g.index[p]
	return found
}

// Index returns the position of p in the sorted page list.
func (g *Graph) Index(p Page) (int, bool) {
	idx, found := g.index[p]
	return idx, found
}

// Links returns a sorted copy of the outbound links of p. It returns nil if
// p is not part of the graph or has no outbound links.
func (g *Graph) Links(p Page) []Page {
	idx, found := g.index[p]
	if !found || g.links[idx].Cardinality() == 0 {
		return nil
	}
	return sortedPages(g.links[idx].ToSlice())
}

// OutDegree returns the number of outbound links of p.
func (g *Graph) OutDegree(p Page) int {
	idx, found := g.index[p]
	if !found {
		return 0
	}
	return g.links[idx].Cardinality()
}

// LinksTo returns true if src contains a link to dst.
func (g *Graph) LinksTo(src, dst Page) bool {
	idx, found := g.index[src]
	if !found {
		return false
	}
	return g.links[idx].Contains(dst)
}

// Map returns a copy of the graph as a page -> sorted outbound links mapping.
// Pages without outbound links map to an empty (non-nil) slice.
func (g *Graph) Map() map[Page][]Page {
	out := make(map[Page][]Page, len(g.pages))
	for _, p := range g.pages {
		links := g.Links(p)
		if links == nil {
			links = []Page{}
		}
		out[p] = links
	}
	return out
}

func sortedPages(pages []Page) []Page {
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	return pages
}
