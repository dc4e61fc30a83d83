package linkgraph

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Builder collects pages and links and produces an immutable Graph. Links
// may be added before their target pages are known; targets that are still
// unknown when Build is called are dropped.
//
// Builder instances are not safe for concurrent use.
type Builder struct {
	pages mapset.Set[Page]
	links map[Page]mapset.Set[Page]
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		pages: mapset.NewThreadUnsafeSet[Page](),
		links: make(map[Page]mapset.Set[Page]),
	}
}

// AddPage registers p as a page of the corpus.
func (b *Builder) AddPage(p Page) {
	b.pages.Add(p)
}

// AddLink registers a link from src to dst and implicitly adds src as a
// page. Self-links are ignored.
func (b *Builder) AddLink(src, dst Page) {
	b.pages.Add(src)
	if src == dst {
		return
	}

	set, exists := b.links[src]
	if !exists {
		set = mapset.NewThreadUnsafeSet[Page]()
		b.links[src] = set
	}
	set.Add(dst)
}

// Build returns a Graph with the pages and links collected so far. The
// builder can still be used after a call to Build; the returned graph does
// not share any state with it.
func (b *Builder) Build() *Graph {
	pages := sortedPages(b.pages.ToSlice())
	g := &Graph{
		pages: pages,
		index: make(map[Page]int, len(pages)),
		links: make([]mapset.Set[Page], len(pages)),
	}
	for i, p := range pages {
		g.index[p] = i
	}

	for i, p := range pages {
		retained := mapset.NewThreadUnsafeSet[Page]()
		if targets, exists := b.links[p]; exists {
			targets.Each(func(dst Page) bool {
				// Only keep links to pages inside the corpus.
				if b.pages.Contains(dst) {
					retained.Add(dst)
				}
				return false
			})
		}
		g.links[i] = retained
	}

	return g
}
