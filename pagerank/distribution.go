package pagerank

import (
	"math"
	"sort"

	"github.com/linksrus/corpusrank/linkgraph"
	"gonum.org/v1/gonum/floats"
)

// Distribution maps each page of a link graph to a probability. The values
// of a Distribution produced by this package sum to 1.
type Distribution map[linkgraph.Page]float64

// Pages returns the pages of the distribution in sorted order.
func (d Distribution) Pages() []linkgraph.Page {
	pages := make([]linkgraph.Page, 0, len(d))
	for p := range d {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	return pages
}

// Sum returns the sum of all probabilities. Values are added in sorted page
// order so the result does not depend on map iteration order.
func (d Distribution) Sum() float64 {
	return floats.Sum(d.values(d.Pages()))
}

// Normalize scales the distribution in place so its values sum to 1. It is a
// no-op if the values sum to zero.
func (d Distribution) Normalize() {
	sum := d.Sum()
	if sum == 0 {
		return
	}
	for p, v := range d {
		d[p] = v / sum
	}
}

func (d Distribution) values(pages []linkgraph.Page) []float64 {
	out := make([]float64, len(pages))
	for i, p := range pages {
		out[i] = d[p]
	}
	return out
}

// Distance returns the L1 distance between two distributions. Pages missing
// from either distribution are treated as having a zero probability.
func Distance(a, b Distribution) float64 {
	union := make(Distribution, len(a))
	for p := range a {
		union[p] = 0
	}
	for p := range b {
		union[p] = 0
	}

	pages := union.Pages()
	return floats.Distance(a.values(pages), b.values(pages), 1)
}

// MaxDelta returns the largest absolute per-page difference between two
// distributions.
func MaxDelta(a, b Distribution) float64 {
	var maxDelta float64
	for p, v := range a {
		maxDelta = math.Max(maxDelta, math.Abs(v-b[p]))
	}
	for p, v := range b {
		if _, found := a[p]; !found {
			maxDelta = math.Max(maxDelta, math.Abs(v))
		}
	}
	return maxDelta
}
