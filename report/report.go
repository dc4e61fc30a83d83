// Package report renders the output of a ranking pass.
package report

import (
	"io"
	"sort"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	"golang.org/x/xerrors"
)

// ErrUnknownFormat is returned by New for unsupported output formats.
var ErrUnknownFormat = xerrors.New("unknown report format")

// Supported output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Report holds the scores computed by both estimators for a single corpus.
type Report struct {
	// The number of samples used by the sampling estimator.
	Samples int `json:"samples"`

	// The number of sweeps the iterative estimator needed to converge.
	Iterations int `json:"iterations"`

	Sampling  pagerank.Distribution     `json:"sampling"`
	Iteration pagerank.Distribution     `json:"iteration"`
	Titles    map[linkgraph.Page]string `json:"titles,omitempty"`
}

// Pages returns the sorted union of the pages scored by either estimator.
func (r *Report) Pages() []linkgraph.Page {
	seen := make(map[linkgraph.Page]struct{}, len(r.Iteration))
	var pages []linkgraph.Page
	for _, d := range []pagerank.Distribution{r.Sampling, r.Iteration} {
		for page := range d {
			if _, ok := seen[page]; ok {
				continue
			}
			seen[page] = struct{}{}
			pages = append(pages, page)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	return pages
}

// Writer is implemented by types that render a Report.
type Writer interface {
	Write(r *Report) error
}

// New returns a Writer for the named format that writes to out.
func New(format string, out io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(out), nil
	case FormatMarkdown:
		return NewMarkdownWriter(out), nil
	case FormatJSON:
		return NewJSONWriter(out), nil
	default:
		return nil, xerrors.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}
