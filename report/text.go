package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/linksrus/corpusrank/pagerank"
)

// TextWriter renders reports as plain text, one "page: score" line per
// page for each estimator.
type TextWriter struct {
	out io.Writer
}

// NewTextWriter creates a TextWriter that outputs to out.
func NewTextWriter(out io.Writer) *TextWriter {
	return &TextWriter{out: out}
}

// Write implements Writer.
func (w *TextWriter) Write(r *Report) error {
	bw := bufio.NewWriter(w.out)
	fmt.Fprintf(bw, "PageRank Results from Sampling (n = %d)\n", r.Samples)
	writeScores(bw, r.Sampling)
	fmt.Fprintln(bw, "PageRank Results from Iteration")
	writeScores(bw, r.Iteration)
	return bw.Flush()
}

func writeScores(w io.Writer, d pagerank.Distribution) {
	for _, page := range d.Pages() {
		fmt.Fprintf(w, "  %s: %.4f\n", page, d[page])
	}
}
