package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/nao1215/markdown"
)

// cellEscaper keeps cell text from terminating a table cell early.
var cellEscaper = strings.NewReplacer("|", `\|`)

// MarkdownWriter renders reports as a markdown document with a single table
// comparing both estimators.
type MarkdownWriter struct {
	out io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to out.
func NewMarkdownWriter(out io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: out}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(r *Report) error {
	pages := r.Pages()
	md := markdown.NewMarkdown(w.out)
	md.H1("PageRank Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(len(pages))},
			{"Samples", strconv.Itoa(r.Samples)},
			{"Iterations", strconv.Itoa(r.Iterations)},
		},
	})
	md.PlainText("")

	md.H2("Scores")
	md.PlainText("")

	if len(pages) == 0 {
		md.PlainText("The corpus contains no pages.")
		return md.Build()
	}

	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, []string{
			"`" + cellEscaper.Replace(string(page)) + "`",
			cellEscaper.Replace(r.Titles[page]),
			formatScore(r.Sampling, page),
			formatScore(r.Iteration, page),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Title", "Sampling", "Iteration"},
		Rows:   rows,
	})
	return md.Build()
}

func formatScore(d map[linkgraph.Page]float64, page linkgraph.Page) string {
	score, ok := d[page]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4f", score)
}
