// Package crawl builds a link graph from a directory of HTML pages.
package crawl

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pipeline"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Result holds the outcome of crawling a corpus.
type Result struct {
	Graph *linkgraph.Graph

	// Titles maps each page to the text of its <title> element. Pages
	// without a title are not present.
	Titles map[linkgraph.Page]string
}

// Corpus crawls the regular ".html" files that live directly inside dir and
// returns the link graph they describe. Each file name is a page; links that
// point outside the corpus and links from a page to itself are dropped.
func Corpus(ctx context.Context, dir string, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("crawl config validation failed: %w", err)
	}

	files, err := listPages(dir)
	if err != nil {
		return nil, err
	}

	p := pipeline.New[*document](
		pipeline.FixedWorkerPool[*document](fileReader{}, cfg.ReadWorkers),
		pipeline.FIFO[*document](linkExtractor{}),
		pipeline.FIFO[*document](newTitleExtractor()),
	)

	sink := newGraphSink()
	if err = p.Process(ctx, &fileSource{dir: dir, files: files}, sink); err != nil {
		return nil, xerrors.Errorf("crawl %q: %w", dir, err)
	}

	res := &Result{Graph: sink.builder.Build(), Titles: sink.titles}
	cfg.Logger.WithFields(logrus.Fields{
		"dir":   dir,
		"pages": res.Graph.Len(),
	}).Debug("crawled corpus")
	return res, nil
}

func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("list corpus dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// fileSource emits a document for each corpus file name.
type fileSource struct {
	dir   string
	files []string
	next  int
	cur   *document
}

func (s *fileSource) Next(context.Context) bool {
	if s.next >= len(s.files) {
		return false
	}
	name := s.files[s.next]
	s.next++
	s.cur = &document{Path: filepath.Join(s.dir, name), Page: linkgraph.Page(name)}
	return true
}

func (s *fileSource) Item() *document { return s.cur }
func (s *fileSource) Error() error    { return nil }

// graphSink accumulates crawled documents into a graph builder. The pipeline
// invokes Consume from a single goroutine.
type graphSink struct {
	builder *linkgraph.Builder
	titles  map[linkgraph.Page]string
}

func newGraphSink() *graphSink {
	return &graphSink{
		builder: linkgraph.NewBuilder(),
		titles:  make(map[linkgraph.Page]string),
	}
}

func (s *graphSink) Consume(_ context.Context, doc *document) error {
	s.builder.AddPage(doc.Page)
	for _, link := range doc.Links {
		s.builder.AddLink(doc.Page, link)
	}
	if doc.Title != "" {
		s.titles[doc.Page] = doc.Title
	}
	return nil
}
