package crawl

import (
	"context"
	"html"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/xerrors"
)

var (
	hrefRegex          = regexp.MustCompile(`<a\s+(?:[^>]*?)href="([^"]*)"`)
	titleRegex         = regexp.MustCompile(`(?i)<title.*?>(.*?)</title>`)
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)
)

// document is the item passed between the stages of the crawl pipeline.
type document struct {
	Path    string
	Page    linkgraph.Page
	Content string
	Links   []linkgraph.Page
	Title   string
}

// fileReader loads the contents of a corpus file.
type fileReader struct{}

func (fileReader) Process(_ context.Context, doc *document) (*document, bool, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, false, xerrors.Errorf("read %q: %w", doc.Path, err)
	}
	doc.Content = string(data)
	return doc, true, nil
}

// linkExtractor collects the unique href targets of all anchors in a
// document, excluding links back to the document itself.
type linkExtractor struct{}

func (linkExtractor) Process(_ context.Context, doc *document) (*document, bool, error) {
	seen := make(map[linkgraph.Page]struct{})
	for _, match := range hrefRegex.FindAllStringSubmatch(doc.Content, -1) {
		link := linkgraph.Page(match[1])
		if link == doc.Page {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		doc.Links = append(doc.Links, link)
	}
	return doc, true, nil
}

// titleExtractor populates the document title with the sanitized text of
// its <title> element, if present.
type titleExtractor struct {
	policyPool sync.Pool
}

func newTitleExtractor() *titleExtractor {
	return &titleExtractor{
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

func (te *titleExtractor) Process(_ context.Context, doc *document) (*document, bool, error) {
	match := titleRegex.FindStringSubmatch(doc.Content)
	if len(match) != 2 {
		return doc, true, nil
	}

	policy := te.policyPool.Get().(*bluemonday.Policy)
	doc.Title = strings.TrimSpace(html.UnescapeString(
		repeatedSpaceRegex.ReplaceAllString(policy.Sanitize(match[1]), " "),
	))
	te.policyPool.Put(policy)
	return doc, true, nil
}
