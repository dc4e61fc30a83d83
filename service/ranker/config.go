package ranker

import (
	"context"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/linksrus/corpusrank/linkgraph/crawl"
	"github.com/linksrus/corpusrank/pagerank"
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/corpusrank/service/ranker Loader,ChangeNotifier

// Loader produces a fresh crawl of the corpus being ranked.
type Loader interface {
	Load(ctx context.Context) (*crawl.Result, error)
}

// ChangeNotifier signals that the corpus may have changed and should be
// ranked again.
type ChangeNotifier interface {
	Changes() <-chan struct{}
}

// CorpusLoader is a Loader that crawls a directory of HTML pages.
type CorpusLoader struct {
	Dir   string
	Crawl crawl.Config
}

// Load implements Loader.
func (l CorpusLoader) Load(ctx context.Context) (*crawl.Result, error) {
	return crawl.Corpus(ctx, l.Dir, l.Crawl)
}

// Config encapsulates the settings for configuring the ranker service.
type Config struct {
	// The source of the corpus to rank.
	Loader Loader

	// The calculator used to estimate PageRank scores.
	Calculator *pagerank.Calculator

	// An optional notifier that triggers a ranking pass outside the
	// regular update schedule.
	Notifier ChangeNotifier

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The time between subsequent ranking passes.
	UpdateInterval time.Duration

	// The tracer for ranking pass spans. Defaults to a no-op tracer.
	Tracer opentracing.Tracer

	// The registry for the service metrics. Defaults to a private registry
	// that is never exported.
	Registerer prometheus.Registerer

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Loader == nil {
		err = multierror.Append(err, xerrors.Errorf("corpus loader has not been provided"))
	}
	if cfg.Calculator == nil {
		err = multierror.Append(err, xerrors.Errorf("calculator has not been provided"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.UpdateInterval <= 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for update interval"))
	}
	if cfg.Tracer == nil {
		cfg.Tracer = opentracing.NoopTracer{}
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}
