// Package ranker implements a service that periodically crawls a corpus and
// recomputes its PageRank scores.
package ranker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linksrus/corpusrank/report"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Result describes the outcome of a successful ranking pass.
type Result struct {
	PassID     uuid.UUID
	ComputedAt time.Time
	Report     *report.Report
}

// Service implements the ranker component of the corpusrank server.
type Service struct {
	cfg     Config
	metrics *metrics

	mu     sync.RWMutex
	latest *Result
}

// NewService creates a new ranker service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("ranker service: config validation failed: %w", err)
	}

	return &Service{
		cfg:     cfg,
		metrics: newMetrics(cfg.Registerer),
	}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "ranker" }

// Latest returns the result of the most recent successful ranking pass or
// nil if no pass has completed yet.
func (svc *Service) Latest() *Result {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.latest
}

// Run implements service.Service. A ranking pass is executed immediately and
// then every UpdateInterval or whenever the notifier reports a change. Failed
// passes are logged and the previous result is kept.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("update_interval", svc.cfg.UpdateInterval.String()).Info("starting service")
	defer svc.cfg.Logger.Info("stopped service")

	var changeCh <-chan struct{}
	if svc.cfg.Notifier != nil {
		changeCh = svc.cfg.Notifier.Changes()
	}

	svc.runPass(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.UpdateInterval):
			svc.runPass(ctx, "schedule")
		case <-changeCh:
			svc.runPass(ctx, "corpus change")
		}
	}
}

func (svc *Service) runPass(ctx context.Context, trigger string) {
	passID := uuid.New()
	logger := svc.cfg.Logger.WithFields(logrus.Fields{
		"pass_id": passID.String(),
		"trigger": trigger,
	})

	res, err := svc.rank(ctx, passID)
	if err != nil {
		svc.metrics.passes.WithLabelValues(outcomeFailure).Inc()
		if ctx.Err() != nil {
			return
		}
		logger.WithField("err", err).Error("ranking pass failed; keeping previous result")
		return
	}

	svc.mu.Lock()
	svc.latest = res
	svc.mu.Unlock()
}

func (svc *Service) rank(ctx context.Context, passID uuid.UUID) (*Result, error) {
	span := svc.cfg.Tracer.StartSpan("ranker.pass")
	span.SetTag("pass_id", passID.String())
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	startAt := svc.cfg.Clock.Now()
	res, err := svc.compute(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("event", "error", "message", err.Error())
		return nil, err
	}
	passTime := svc.cfg.Clock.Now().Sub(startAt)

	svc.metrics.passes.WithLabelValues(outcomeSuccess).Inc()
	svc.metrics.passDuration.Observe(passTime.Seconds())
	svc.metrics.iterations.Set(float64(res.Iterations))
	svc.metrics.pages.Set(float64(len(res.Iteration)))
	svc.metrics.recordRanks(res.Sampling, res.Iteration)

	svc.cfg.Logger.WithFields(logrus.Fields{
		"pass_id":         passID.String(),
		"pages":           len(res.Iteration),
		"iterations":      res.Iterations,
		"total_pass_time": passTime.String(),
	}).Info("completed ranking pass")

	return &Result{PassID: passID, ComputedAt: svc.cfg.Clock.Now(), Report: res}, nil
}

func (svc *Service) compute(ctx context.Context) (*report.Report, error) {
	crawlSpan, crawlCtx := opentracing.StartSpanFromContextWithTracer(ctx, svc.cfg.Tracer, "ranker.crawl")
	corpus, err := svc.cfg.Loader.Load(crawlCtx)
	crawlSpan.Finish()
	if err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}

	sampleSpan, _ := opentracing.StartSpanFromContextWithTracer(ctx, svc.cfg.Tracer, "ranker.sample")
	sampled, err := svc.cfg.Calculator.Sample(corpus.Graph)
	sampleSpan.Finish()
	if err != nil {
		return nil, xerrors.Errorf("sample ranks: %w", err)
	}

	iterSpan, _ := opentracing.StartSpanFromContextWithTracer(ctx, svc.cfg.Tracer, "ranker.iterate")
	iterated, err := svc.cfg.Calculator.Iterate(corpus.Graph)
	iterSpan.Finish()
	if err != nil {
		return nil, xerrors.Errorf("iterate ranks: %w", err)
	}

	return &report.Report{
		Samples:    svc.cfg.Calculator.Config().NumSamples,
		Iterations: iterated.Iterations,
		Sampling:   sampled,
		Iteration:  iterated.Scores,
		Titles:     corpus.Titles,
	}, nil
}
