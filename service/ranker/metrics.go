package ranker

import (
	"github.com/linksrus/corpusrank/pagerank"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	methodSampling  = "sampling"
	methodIteration = "iteration"
)

type metrics struct {
	passes       *prometheus.CounterVec
	passDuration prometheus.Histogram
	iterations   prometheus.Gauge
	pages        prometheus.Gauge
	ranks        *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corpusrank",
			Name:      "ranker_passes_total",
			Help:      "The total number of ranking passes by outcome",
		}, []string{"outcome"}),
		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "corpusrank",
			Name:      "ranker_pass_duration_seconds",
			Help:      "The time taken by successful ranking passes",
			Buckets:   prometheus.DefBuckets,
		}),
		iterations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "corpusrank",
			Name:      "ranker_iterations",
			Help:      "The number of sweeps needed by the last iterative estimate",
		}),
		pages: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "corpusrank",
			Name:      "ranker_pages",
			Help:      "The number of pages in the last ranked corpus",
		}),
		ranks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "corpusrank",
			Name:      "page_rank",
			Help:      "The PageRank score of each page by estimation method",
		}, []string{"method", "page"}),
	}
}

func (m *metrics) recordRanks(sampling, iteration pagerank.Distribution) {
	// Pages removed from the corpus must not keep reporting stale scores.
	m.ranks.Reset()
	for page, score := range sampling {
		m.ranks.WithLabelValues(methodSampling, string(page)).Set(score)
	}
	for page, score := range iteration {
		m.ranks.WithLabelValues(methodIteration, string(page)).Set(score)
	}
}
