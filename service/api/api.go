// Package api exposes the latest ranking results over HTTP.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/linksrus/corpusrank/linkgraph"
	"github.com/linksrus/corpusrank/pagerank"
	"github.com/linksrus/corpusrank/report"
	"github.com/linksrus/corpusrank/service/ranker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/corpusrank/service/api RanksAPI

const (
	ranksEndpoint     = "/ranks"
	methodEndpoint    = "/ranks/{method}"
	pageScoreEndpoint = "/ranks/{method}/{page}"
	metricsEndpoint   = "/metrics"
)

// RanksAPI provides access to the most recent ranking result.
type RanksAPI interface {
	// Latest returns nil until the first ranking pass completes.
	Latest() *ranker.Result
}

// Config encapsulates the settings for configuring the API service.
type Config struct {
	// An API for retrieving ranking results.
	Ranks RanksAPI

	// The source of the metrics served at /metrics. If not specified, the
	// default prometheus registry will be used instead.
	Gatherer prometheus.Gatherer

	// The address to listen for incoming requests.
	ListenAddr string

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Ranks == nil {
		err = multierror.Append(err, xerrors.Errorf("ranks API has not been provided"))
	}
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Service serves ranking results as JSON.
type Service struct {
	cfg    Config
	router *mux.Router
}

// NewService creates a new API service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("api service: config validation failed: %w", err)
	}

	svc := &Service{
		cfg:    cfg,
		router: mux.NewRouter(),
	}
	svc.router.HandleFunc(ranksEndpoint, svc.getRanks).Methods("GET")
	svc.router.HandleFunc(methodEndpoint, svc.getMethodRanks).Methods("GET")
	svc.router.HandleFunc(pageScoreEndpoint, svc.getPageScore).Methods("GET")
	svc.router.Handle(metricsEndpoint, promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	svc.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		svc.writeError(w, http.StatusNotFound, "not found")
	})
	return svc, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "api" }

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:              svc.cfg.ListenAddr,
		Handler:           svc.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	svc.cfg.Logger.WithField("addr", l.Addr().String()).Info("starting API server")
	if err = srv.Serve(l); err == http.ErrServerClosed {
		// Ignore error when the server shuts down.
		err = nil
	}
	return err
}

type ranksResponse struct {
	PassID     string    `json:"pass_id"`
	ComputedAt time.Time `json:"computed_at"`
	*report.Report
}

type methodResponse struct {
	PassID string                `json:"pass_id"`
	Method string                `json:"method"`
	Scores pagerank.Distribution `json:"scores"`
}

type pageScoreResponse struct {
	PassID string  `json:"pass_id"`
	Method string  `json:"method"`
	Page   string  `json:"page"`
	Title  string  `json:"title,omitempty"`
	Score  float64 `json:"score"`
}

func (svc *Service) getRanks(w http.ResponseWriter, _ *http.Request) {
	res := svc.latest(w)
	if res == nil {
		return
	}
	svc.writeJSON(w, ranksResponse{
		PassID:     res.PassID.String(),
		ComputedAt: res.ComputedAt,
		Report:     res.Report,
	})
}

func (svc *Service) getMethodRanks(w http.ResponseWriter, r *http.Request) {
	res := svc.latest(w)
	if res == nil {
		return
	}
	method := mux.Vars(r)["method"]
	scores, ok := scoresFor(res.Report, method)
	if !ok {
		svc.writeError(w, http.StatusNotFound, "unknown method "+method)
		return
	}
	svc.writeJSON(w, methodResponse{PassID: res.PassID.String(), Method: method, Scores: scores})
}

func (svc *Service) getPageScore(w http.ResponseWriter, r *http.Request) {
	res := svc.latest(w)
	if res == nil {
		return
	}
	vars := mux.Vars(r)
	method, page := vars["method"], linkgraph.Page(vars["page"])
	scores, ok := scoresFor(res.Report, method)
	if !ok {
		svc.writeError(w, http.StatusNotFound, "unknown method "+method)
		return
	}
	score, ok := scores[page]
	if !ok {
		svc.writeError(w, http.StatusNotFound, "unknown page "+string(page))
		return
	}
	svc.writeJSON(w, pageScoreResponse{
		PassID: res.PassID.String(),
		Method: method,
		Page:   string(page),
		Title:  res.Report.Titles[page],
		Score:  score,
	})
}

// latest returns the current result or writes a 503 response if no result
// is available yet.
func (svc *Service) latest(w http.ResponseWriter) *ranker.Result {
	res := svc.cfg.Ranks.Latest()
	if res == nil || res.Report == nil {
		svc.writeError(w, http.StatusServiceUnavailable, "ranks have not been computed yet")
		return nil
	}
	return res
}

func scoresFor(r *report.Report, method string) (pagerank.Distribution, bool) {
	switch method {
	case "sampling":
		return r.Sampling, true
	case "iteration":
		return r.Iteration, true
	default:
		return nil, false
	}
}

func (svc *Service) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		svc.cfg.Logger.WithField("err", err).Error("could not encode API response")
	}
}

func (svc *Service) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
