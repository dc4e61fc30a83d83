package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linksrus/corpusrank/config"
	"github.com/linksrus/corpusrank/linkgraph/crawl"
	"github.com/linksrus/corpusrank/pagerank"
	"github.com/linksrus/corpusrank/report"
	"github.com/linksrus/corpusrank/service"
	"github.com/linksrus/corpusrank/service/api"
	"github.com/linksrus/corpusrank/service/ranker"
	"github.com/linksrus/corpusrank/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"
)

var (
	appName = "corpusrank"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := config.LoadEnv(os.Getenv("CORPUSRANK_ENV_FILE")); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}

	if err := makeApp(rootLogger).Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp(rootLogger *logrus.Logger) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "rank the pages of an HTML corpus with PageRank"
	app.Version = appSha
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			EnvVar: "CORPUSRANK_LOG_LEVEL",
			Usage:  "The minimum level of emitted log entries",
		},
		cli.StringFlag{
			Name:   "config",
			EnvVar: "CORPUSRANK_CONFIG",
			Usage:  "An optional YAML settings file",
		},
	}
	app.Before = func(appCtx *cli.Context) error {
		level, err := logrus.ParseLevel(appCtx.GlobalString("log-level"))
		if err != nil {
			return xerrors.Errorf("invalid log level: %w", err)
		}
		rootLogger.SetLevel(level)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "rank",
			Usage:     "crawl a corpus once and print its PageRank scores",
			ArgsUsage: "CORPUS_DIR",
			Flags: append(rankFlags(), cli.StringFlag{
				Name:   "format",
				Value:  report.FormatText,
				EnvVar: "CORPUSRANK_FORMAT",
				Usage:  "The output format: text, markdown or json",
			}),
			Action: runRank,
		},
		{
			Name:      "serve",
			Usage:     "keep a corpus ranked and serve the scores over HTTP",
			ArgsUsage: "CORPUS_DIR",
			Flags: append(rankFlags(),
				cli.DurationFlag{
					Name:   "update-interval",
					Value:  5 * time.Minute,
					EnvVar: "CORPUSRANK_UPDATE_INTERVAL",
					Usage:  "The time between subsequent ranking passes",
				},
				cli.StringFlag{
					Name:   "listen-addr",
					Value:  ":8080",
					EnvVar: "CORPUSRANK_LISTEN_ADDR",
					Usage:  "The address to listen for API requests",
				},
				cli.BoolTFlag{
					Name:   "watch",
					EnvVar: "CORPUSRANK_WATCH",
					Usage:  "Recompute the scores when a corpus file changes",
				},
				cli.BoolFlag{
					Name:   "tracing",
					EnvVar: "CORPUSRANK_TRACING",
					Usage:  "Report ranking pass spans to Jaeger (configured via JAEGER_* variables)",
				},
			),
			Action: func(appCtx *cli.Context) error {
				rootLogger.SetFormatter(new(logrus.JSONFormatter))
				return runServe(appCtx)
			},
		},
	}
	return app
}

func rankFlags() []cli.Flag {
	return []cli.Flag{
		cli.Float64Flag{
			Name:   "damping",
			Value:  pagerank.DefaultDampingFactor,
			EnvVar: "CORPUSRANK_DAMPING",
			Usage:  "The probability of following a link instead of jumping to a random page",
		},
		cli.IntFlag{
			Name:   "samples",
			Value:  pagerank.DefaultNumSamples,
			EnvVar: "CORPUSRANK_SAMPLES",
			Usage:  "The number of random surfer samples",
		},
		cli.Float64Flag{
			Name:   "min-delta",
			Value:  pagerank.DefaultMinDeltaForConvergence,
			EnvVar: "CORPUSRANK_MIN_DELTA",
			Usage:  "The per-page score change below which iteration stops",
		},
		cli.IntFlag{
			Name:   "max-iterations",
			Value:  pagerank.DefaultMaxIterations,
			EnvVar: "CORPUSRANK_MAX_ITERATIONS",
			Usage:  "The maximum number of iteration sweeps",
		},
		cli.IntFlag{
			Name:   "read-workers",
			Value:  crawl.DefaultReadWorkers,
			EnvVar: "CORPUSRANK_READ_WORKERS",
			Usage:  "The number of corpus files read concurrently",
		},
		cli.Int64Flag{
			Name:   "seed",
			EnvVar: "CORPUSRANK_SEED",
			Usage:  "The seed for the random surfer; 0 uses the current time",
		},
	}
}

// settings merges the optional settings file with the command flags. Flags
// that were explicitly set take precedence over the file.
func settings(appCtx *cli.Context) (*config.Settings, error) {
	s := new(config.Settings)
	if path := appCtx.GlobalString("config"); path != "" {
		var err error
		if s, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if appCtx.IsSet("damping") || s.DampingFactor == nil {
		damping := appCtx.Float64("damping")
		s.DampingFactor = &damping
	}
	if appCtx.IsSet("samples") || s.NumSamples == 0 {
		s.NumSamples = appCtx.Int("samples")
	}
	if appCtx.IsSet("min-delta") || s.MinDeltaForConvergence == 0 {
		s.MinDeltaForConvergence = appCtx.Float64("min-delta")
	}
	if appCtx.IsSet("max-iterations") || s.MaxIterations == 0 {
		s.MaxIterations = appCtx.Int("max-iterations")
	}
	if appCtx.IsSet("read-workers") || s.ReadWorkers == 0 {
		s.ReadWorkers = appCtx.Int("read-workers")
	}
	if appCtx.IsSet("update-interval") || s.UpdateInterval == 0 {
		s.UpdateInterval = appCtx.Duration("update-interval")
	}
	if appCtx.IsSet("listen-addr") || s.ListenAddress == "" {
		s.ListenAddress = appCtx.String("listen-addr")
	}
	return s, nil
}

func corpusDir(appCtx *cli.Context) (string, error) {
	if appCtx.NArg() != 1 {
		_ = cli.ShowCommandHelp(appCtx, appCtx.Command.Name)
		return "", xerrors.Errorf("expected exactly one CORPUS_DIR argument; got %d", appCtx.NArg())
	}
	return appCtx.Args().First(), nil
}

func newCalculator(appCtx *cli.Context, s *config.Settings) (*pagerank.Calculator, error) {
	calcCfg := s.CalculatorConfig()
	if seed := appCtx.Int64("seed"); seed != 0 {
		calcCfg.Rand = rand.New(rand.NewSource(seed))
	}
	calcCfg.Logger = logger
	return pagerank.NewCalculator(calcCfg)
}

func runRank(appCtx *cli.Context) error {
	dir, err := corpusDir(appCtx)
	if err != nil {
		return err
	}
	s, err := settings(appCtx)
	if err != nil {
		return err
	}
	w, err := report.New(appCtx.String("format"), appCtx.App.Writer)
	if err != nil {
		return err
	}
	calc, err := newCalculator(appCtx, s)
	if err != nil {
		return err
	}

	corpus, err := crawl.Corpus(context.Background(), dir, crawl.Config{
		ReadWorkers: s.ReadWorkers,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	sampled, err := calc.Sample(corpus.Graph)
	if err != nil {
		return err
	}
	iterated, err := calc.Iterate(corpus.Graph)
	if err != nil {
		return err
	}

	return w.Write(&report.Report{
		Samples:    calc.Config().NumSamples,
		Iterations: iterated.Iterations,
		Sampling:   sampled,
		Iteration:  iterated.Scores,
		Titles:     corpus.Titles,
	})
}

func runServe(appCtx *cli.Context) error {
	dir, err := corpusDir(appCtx)
	if err != nil {
		return err
	}
	s, err := settings(appCtx)
	if err != nil {
		return err
	}
	calc, err := newCalculator(appCtx, s)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	tracer, closer, err := tracing.New(tracing.Config{
		ServiceName: appName,
		Disabled:    !appCtx.Bool("tracing"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	rankerCfg := ranker.Config{
		Loader: ranker.CorpusLoader{
			Dir:   dir,
			Crawl: crawl.Config{ReadWorkers: s.ReadWorkers, Logger: logger},
		},
		Calculator:     calc,
		UpdateInterval: s.UpdateInterval,
		Tracer:         tracer,
		Registerer:     reg,
		Logger:         logger.WithField("service", "ranker"),
	}
	if appCtx.BoolT("watch") {
		watcher, err := ranker.NewDirWatcher(dir, logger)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
		rankerCfg.Notifier = watcher
	}
	rankerSvc, err := ranker.NewService(rankerCfg)
	if err != nil {
		return err
	}

	apiSvc, err := api.NewService(api.Config{
		Ranks:      rankerSvc,
		Gatherer:   reg,
		ListenAddr: s.ListenAddress,
		Logger:     logger.WithField("service", "api"),
	})
	if err != nil {
		return err
	}

	// Start signal watcher
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case sig := <-sigCh:
			logger.WithField("signal", sig.String()).Info("shutting down due to signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return service.Group{rankerSvc, apiSvc}.Run(ctx)
}
