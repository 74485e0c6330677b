package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/espiscope/pkg/config"
	"github.com/umputun/espiscope/pkg/diff"
	"github.com/umputun/espiscope/pkg/espi"
	"github.com/umputun/espiscope/pkg/jsonstore"
	"github.com/umputun/espiscope/pkg/llm"
	"github.com/umputun/espiscope/pkg/notify"
	"github.com/umputun/espiscope/pkg/repository"
	"github.com/umputun/espiscope/pkg/resolver"
	"github.com/umputun/espiscope/pkg/scheduler"
	"github.com/umputun/espiscope/pkg/service"
	"github.com/umputun/espiscope/pkg/tracker"
	"github.com/umputun/espiscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"espiscope.yml" description:"configuration file"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)
	log.Printf("[INFO] starting espiscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// re-setup with secrets known only after config load
	setupLog(opts.Debug, cfg.Secrets()...)

	store, closeStore, err := makeStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	tables, err := resolver.LoadTables(cfg.Decoders.Dir)
	if err != nil {
		return fmt.Errorf("failed to load lookup tables: %w", err)
	}
	res := resolver.New(tables)
	names, tickers, symbols := res.Size()
	log.Printf("[INFO] lookup tables loaded: %d names, %d tickers, %d symbols", names, tickers, symbols)
	if cfg.Decoders.Watch {
		w := &resolver.Watcher{Dir: cfg.Decoders.Dir, Resolver: res, Debounce: cfg.Decoders.Debounce}
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[WARN] lookup tables watcher stopped: %v", err)
			}
		}()
	}

	fetcher := espi.NewFetcher(espi.FetcherConfig{
		Timeout:   cfg.ESPI.Timeout,
		UserAgent: cfg.ESPI.UserAgent,
		Breaker: espi.BreakerConfig{
			MaxRequests:      cfg.ESPI.Breaker.MaxRequests,
			Interval:         cfg.ESPI.Breaker.Interval,
			Timeout:          cfg.ESPI.Breaker.Timeout,
			FailureThreshold: cfg.ESPI.Breaker.FailureThreshold,
			MinRequests:      cfg.ESPI.Breaker.MinRequests,
		},
	})

	describer, err := makeDescriber(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	notifier := makeNotifier(cfg.Notify)
	log.Printf("[INFO] notifications go to %s", notifier)

	policy, err := diff.ParsePolicy(cfg.ESPI.Identity)
	if err != nil {
		return fmt.Errorf("invalid identity policy: %w", err)
	}
	excerptLen := 0
	if cfg.ESPI.Excerpt.Enabled {
		excerptLen = cfg.ESPI.Excerpt.MaxLen
	}
	registry := tracker.New(tracker.Params{
		Store:      store,
		Fetcher:    fetcher,
		Notifier:   notifier,
		Policy:     policy,
		ExcerptLen: excerptLen,
	})

	sched := scheduler.NewScheduler(registry, scheduler.Config{
		Interval:   cfg.Schedule.Interval,
		MaxWorkers: cfg.Schedule.MaxWorkers,
	})
	sched.Start(ctx)
	defer sched.Stop()

	svc := service.New(service.Params{
		Resolver:     res,
		Registry:     registry,
		Fetcher:      fetcher,
		Describer:    describer,
		Unpinner:     notifier,
		URLTemplate:  cfg.ESPI.URLTemplate,
		DefaultEmoji: cfg.LLM.DefaultEmoji,
	})

	srv := server.New(server.Params{
		Service:   svc,
		Scheduler: sched,
		Listen:    cfg.Server.Listen,
		Timeout:   cfg.Server.Timeout,
		BaseURL:   cfg.Server.BaseURL,
		RSSItems:  cfg.Server.RSSItems,
		Version:   revision,
		Debug:     opts.Debug,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeStore opens state storage, json store keeps files compatible with the legacy bot
func makeStore(ctx context.Context, cfg config.StoreConfig) (tracker.Store, func(), error) {
	if cfg.Type == "json" {
		st, err := jsonstore.Open(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open json store: %w", err)
		}
		for _, e := range st.Corruptions() {
			log.Printf("[ERROR] state store: %v", e)
		}
		log.Printf("[INFO] using json store in %s", cfg.Dir)
		return st, func() {}, nil
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Printf("[INFO] using sqlite store")
	return repos.Company, func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}, nil
}

type emojiDescriber interface {
	Describe(ctx context.Context, name string) (string, error)
}

func makeDescriber(ctx context.Context, cfg config.LLMConfig) (emojiDescriber, error) {
	if cfg.Provider == "none" || cfg.APIKey == "" {
		log.Printf("[INFO] no llm configured, companies get %s", cfg.DefaultEmoji)
		return llm.Static(cfg.DefaultEmoji), nil
	}
	if cfg.Provider == "gemini" {
		d, err := llm.NewGeminiDescriber(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini describer: %w", err)
		}
		return d, nil
	}
	return llm.NewOpenAIDescriber(cfg), nil
}

type namedNotifier interface {
	tracker.Notifier
	fmt.Stringer
}

// makeNotifier picks the first configured target, log otherwise
func makeNotifier(cfg config.NotifyConfig) namedNotifier {
	switch {
	case cfg.Discord.Enabled():
		return notify.NewDiscord(notify.DiscordParams{
			APIURL:    cfg.Discord.APIURL,
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
			Timeout:   cfg.Discord.Timeout,
			Rate:      cfg.Discord.Rate,
		})
	case cfg.Email.Enabled():
		return notify.NewEmail(notify.EmailParams{
			SMTPServer: cfg.Email.SMTPServer,
			SMTPPort:   cfg.Email.SMTPPort,
			SMTPUser:   cfg.Email.SMTPUser,
			SMTPPass:   cfg.Email.SMTPPass,
			From:       cfg.Email.From,
			To:         cfg.Email.To,
			Timeout:    cfg.Email.Timeout,
		})
	default:
		return &notify.Log{}
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
