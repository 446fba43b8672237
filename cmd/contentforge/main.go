package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/contentforge/contentforge/pkg/config"
	"github.com/contentforge/contentforge/pkg/images"
	"github.com/contentforge/contentforge/pkg/ledger"
	"github.com/contentforge/contentforge/pkg/llm"
	"github.com/contentforge/contentforge/pkg/orchestrator"
	"github.com/contentforge/contentforge/pkg/pipeline"
	"github.com/contentforge/contentforge/pkg/schedule"
	"github.com/contentforge/contentforge/pkg/sitegen"
	"github.com/contentforge/contentforge/pkg/store"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"contentforge.yml" description:"config file"`
	Force  bool   `short:"f" long:"force" description:"bypass the unchanged-file and interval gates"`
	Status bool   `short:"s" long:"status" description:"print batch progress as JSON and exit"`

	BackfillImages bool `long:"backfill-images" description:"fill in images for stored articles missing one and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Opts) error {
	log.Printf("[INFO] starting contentforge version %s", revision)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	creds, err := llm.LoadCredentials(cfg.Paths.Credentials, cfg.LLM.KeyPrefix)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	// re-setup with the credentials masked in output
	setupLog(opts.Debug, opts.NoColor, creds...)

	led, err := ledger.Load(cfg.Paths.Cache)
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}
	st, err := store.Load(cfg.Paths.Articles)
	if err != nil {
		return fmt.Errorf("load article store: %w", err)
	}
	sch, err := schedule.Load(cfg.Paths.Progress, cfg.Paths.Batch, cfg.Batch.Size, cfg.Batch.Interval)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	rot, err := llm.NewRotator(cfg.GetLLMConfig(), creds)
	if err != nil {
		return fmt.Errorf("create llm rotator: %w", err)
	}
	log.Printf("[INFO] loaded %d credentials", rot.Size())

	pp := pipeline.Params{
		Generator:    rot,
		Committer:    st,
		Delay:        cfg.Generation.Delay,
		BackdateDays: cfg.Generation.BackdateDays,
		FutureDays:   cfg.Generation.FutureDays,
	}
	op := orchestrator.Params{
		KeywordsPath: cfg.Paths.Keywords,
		Ledger:       led,
		Scheduler:    sch,
		Store:        st,
		Delay:        cfg.Generation.Delay,
	}

	if cfg.Images.Enabled {
		if key := images.LoadKey(cfg.Paths.ImageKey); key != "" {
			searcher := images.NewClient(cfg.GetImagesConfig(), key)
			pp.Searcher = searcher
			op.Searcher = searcher
		} else {
			log.Printf("[WARN] image search enabled but no key found in %s, skipping images", cfg.Paths.ImageKey)
		}
	}

	site := cfg.GetSiteConfig()
	if site.BuildCommand != "" {
		op.Builder = sitegen.NewCommandBuilder(site.BuildCommand)
	}
	if site.Feed {
		op.Feed = sitegen.NewFeedEmitter(site)
	}
	if site.Sitemap {
		op.Sitemap = sitegen.NewSitemapEmitter(site)
	}

	op.Pipeline = pipeline.New(pp)
	orch := orchestrator.New(op)

	switch {
	case opts.Status:
		status, err := orch.Status()
		if err != nil {
			return err
		}
		return printJSON(status)
	case opts.BackfillImages:
		filled, err := orch.BackfillImages(ctx)
		if err != nil {
			return fmt.Errorf("backfill images: %w", err)
		}
		log.Printf("[INFO] backfilled %d images", filled)
		return nil
	default:
		res, err := orch.Run(ctx, opts.Force)
		if err != nil {
			return err
		}
		return printJSON(res)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
