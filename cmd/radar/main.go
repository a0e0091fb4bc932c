package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brmiles/milhas-radar/internal/app"
	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/config"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	runOnce     = flag.Bool("once", false, "Run one scrape batch and one feed scan, then exit")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	// Auto-discover config file if not specified. Binary-relative paths are
	// tried first so the config is found even when the working directory
	// differs from the binary location.
	if len(configFiles) == 0 {
		for _, path := range radarConfigSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error: mandatory fields are missing or invalid:")
		fmt.Fprintln(os.Stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file or MILHAS_* environment variables.")
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("quote_url", cfg.Scraper.URL).
		Int("targets", len(cfg.Scraper.Targets)).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Str("error", err.Error()).Msg("application shutdown failed")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *runOnce {
		application.RunScrapeBatch(ctx)
		if _, err := application.RunPromoScan(ctx); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("promo scan failed")
		}
		logger.Info().Msg("single run complete")
		return
	}

	runLoop(ctx, application, logger)
	logger.Info().Msg("radar stopped")
}

// runLoop schedules scrape batches and feed scans on their own intervals.
// Everything runs on this single goroutine, which is what guarantees at most
// one scrape batch is ever active.
func runLoop(ctx context.Context, application *app.App, logger *common.Logger) {
	cfg := application.Config

	scrapeTicker := time.NewTicker(cfg.Scraper.Interval())
	defer scrapeTicker.Stop()
	promoTicker := time.NewTicker(cfg.Promo.Interval())
	defer promoTicker.Stop()

	logger.Info().
		Str("scrape_interval", cfg.Scraper.Interval().String()).
		Str("promo_interval", cfg.Promo.Interval().String()).
		Msg("radar started")

	// First pass immediately rather than waiting a full interval.
	application.RunScrapeBatch(ctx)
	if _, err := application.RunPromoScan(ctx); err != nil {
		logger.Warn().Str("error", err.Error()).Msg("promo scan failed")
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutdown signal received")
			return
		case <-scrapeTicker.C:
			application.RunScrapeBatch(ctx)
		case <-promoTicker.C:
			if _, err := application.RunPromoScan(ctx); err != nil {
				logger.Warn().Str("error", err.Error()).Msg("promo scan failed")
			}
		}
	}
}

// radarConfigSearchPaths returns TOML files to auto-discover (first match
// wins). Binary-relative paths are tried first, with CWD fallbacks after.
func radarConfigSearchPaths() []string {
	candidates := []string{
		"milhas-radar.toml",
		"config/milhas-radar.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "milhas-radar.toml"),
		filepath.Join(binDir, "config", "milhas-radar.toml"),
	}
	return append(paths, candidates...)
}
