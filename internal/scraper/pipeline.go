// Package scraper obtains official sell-side quotes from the third-party
// quoting site. A batch drives one shared browser session through the ordered
// target list, one program at a time, and persists every parsed quote
// immediately so partial progress survives any later failure.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
	"github.com/brmiles/milhas-radar/internal/storage"
)

// Notifier receives the post-batch text summary. Delivery failures are logged
// and swallowed; persisted quotes are never at stake.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Config holds per-batch scrape settings.
type Config struct {
	QuoteURL    string
	Quantity    int
	WaitTimeout time.Duration
}

// Outcome is the per-program result of a batch.
type Outcome struct {
	Program models.Program
	Quotes  int
	BestCPM float64
	Err     error
}

// Report is the fold of a batch over its ordered target list.
type Report struct {
	Successes []Outcome
	Failures  []Outcome
}

// Pipeline runs one scrape batch. It owns the browser for the duration of the
// batch and tears it down on every exit path. Callers must not run two
// batches concurrently: the remote site's session state is reset between
// programs and cannot be shared.
type Pipeline struct {
	browser  Browser
	store    *storage.QuoteStore
	notifier Notifier
	logger   *common.Logger
	cfg      Config
}

// New creates a pipeline for a single batch run. notifier may be nil.
func New(browser Browser, store *storage.QuoteStore, notifier Notifier, logger *common.Logger, cfg Config) *Pipeline {
	return &Pipeline{
		browser:  browser,
		store:    store,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run executes the batch over the ordered targets. A failure for one program
// is recorded in the report and the batch moves on; nothing aborts the loop
// except cancellation, which is checked only at the boundary between
// programs. The browser session is closed before Run returns, always.
func (p *Pipeline) Run(ctx context.Context, targets []Target) Report {
	logger := p.logger.WithCorrelationId(uuid.New().String())
	logger.Info().
		Int("targets", len(targets)).
		Int("quantity", p.cfg.Quantity).
		Msg("scrape batch started")

	defer func() {
		if err := p.browser.Close(); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("browser teardown failed")
		}
	}()

	var report Report
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			logger.Info().Str("reason", err.Error()).Msg("scrape batch cancelled")
			break
		}

		outcome := p.scrapeOne(ctx, target)
		if outcome.Err != nil {
			logger.Warn().
				Str("program", string(target.Program)).
				Str("error", outcome.Err.Error()).
				Msg("program scrape failed")
			report.Failures = append(report.Failures, outcome)
		} else {
			logger.Info().
				Str("program", string(target.Program)).
				Int("quotes", outcome.Quotes).
				Float64("best_cpm", outcome.BestCPM).
				Msg("program scraped")
			report.Successes = append(report.Successes, outcome)
		}

		// Cookies are cleared even after a failure so the next program
		// starts from a clean session.
		if err := p.browser.ResetSession(ctx); err != nil {
			logger.Warn().
				Str("program", string(target.Program)).
				Str("error", err.Error()).
				Msg("session reset failed")
		}
	}

	p.notify(ctx, logger, report)

	logger.Info().
		Int("successes", len(report.Successes)).
		Int("failures", len(report.Failures)).
		Msg("scrape batch finished")
	return report
}

// scrapeOne runs the per-program sequence: navigate, fill, submit, wait,
// parse, persist. Each parsed quote is recorded immediately, not batched.
func (p *Pipeline) scrapeOne(ctx context.Context, target Target) Outcome {
	outcome := Outcome{Program: target.Program}

	if err := p.browser.Navigate(ctx, p.cfg.QuoteURL); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrNavigation, err)
		return outcome
	}
	if err := p.browser.FillQuoteForm(ctx, target, p.cfg.Quantity); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrNavigation, err)
		return outcome
	}
	if err := p.browser.Submit(ctx); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrNavigation, err)
		return outcome
	}

	text, err := p.browser.WaitForResult(ctx, p.cfg.WaitTimeout)
	if err != nil {
		if !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %v", ErrNavigation, err)
		}
		outcome.Err = err
		return outcome
	}

	options, err := ParseResultText(text, p.cfg.Quantity)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	for _, opt := range options {
		quote := models.Quote{
			Program:    target.Program,
			TenorDays:  opt.TenorDays,
			TotalPrice: opt.TotalPrice,
			CPM:        opt.CPM,
		}
		if err := p.store.Record(ctx, &quote); err != nil {
			outcome.Err = fmt.Errorf("failed to persist quote: %w", err)
			return outcome
		}
		outcome.Quotes++
		if opt.CPM > outcome.BestCPM {
			outcome.BestCPM = opt.CPM
		}
	}
	return outcome
}

// notify sends the batch summary. Failures degrade silently: the quotes are
// already persisted and a lost message must not fail the batch.
func (p *Pipeline) notify(ctx context.Context, logger *common.Logger, report Report) {
	if p.notifier == nil {
		return
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if err := p.notifier.Send(sendCtx, Summary(report)); err != nil {
		logger.Warn().Str("error", err.Error()).Msg("batch notification failed")
		return
	}
	logger.Debug().Msg("batch notification sent")
}

// Summary renders a batch report as a plain-text notification message.
func Summary(report Report) string {
	var b strings.Builder
	b.WriteString("Quote batch update\n\n")
	for _, s := range report.Successes {
		fmt.Fprintf(&b, "%s: best %s per thousand (%d quotes)\n",
			s.Program.DisplayName(), common.FormatBRL(s.BestCPM), s.Quotes)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(&b, "%s: no data (%v)\n", f.Program.DisplayName(), f.Err)
	}
	if len(report.Successes) == 0 && len(report.Failures) == 0 {
		b.WriteString("no programs scraped\n")
	}
	return b.String()
}
