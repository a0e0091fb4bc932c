package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

// Target names one program to quote and the form option value that selects it
// on the quoting site.
type Target struct {
	Program      models.Program
	SelectOption string
}

// Browser is the thin adapter the pipeline drives. Selector and rendering
// concerns live behind it so parsing and cpm math can be tested against
// captured result text without a live browser.
type Browser interface {
	// Navigate loads the quoting site's landing page.
	Navigate(ctx context.Context, url string) error
	// FillQuoteForm selects the target program and enters the point quantity.
	FillQuoteForm(ctx context.Context, target Target, quantity int) error
	// Submit requests the quote.
	Submit(ctx context.Context) error
	// WaitForResult blocks until a price renders or the bound expires, then
	// returns the page's full rendered text. Expiry returns ErrTimeout.
	WaitForResult(ctx context.Context, timeout time.Duration) (string, error)
	// ResetSession clears cookies so the next program starts clean.
	ResetSession(ctx context.Context) error
	// Close tears down the browser session.
	Close() error
}

// Quoting form selectors. The site renders a single quote form; these are the
// stable anchors observed on it.
const (
	selQuantityField = `#form input[name="quantity"]`
	selProgramSelect = `#form select`
	selSubmitButton  = `#form button[type="submit"]`
)

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	Headless bool
}

// ChromeBrowser drives a headless Chrome session via chromedp. One session is
// shared across all programs in a batch; ResetSession clears cookies between
// programs and Close tears the whole session down at batch end.
type ChromeBrowser struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *common.Logger
}

// NewChromeBrowser allocates a Chrome session.
func NewChromeBrowser(cfg BrowserConfig, logger *common.Logger) *ChromeBrowser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	cancel := func() {
		ctxCancel()
		allocCancel()
	}
	return &ChromeBrowser{ctx: ctx, cancel: cancel, logger: logger}
}

// Navigate loads the quoting site.
func (b *ChromeBrowser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
}

// FillQuoteForm selects the program and fills the point quantity.
func (b *ChromeBrowser) FillQuoteForm(ctx context.Context, target Target, quantity int) error {
	return b.run(ctx,
		chromedp.WaitVisible(selProgramSelect, chromedp.ByQuery),
		chromedp.SetValue(selProgramSelect, target.SelectOption, chromedp.ByQuery),
		chromedp.Clear(selQuantityField, chromedp.ByQuery),
		chromedp.SendKeys(selQuantityField, fmt.Sprintf("%d", quantity), chromedp.ByQuery),
	)
}

// Submit clicks the quote button.
func (b *ChromeBrowser) Submit(ctx context.Context) error {
	return b.run(ctx, chromedp.Click(selSubmitButton, chromedp.ByQuery))
}

// WaitForResult polls until a currency amount appears in the rendered page,
// then returns the full body text. The poll is bounded by timeout.
func (b *ChromeBrowser) WaitForResult(ctx context.Context, timeout time.Duration) (string, error) {
	var text string
	err := b.run(ctx,
		chromedp.Poll(
			`document.body && document.body.innerText.includes("R$")`,
			nil,
			chromedp.WithPollingTimeout(timeout),
		),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return "", err
	}
	return text, nil
}

// ResetSession clears browser cookies so program state cannot leak into the
// next iteration.
func (b *ChromeBrowser) ResetSession(ctx context.Context) error {
	return b.run(ctx, network.ClearBrowserCookies())
}

// Close tears down the Chrome session and its allocator.
func (b *ChromeBrowser) Close() error {
	b.cancel()
	return nil
}

// run executes chromedp actions against the session, honoring the caller's
// cancellation without rebinding the browser to a different context tree.
func (b *ChromeBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := chromedp.Run(b.ctx, actions...)
	if err != nil && strings.Contains(err.Error(), "context canceled") {
		return fmt.Errorf("browser session closed: %w", err)
	}
	return err
}
