package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/config"
	"github.com/brmiles/milhas-radar/internal/models"
	"github.com/brmiles/milhas-radar/internal/storage"
)

// fakeBrowser scripts per-program results so the pipeline can be exercised
// without Chrome. Each program either renders fixture text, times out, or
// fails navigation.
type fakeBrowser struct {
	results map[models.Program]string
	fail    map[models.Program]error

	current    models.Program
	navigates  int
	resets     int
	closed     bool
	closeCalls int
}

func (f *fakeBrowser) Navigate(_ context.Context, _ string) error {
	f.navigates++
	return nil
}

func (f *fakeBrowser) FillQuoteForm(_ context.Context, target Target, _ int) error {
	f.current = target.Program
	if err := f.fail[target.Program]; errors.Is(err, ErrNavigation) {
		return err
	}
	return nil
}

func (f *fakeBrowser) Submit(_ context.Context) error { return nil }

func (f *fakeBrowser) WaitForResult(_ context.Context, _ time.Duration) (string, error) {
	if err := f.fail[f.current]; err != nil {
		return "", err
	}
	return f.results[f.current], nil
}

func (f *fakeBrowser) ResetSession(_ context.Context) error {
	f.resets++
	return nil
}

func (f *fakeBrowser) Close() error {
	f.closed = true
	f.closeCalls++
	return nil
}

// recordingNotifier captures the summary and optionally fails delivery.
type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, text string) error {
	n.sent = append(n.sent, text)
	return n.err
}

func newTestStore(t *testing.T) *storage.QuoteStore {
	t.Helper()
	db, err := storage.Open(common.NewSilentLogger(), &config.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewQuoteStore(db, common.NewSilentLogger())
}

func testTargets() []Target {
	return []Target{
		{Program: models.ProgramLatamPass, SelectOption: "2"},
		{Program: models.ProgramSmiles, SelectOption: "3"},
		{Program: models.ProgramTudoAzul, SelectOption: "4"},
	}
}

func TestPipeline_TimeoutIsolatedPerProgram(t *testing.T) {
	store := newTestStore(t)
	browser := &fakeBrowser{
		results: map[models.Program]string{
			models.ProgramLatamPass: "em 30 dias R$ 2.000,00",
			models.ProgramTudoAzul:  "em 30 dias R$ 1.500,00",
		},
		fail: map[models.Program]error{
			models.ProgramSmiles: fmt.Errorf("%w after 25s", ErrTimeout),
		},
	}
	notifier := &recordingNotifier{err: errors.New("telegram down")}

	pipeline := New(browser, store, notifier, common.NewSilentLogger(), Config{
		QuoteURL:    "https://example.test/",
		Quantity:    100000,
		WaitTimeout: time.Second,
	})
	report := pipeline.Run(context.Background(), testTargets())

	if len(report.Successes) != 2 {
		t.Errorf("expected 2 successes, got %d", len(report.Successes))
	}
	if len(report.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(report.Failures))
	}
	if report.Failures[0].Program != models.ProgramSmiles {
		t.Errorf("expected Smiles to fail, got %s", report.Failures[0].Program)
	}
	if !errors.Is(report.Failures[0].Err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", report.Failures[0].Err)
	}

	// The two successful programs persisted exactly one quote each.
	ctx := context.Background()
	for _, p := range []string{"Latam Pass", "TudoAzul"} {
		series, err := store.Series(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		if len(series) != 1 {
			t.Errorf("%s: expected 1 persisted quote, got %d", p, len(series))
		}
	}
	if smiles, _ := store.Series(ctx, "Smiles"); len(smiles) != 0 {
		t.Errorf("expected no Smiles quotes, got %d", len(smiles))
	}

	// The notification was still attempted, its failure swallowed.
	if len(notifier.sent) != 1 {
		t.Errorf("expected 1 notification attempt, got %d", len(notifier.sent))
	}

	// Session was reset after every program, including the failed one, and
	// the browser was torn down exactly once.
	if browser.resets != 3 {
		t.Errorf("expected 3 session resets, got %d", browser.resets)
	}
	if browser.closeCalls != 1 {
		t.Errorf("expected 1 browser teardown, got %d", browser.closeCalls)
	}
}

func TestPipeline_ParseFailureRecorded(t *testing.T) {
	store := newTestStore(t)
	browser := &fakeBrowser{
		results: map[models.Program]string{
			models.ProgramSmiles: "Página em manutenção",
		},
	}
	pipeline := New(browser, store, nil, common.NewSilentLogger(), Config{Quantity: 100000})
	report := pipeline.Run(context.Background(), []Target{{Program: models.ProgramSmiles}})

	if len(report.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(report.Failures))
	}
	if !errors.Is(report.Failures[0].Err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", report.Failures[0].Err)
	}
}

func TestPipeline_CancellationAtLoopBoundary(t *testing.T) {
	store := newTestStore(t)
	browser := &fakeBrowser{
		results: map[models.Program]string{
			models.ProgramLatamPass: "em 30 dias R$ 2.000,00",
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := New(browser, store, nil, common.NewSilentLogger(), Config{Quantity: 100000})
	report := pipeline.Run(ctx, testTargets())

	if len(report.Successes) != 0 || len(report.Failures) != 0 {
		t.Errorf("cancelled batch should process nothing, got %+v", report)
	}
	if !browser.closed {
		t.Error("browser must be torn down even when the batch is cancelled")
	}
}

func TestPipeline_BestCPMInSummary(t *testing.T) {
	store := newTestStore(t)
	browser := &fakeBrowser{
		results: map[models.Program]string{
			models.ProgramSmiles: "em 30 dias R$ 1.800,00 ... em 90 dias R$ 1.950,00",
		},
	}
	notifier := &recordingNotifier{}
	pipeline := New(browser, store, notifier, common.NewSilentLogger(), Config{Quantity: 100000})
	report := pipeline.Run(context.Background(), []Target{{Program: models.ProgramSmiles}})

	if len(report.Successes) != 1 {
		t.Fatalf("expected 1 success, got %+v", report)
	}
	if report.Successes[0].Quotes != 2 {
		t.Errorf("expected 2 quotes, got %d", report.Successes[0].Quotes)
	}
	if report.Successes[0].BestCPM != 19.5 {
		t.Errorf("expected best cpm 19.5, got %.2f", report.Successes[0].BestCPM)
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "Smiles") {
		t.Errorf("expected summary naming Smiles, got %v", notifier.sent)
	}
}
