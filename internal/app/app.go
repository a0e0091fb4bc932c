// Package app wires configuration, storage, and the engine components
// together for the radar daemon and the carteira CLI.
package app

import (
	"context"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/config"
	"github.com/brmiles/milhas-radar/internal/market"
	"github.com/brmiles/milhas-radar/internal/models"
	"github.com/brmiles/milhas-radar/internal/notify"
	"github.com/brmiles/milhas-radar/internal/portfolio"
	"github.com/brmiles/milhas-radar/internal/promo"
	"github.com/brmiles/milhas-radar/internal/scraper"
	"github.com/brmiles/milhas-radar/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	DB         *storage.DB
	QuoteStore *storage.QuoteStore
	LotStore   *storage.LotStore
	PromoStore *storage.PromoStore

	Reconciler *market.Reconciler
	Valuator   *portfolio.Valuator
	Notifier   *notify.TelegramNotifier
	Scanner    *promo.Scanner
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	db, err := storage.Open(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	a.QuoteStore = storage.NewQuoteStore(db, logger)
	a.LotStore = storage.NewLotStore(db, logger)
	a.PromoStore = storage.NewPromoStore(db, logger)

	a.Reconciler = market.NewReconciler(a.QuoteStore)
	a.Valuator = portfolio.NewValuator(a.Reconciler)

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		a.Notifier = notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	} else {
		logger.Info().Msg("telegram not configured, notifications disabled")
	}

	a.Scanner = promo.NewScanner(a.PromoStore, notifierOrNil(a.Notifier), logger, promo.Config{
		Feeds:      cfg.Promo.Feeds,
		MaxEntries: cfg.Promo.MaxEntries,
	})

	logger.Info().Msg("application initialization complete")
	return a, nil
}

// notifierOrNil avoids handing a typed-nil notifier to an interface field.
func notifierOrNil(n *notify.TelegramNotifier) promo.Alerter {
	if n == nil {
		return nil
	}
	return n
}

// RunScrapeBatch runs one scrape batch with a freshly allocated browser
// session. The pipeline owns the session for the batch and releases it on
// every exit path. Callers serialize batches; the daemon's single event loop
// guarantees that.
func (a *App) RunScrapeBatch(ctx context.Context) scraper.Report {
	targets := make([]scraper.Target, 0, len(a.Config.Scraper.Targets))
	for _, t := range a.Config.Scraper.Targets {
		targets = append(targets, scraper.Target{
			Program:      models.CanonicalProgram(t.Program),
			SelectOption: t.SelectOption,
		})
	}

	browser := scraper.NewChromeBrowser(scraper.BrowserConfig{
		Headless: a.Config.Scraper.Headless,
	}, a.Logger)

	pipeline := scraper.New(browser, a.QuoteStore, scraperNotifier(a.Notifier), a.Logger, scraper.Config{
		QuoteURL:    a.Config.Scraper.URL,
		Quantity:    a.Config.Scraper.Quantity,
		WaitTimeout: a.Config.Scraper.WaitDuration(),
	})
	return pipeline.Run(ctx, targets)
}

func scraperNotifier(n *notify.TelegramNotifier) scraper.Notifier {
	if n == nil {
		return nil
	}
	return n
}

// RunPromoScan runs one pass over the configured announcement feeds.
func (a *App) RunPromoScan(ctx context.Context) ([]models.Promotion, error) {
	return a.Scanner.Scan(ctx)
}

// Scenarios returns the configured acquisition scenarios enriched with any
// spotted promotion bonuses.
func (a *App) Scenarios(ctx context.Context) []models.AcquisitionScenario {
	bases := a.Config.ScenarioModels()
	promos, err := a.PromoStore.All(ctx)
	if err != nil {
		a.Logger.Warn().Str("error", err.Error()).Msg("failed to load promotions, using base scenarios")
		return bases
	}
	return promo.SuggestScenarios(bases, promos)
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
