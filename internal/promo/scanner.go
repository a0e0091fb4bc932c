// Package promo watches announcement feeds for transfer-bonus and
// point-purchase promotions. Spotted promotions enrich the optimizer's
// acquisition scenarios and raise a one-time alert.
package promo

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
	"github.com/brmiles/milhas-radar/internal/storage"
)

// Alerter receives one-line alerts for newly spotted promotions.
// Failures are logged and swallowed, same policy as batch notifications.
type Alerter interface {
	Send(ctx context.Context, text string) error
}

// Config controls the feed scan.
type Config struct {
	Feeds      []string
	MaxEntries int
}

// programWords name the loyalty and bank currencies a promotion must mention.
var programWords = []string{"livelo", "esfera", "smiles", "latam", "tudoazul", "azul"}

// actionWords are the promotion verbs worth alerting on.
var actionWords = []string{"bônus", "bonus", "transferência", "transferencia", "compra", "desconto", "off"}

var bonusPattern = regexp.MustCompile(`(\d{1,3})\s*%`)

// MatchHeadline reports whether a headline names both a known currency and a
// promotion action, and which program it is about.
func MatchHeadline(title string) (models.Program, bool) {
	lower := strings.ToLower(title)

	var program models.Program
	foundProgram := false
	for _, w := range programWords {
		if strings.Contains(lower, w) {
			program = models.CanonicalProgram(w)
			foundProgram = true
			break
		}
	}
	if !foundProgram {
		return "", false
	}

	for _, w := range actionWords {
		if strings.Contains(lower, w) {
			return program, true
		}
	}
	return "", false
}

// ExtractBonusPct pulls the first percentage figure out of a headline,
// or 0 when none is present.
func ExtractBonusPct(title string) float64 {
	m := bonusPattern.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(pct)
}

// Scanner reads the configured feeds and records matching promotions.
type Scanner struct {
	parser  *gofeed.Parser
	store   *storage.PromoStore
	alerter Alerter
	logger  *common.Logger
	cfg     Config
}

// NewScanner creates a feed scanner. alerter may be nil.
func NewScanner(store *storage.PromoStore, alerter Alerter, logger *common.Logger, cfg Config) *Scanner {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10
	}
	return &Scanner{
		parser:  gofeed.NewParser(),
		store:   store,
		alerter: alerter,
		logger:  logger,
		cfg:     cfg,
	}
}

// Scan reads every configured feed once and returns newly spotted
// promotions. A feed that fails to parse is logged and skipped; the scan
// never aborts over a single source.
func (s *Scanner) Scan(ctx context.Context) ([]models.Promotion, error) {
	var found []models.Promotion

	for _, feedURL := range s.cfg.Feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.logger.Warn().
				Str("feed", feedURL).
				Str("error", err.Error()).
				Msg("feed fetch failed")
			continue
		}

		source := feed.Title
		items := feed.Items
		if len(items) > s.cfg.MaxEntries {
			items = items[:s.cfg.MaxEntries]
		}

		for _, item := range items {
			program, ok := MatchHeadline(item.Title)
			if !ok {
				continue
			}

			seen, err := s.store.Seen(ctx, item.Link)
			if err != nil {
				s.logger.Warn().Str("link", item.Link).Str("error", err.Error()).Msg("seen check failed")
				continue
			}
			if seen {
				continue
			}

			promo := models.Promotion{
				Link:     item.Link,
				Title:    item.Title,
				Source:   source,
				Program:  program,
				BonusPct: ExtractBonusPct(item.Title),
				FoundAt:  time.Now(),
			}
			if err := s.store.Record(ctx, promo); err != nil {
				s.logger.Warn().Str("link", item.Link).Str("error", err.Error()).Msg("promotion record failed")
				continue
			}
			found = append(found, promo)
			s.alert(ctx, promo)
		}
	}

	s.logger.Info().
		Int("feeds", len(s.cfg.Feeds)).
		Int("new_promotions", len(found)).
		Msg("promo scan finished")
	return found, nil
}

// alert raises a one-time notification for a promotion. Best-effort only.
func (s *Scanner) alert(ctx context.Context, promo models.Promotion) {
	if s.alerter == nil {
		return
	}
	text := "Promotion spotted: " + promo.Title + "\n" + promo.Link
	if err := s.alerter.Send(ctx, text); err != nil {
		s.logger.Warn().Str("error", err.Error()).Msg("promotion alert failed")
	}
}

// SuggestScenarios overlays spotted transfer bonuses onto the configured base
// scenarios. Each promotion that names a program in a base route produces a
// variant of that route carrying the promoted bonus; the optimizer picks the
// cheapest either way. Base scenarios always survive, so the optimizer keeps
// working when no promotion was ever spotted.
func SuggestScenarios(bases []models.AcquisitionScenario, promos []models.Promotion) []models.AcquisitionScenario {
	out := make([]models.AcquisitionScenario, len(bases))
	copy(out, bases)

	for _, p := range promos {
		if p.BonusPct <= 0 || p.Program == "" {
			continue
		}
		for _, b := range bases {
			if b.SourceProgram == p.Program || b.DestinationProgram == p.Program {
				variant := b
				variant.BonusPct = p.BonusPct
				out = append(out, variant)
			}
		}
	}
	return out
}
