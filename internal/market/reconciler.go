// Package market reconciles scraped quotes with peer-submitted offers into
// the best realizable sell price for a program.
package market

import (
	"context"

	"github.com/brmiles/milhas-radar/internal/models"
)

// QuoteSource is the slice of the quote store the reconciler reads.
// Absent data is represented as (nil, nil), never as an error.
type QuoteSource interface {
	Latest(ctx context.Context, program string) (*models.Quote, error)
	LatestOffer(ctx context.Context, program string) (*models.P2POffer, error)
}

// Reconciler resolves the best realizable price across both observed
// channels. It is stateless and safe for concurrent use; reads may be
// momentarily stale, which is accepted.
type Reconciler struct {
	quotes QuoteSource
}

// NewReconciler creates a reconciler over the given quote source.
func NewReconciler(quotes QuoteSource) *Reconciler {
	return &Reconciler{quotes: quotes}
}

// Resolve returns the best realizable sell price for the program: the larger
// of the latest scraped cpm and the latest peer offer, tagged with its
// origin. A rational seller realizes the higher channel; nothing is averaged
// or discounted. Ties go to "scraped". When neither channel has data the
// snapshot carries the "no quote" tag, a steady, expected state, not an
// error. Storage failures do propagate.
func (r *Reconciler) Resolve(ctx context.Context, program string) (models.MarketSnapshot, error) {
	snapshot := models.MarketSnapshot{Program: models.CanonicalProgram(program)}

	quote, err := r.quotes.Latest(ctx, program)
	if err != nil {
		return snapshot, err
	}
	if quote != nil {
		snapshot.ScrapedPrice = quote.CPM
	}

	offer, err := r.quotes.LatestOffer(ctx, program)
	if err != nil {
		return snapshot, err
	}
	if offer != nil {
		snapshot.P2PPrice = offer.PricePerThousand
	}

	switch {
	case snapshot.ScrapedPrice == 0 && snapshot.P2PPrice == 0:
		snapshot.Source = models.SourceNone
	case snapshot.ScrapedPrice >= snapshot.P2PPrice:
		snapshot.BestPrice = snapshot.ScrapedPrice
		snapshot.Source = models.SourceScraped
	default:
		snapshot.BestPrice = snapshot.P2PPrice
		snapshot.Source = models.SourceP2P
	}
	return snapshot, nil
}
