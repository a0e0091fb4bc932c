package models

import "time"

// Quote is one scraped sell-side quote for a program. Rows are append-only:
// a correction is a new row, never an edit of history.
type Quote struct {
	ID         uint64    `badgerhold:"key" json:"id"`
	Program    Program   `badgerholdIndex:"Program" json:"program"`
	TenorDays  int       `json:"tenor_days"`
	TotalPrice float64   `json:"total_price"`
	CPM        float64   `json:"cpm"`
	RecordedAt time.Time `json:"recorded_at"`
}

// OfferType distinguishes buy-side from sell-side peer offers.
type OfferType string

const (
	OfferBuy  OfferType = "BUY"
	OfferSell OfferType = "SELL"
)

// P2POffer is a manually reported price observed in informal peer trading
// channels. Append-only, same policy as Quote.
type P2POffer struct {
	ID               uint64    `badgerhold:"key" json:"id"`
	SourceLabel      string    `json:"source_label"`
	Program          Program   `badgerholdIndex:"Program" json:"program"`
	OfferType        OfferType `json:"offer_type"`
	PricePerThousand float64   `json:"price_per_thousand"`
	RecordedAt       time.Time `json:"recorded_at"`
	Note             string    `json:"note,omitempty"`
}

// Market snapshot source tags.
const (
	SourceScraped = "scraped"
	SourceP2P     = "P2P"
	SourceNone    = "no quote"
)

// MarketSnapshot is the reconciled view of a program's current sell price.
// Derived on demand, never persisted.
type MarketSnapshot struct {
	Program      Program `json:"program"`
	ScrapedPrice float64 `json:"scraped_price"`
	P2PPrice     float64 `json:"p2p_price"`
	BestPrice    float64 `json:"best_price"`
	Source       string  `json:"source"`
}

// HasPrice reports whether any channel produced a usable price.
func (s MarketSnapshot) HasPrice() bool {
	return s.Source != SourceNone
}

// AcquisitionScenario describes one way of producing points in a destination
// program: buy bank points at a discount, transfer with a promotional bonus.
type AcquisitionScenario struct {
	SourceProgram      Program `json:"source_program"`
	BasePrice          float64 `json:"base_price"`
	DiscountPct        float64 `json:"discount_pct"`
	BonusPct           float64 `json:"bonus_pct"`
	DestinationProgram Program `json:"destination_program"`
}
