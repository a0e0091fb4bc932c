// Package portfolio values held lots against the best available market price.
package portfolio

import (
	"context"

	"github.com/brmiles/milhas-radar/internal/models"
)

// PriceResolver supplies the best realizable price per program.
type PriceResolver interface {
	Resolve(ctx context.Context, program string) (models.MarketSnapshot, error)
}

// LotValuation is one lot valued at the current market.
type LotValuation struct {
	Lot         models.Lot
	Snapshot    models.MarketSnapshot
	MarketValue float64
	Profit      float64
	MarginPct   float64
}

// Valuation is the full portfolio projection.
type Valuation struct {
	Lots        []LotValuation
	TotalCost   float64
	TotalValue  float64
	TotalProfit float64
}

// Valuator is a pure projection over lots and current market snapshots.
// It performs no writes and may be recomputed freely.
type Valuator struct {
	prices PriceResolver
}

// NewValuator creates a valuator over the given price resolver.
func NewValuator(prices PriceResolver) *Valuator {
	return &Valuator{prices: prices}
}

// Valuate prices every lot at the best available market price. Lots with no
// quote value at zero and keep the "no quote" tag so callers can render an
// explicit awaiting-data state instead of treating zero as a real price.
func (v *Valuator) Valuate(ctx context.Context, lots []models.Lot) (Valuation, error) {
	result := Valuation{Lots: make([]LotValuation, 0, len(lots))}

	for _, lot := range lots {
		snapshot, err := v.prices.Resolve(ctx, string(lot.Program))
		if err != nil {
			return Valuation{}, err
		}

		marketValue := float64(lot.Quantity) / 1000 * snapshot.BestPrice
		profit := marketValue - lot.CostTotal
		marginPct := 0.0
		if lot.CostTotal > 0 {
			marginPct = profit / lot.CostTotal * 100
		}

		result.Lots = append(result.Lots, LotValuation{
			Lot:         lot,
			Snapshot:    snapshot,
			MarketValue: marketValue,
			Profit:      profit,
			MarginPct:   marginPct,
		})
		result.TotalCost += lot.CostTotal
		result.TotalValue += marketValue
	}

	result.TotalProfit = result.TotalValue - result.TotalCost
	return result, nil
}
