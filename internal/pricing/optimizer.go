package pricing

import (
	"errors"
	"fmt"

	"github.com/brmiles/milhas-radar/internal/models"
)

// ErrNoRoute means no acquisition scenario targets the destination program.
// Callers present an explicit "insufficient data" state; this is expected
// whenever promo intelligence has nothing for a program.
var ErrNoRoute = errors.New("no acquisition scenario for destination program")

// Action is the optimizer's recommendation.
type Action string

const (
	ActionRedeemWithPoints Action = "REDEEM_WITH_POINTS"
	ActionPayCash          Action = "PAY_CASH"
)

// Recommendation is the outcome of evaluating all routes to a destination.
type Recommendation struct {
	Destination     models.Program
	Scenario        models.AcquisitionScenario
	CostPerThousand float64
	TotalCost       float64
	Action          Action
	// Savings is set when redeeming beats cash; AvoidedLoss when cash wins.
	Savings     float64
	AvoidedLoss float64
}

// Optimize evaluates every scenario targeting the destination program,
// selects the cheapest way to produce pointsRequired points, and compares it
// to paying cashPrice outright. Validation failures from the cost formula
// propagate unchanged.
func Optimize(destination string, pointsRequired int64, cashPrice float64, scenarios []models.AcquisitionScenario) (Recommendation, error) {
	dest := models.CanonicalProgram(destination)
	rec := Recommendation{Destination: dest}

	found := false
	for _, sc := range scenarios {
		if sc.DestinationProgram != dest {
			continue
		}
		cpm, err := Cost(sc.BasePrice, sc.DiscountPct, sc.BonusPct)
		if err != nil {
			return Recommendation{}, fmt.Errorf("scenario via %s: %w", sc.SourceProgram, err)
		}
		total := float64(pointsRequired) / 1000 * cpm
		if !found || total < rec.TotalCost {
			found = true
			rec.Scenario = sc
			rec.CostPerThousand = cpm
			rec.TotalCost = total
		}
	}
	if !found {
		return Recommendation{}, fmt.Errorf("%w: %s", ErrNoRoute, dest)
	}

	if rec.TotalCost < cashPrice {
		rec.Action = ActionRedeemWithPoints
		rec.Savings = cashPrice - rec.TotalCost
	} else {
		rec.Action = ActionPayCash
		rec.AvoidedLoss = rec.TotalCost - cashPrice
	}
	return rec, nil
}
