package models

import (
	"fmt"
	"time"
)

// Lot is one discrete acquisition of miles held in a user's portfolio.
// Lots are owned by exactly one user and are only ever deleted, never updated
// in place. CostPerThousand is fixed at creation and never recomputed against
// later market prices.
type Lot struct {
	ID              uint64    `badgerhold:"key" json:"id"`
	OwnerID         string    `badgerholdIndex:"OwnerID" json:"owner_id"`
	Program         Program   `json:"program"`
	Quantity        int64     `json:"quantity"`
	CostTotal       float64   `json:"cost_total"`
	CostPerThousand float64   `json:"cost_per_thousand"`
	AcquiredAt      time.Time `json:"acquired_at"`
}

// NewLot builds a Lot with the derived cost per thousand.
func NewLot(ownerID, program string, quantity int64, costTotal float64) (Lot, error) {
	if quantity <= 0 {
		return Lot{}, fmt.Errorf("lot quantity must be positive, got %d", quantity)
	}
	if costTotal < 0 {
		return Lot{}, fmt.Errorf("lot cost must not be negative, got %.2f", costTotal)
	}
	return Lot{
		OwnerID:         ownerID,
		Program:         CanonicalProgram(program),
		Quantity:        quantity,
		CostTotal:       costTotal,
		CostPerThousand: costTotal / (float64(quantity) / 1000),
		AcquiredAt:      time.Now(),
	}, nil
}
