// Package pricing computes the production cost of acquiring points through
// bank-point transfer promotions and recommends redeem-vs-cash routes.
package pricing

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed calculator inputs. Inputs are never clamped
// or defaulted: a negative discount fails fast at the caller.
var ErrValidation = errors.New("invalid calculator input")

// Cost returns the cost per thousand points of buying bank points at
// basePrice per thousand with a percentage discount, then transferring them
// into the destination program with a percentage bonus.
//
// acquisition = basePrice * (1 - discountPct/100)
// cost        = acquisition / (1 + bonusPct/100)
func Cost(basePrice, discountPct, bonusPct float64) (float64, error) {
	if discountPct < 0 || discountPct >= 100 {
		return 0, fmt.Errorf("%w: discount_pct must be in [0, 100), got %.2f", ErrValidation, discountPct)
	}
	if bonusPct < 0 {
		return 0, fmt.Errorf("%w: bonus_pct must not be negative, got %.2f", ErrValidation, bonusPct)
	}
	acquisition := basePrice * (1 - discountPct/100)
	return acquisition / (1 + bonusPct/100), nil
}
