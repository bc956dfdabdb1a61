// Package loyalty implements the loyalty tier engine: the rules that derive
// an account's status and discount from its reservation counter.
package loyalty

import (
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const (
	silverThreshold = 10
	goldThreshold   = 20

	bronzeDiscount = 5
	silverDiscount = 7
	goldDiscount   = 10
)

// ErrCounterExhausted is returned when decrementing an account whose counter
// is already zero.
var ErrCounterExhausted = errors.New("loyalty: reservation counter is already zero")

// Classify maps a reservation counter to its tier and discount percent.
func Classify(count int) (model.LoyaltyStatus, int) {
	switch {
	case count >= goldThreshold:
		return model.LoyaltyGold, goldDiscount
	case count >= silverThreshold:
		return model.LoyaltySilver, silverDiscount
	default:
		return model.LoyaltyBronze, bronzeDiscount
	}
}

// NewAccount returns the account created by a user's first reservation.
func NewAccount(username string) model.Loyalty {
	acc := model.Loyalty{Username: username, ReservationCount: 1}
	reclassify(&acc)
	return acc
}

// Default is the account assumed for a user the loyalty service does not
// know yet.  It is what NewAccount would produce, without a username.
func Default() model.Loyalty {
	return NewAccount("")
}

// Increment counts one more reservation and recomputes the tier.
func Increment(acc *model.Loyalty) {
	acc.ReservationCount++
	reclassify(acc)
}

// Decrement removes one reservation from the counter and recomputes the
// tier.  The counter never drops below zero.
func Decrement(acc *model.Loyalty) error {
	if acc.ReservationCount <= 0 {
		return ErrCounterExhausted
	}
	acc.ReservationCount--
	reclassify(acc)
	return nil
}

// Consistent reports whether the stored tier matches the counter.  An
// inconsistent row is corrupt.
func Consistent(acc model.Loyalty) bool {
	status, discount := Classify(acc.ReservationCount)
	return acc.ReservationCount >= 0 && acc.Status == status && acc.Discount == discount
}

// reclassify runs after every mutation, whatever the size of the change.
func reclassify(acc *model.Loyalty) {
	acc.Status, acc.Discount = Classify(acc.ReservationCount)
}

// ApplyDiscount returns cost reduced by percent, truncating toward zero.
func ApplyDiscount(cost, percent int) int {
	return cost - cost*percent/100
}
