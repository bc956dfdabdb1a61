package model

// LoyaltyStatus is the loyalty tier of an account.
type LoyaltyStatus string

const (
	LoyaltyBronze LoyaltyStatus = "BRONZE"
	LoyaltySilver LoyaltyStatus = "SILVER"
	LoyaltyGold   LoyaltyStatus = "GOLD"
)

// Loyalty mirrors the `loyalty` table: one row per username.  Status and
// Discount are derived from ReservationCount by the tier engine.
type Loyalty struct {
	ID               int64         `json:"-"`
	Username         string        `json:"-"`
	ReservationCount int           `json:"reservationCount"`
	Status           LoyaltyStatus `json:"status"`
	Discount         int           `json:"discount"`
}
