package model

import "github.com/google/uuid"

// PaymentStatus is the state of a payment in the ledger.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentCanceled PaymentStatus = "CANCELED"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentCanceled
}

// Payment mirrors the `payments` table.  Price is fixed at creation.
type Payment struct {
	ID         int64         `json:"-"`
	PaymentUID uuid.UUID     `json:"paymentUid"`
	Status     PaymentStatus `json:"status"`
	Price      int           `json:"price"`
}

// PaymentInfo is the payment part of gateway responses and the body of a
// create-payment request.
type PaymentInfo struct {
	Status PaymentStatus `json:"status"`
	Price  int           `json:"price"`
}
