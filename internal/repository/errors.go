// Package repository defines the MySQL data access layer of the three
// backing services and the sentinel errors they share.  Handlers translate
// the sentinels into HTTP statuses: the not-found values become 404 and
// ErrConflict becomes 409.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrLoyaltyNotFound     = errors.New("loyalty account not found")
)

// ErrCorruptLoyalty marks a stored account whose status or discount does
// not follow from its reservation count.
var ErrCorruptLoyalty = errors.New("loyalty account corrupt")

// ErrConflict is returned when a mutation cannot be applied to the current
// state of a row, such as decrementing an exhausted loyalty counter.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
