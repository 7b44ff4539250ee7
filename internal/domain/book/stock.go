package book

import (
	"math"

	"github.com/google/uuid"

	"bookstore-backoffice/internal/pkg/errs"
)

var (
	ErrBookNotFound      = errs.Mark(errs.New("book not found"), errs.ErrNotFound)
	ErrInsufficientStock = errs.Mark(errs.New("not enough stock for book"), errs.ErrInsufficientStock)
	ErrStockOverflow     = errs.Validation("stock would exceed the maximum storable count")
)

// MaxStock is the largest count the stock column holds.
const MaxStock = math.MaxInt32

// ApplyStockDelta returns current+delta floored at zero. clamped is true when
// the floor absorbed part of a negative delta. A result above MaxStock is
// rejected rather than wrapped.
func ApplyStockDelta(current, delta int32) (next int32, clamped bool, err error) {
	sum := int64(current) + int64(delta)
	switch {
	case sum < 0:
		return 0, true, nil
	case sum > MaxStock:
		return current, false, errs.Wrapf(ErrStockOverflow, "current %d, delta %d", current, delta)
	}
	return int32(sum), false, nil
}

// EnsureAvailable fails when requested exceeds the stock on hand.
func EnsureAvailable(bookID uuid.UUID, stock int32, requested int64) error {
	if requested > int64(stock) {
		return errs.Wrapf(ErrInsufficientStock, "book %s: requested %d, available %d", bookID, requested, stock)
	}
	return nil
}
