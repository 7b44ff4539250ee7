package sale

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-backoffice/internal/pkg/errs"
)

// Column bounds: quantities are integer, prices numeric(10,2), amounts numeric(12,2).
const MaxQuantity = 1_000_000

var (
	MaxUnitPrice = decimal.RequireFromString("99999999.99")
	MaxAmount    = decimal.RequireFromString("9999999999.99")
)

var (
	ErrInvalidQuantity  = errs.Validation("quantity must be at least 1")
	ErrQuantityTooLarge = errs.Validation("quantity exceeds the maximum per book")
	ErrInvalidPrice     = errs.Validation("unit price must be positive")
	ErrPricePrecision   = errs.Validation("unit price must have at most two decimal places")
	ErrPriceTooLarge    = errs.Validation("unit price exceeds the maximum")
	ErrAmountTooLarge   = errs.Validation("amount exceeds the maximum")
	ErrMissingBook      = errs.Validation("line item must reference a book")
)

// LineItem is one (book, quantity, unit price) entry. The subtotal is derived
// and fixed at construction.
type LineItem struct {
	bookID    uuid.UUID
	quantity  int32
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

func NewLineItem(bookID uuid.UUID, quantity int32, unitPrice decimal.Decimal) (LineItem, error) {
	if bookID == uuid.Nil {
		return LineItem{}, ErrMissingBook
	}
	if err := ValidateQuantity(int64(quantity)); err != nil {
		return LineItem{}, err
	}
	if err := ValidateUnitPrice(unitPrice); err != nil {
		return LineItem{}, err
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt32(quantity))
	if subtotal.GreaterThan(MaxAmount) {
		return LineItem{}, errs.Wrapf(ErrAmountTooLarge, "subtotal %s", subtotal)
	}
	return LineItem{
		bookID:    bookID,
		quantity:  quantity,
		unitPrice: unitPrice,
		subtotal:  subtotal,
	}, nil
}

// ValidateQuantity checks a line quantity or a per-book total.
func ValidateQuantity(q int64) error {
	switch {
	case q < 1:
		return ErrInvalidQuantity
	case q > MaxQuantity:
		return errs.Wrapf(ErrQuantityTooLarge, "got %d, max %d", q, MaxQuantity)
	}
	return nil
}

// ValidateUnitPrice accepts positive whole-cent prices that fit the price column.
// Whole cents keep every subtotal exact and above zero.
func ValidateUnitPrice(p decimal.Decimal) error {
	switch {
	case !p.IsPositive():
		return ErrInvalidPrice
	case !p.Equal(p.Round(2)):
		return errs.Wrapf(ErrPricePrecision, "got %s", p)
	case p.GreaterThan(MaxUnitPrice):
		return errs.Wrapf(ErrPriceTooLarge, "got %s", p)
	}
	return nil
}

func (li LineItem) BookID() uuid.UUID          { return li.bookID }
func (li LineItem) Quantity() int32            { return li.quantity }
func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }
func (li LineItem) Subtotal() decimal.Decimal  { return li.subtotal }

func ReconstructLineItem(bookID uuid.UUID, quantity int32, unitPrice, subtotal decimal.Decimal) LineItem {
	return LineItem{bookID: bookID, quantity: quantity, unitPrice: unitPrice, subtotal: subtotal}
}
