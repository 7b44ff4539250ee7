package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-backoffice/internal/pkg/errs"
)

var (
	ErrSaleNotFound  = errs.Mark(errs.New("sale not found"), errs.ErrNotFound)
	ErrEmptySale     = errs.Validation("sale must contain at least one line item")
	ErrNotSimpleSale = errs.Validation("book and quantity can only be changed on single-item sales")
)

// Sale is the aggregate root for a transaction. Its total always equals the
// sum of its line item subtotals.
type Sale struct {
	id         uuid.UUID
	customerID *uuid.UUID
	items      []LineItem
	total      decimal.Decimal
	createdAt  time.Time
	updatedAt  time.Time
}

func NewSale(customerID *uuid.UUID, items []LineItem, now time.Time) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptySale
	}
	for id, q := range QuantitiesByBook(items) {
		if err := ValidateQuantity(q); err != nil {
			return nil, errs.Wrapf(err, "book %s", id)
		}
	}
	s := &Sale{
		id:         uuid.New(),
		customerID: customerID,
		items:      append([]LineItem(nil), items...),
		createdAt:  now,
		updatedAt:  now,
	}
	s.total = sumSubtotals(s.items)
	if s.total.GreaterThan(MaxAmount) {
		return nil, errs.Wrapf(ErrAmountTooLarge, "total %s", s.total)
	}
	return s, nil
}

// ReconstructSale rebuilds a stored sale. The stored total is trusted.
func ReconstructSale(id uuid.UUID, customerID *uuid.UUID, items []LineItem, total decimal.Decimal, createdAt, updatedAt time.Time) *Sale {
	return &Sale{
		id:         id,
		customerID: customerID,
		items:      items,
		total:      total,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (s *Sale) ID() uuid.UUID          { return s.id }
func (s *Sale) CustomerID() *uuid.UUID { return s.customerID }
func (s *Sale) Total() decimal.Decimal { return s.total }
func (s *Sale) CreatedAt() time.Time   { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time   { return s.updatedAt }

func (s *Sale) Items() []LineItem {
	return append([]LineItem(nil), s.items...)
}

// IsSimple reports whether the sale has exactly one line item.
func (s *Sale) IsSimple() bool {
	return len(s.items) == 1
}

func (s *Sale) SimpleItem() (LineItem, error) {
	if !s.IsSimple() {
		return LineItem{}, ErrNotSimpleSale
	}
	return s.items[0], nil
}

// ReplaceSimpleItem swaps the only line item and recomputes the total.
func (s *Sale) ReplaceSimpleItem(item LineItem, now time.Time) error {
	if !s.IsSimple() {
		return ErrNotSimpleSale
	}
	s.items = []LineItem{item}
	s.total = sumSubtotals(s.items)
	s.updatedAt = now
	return nil
}

func (s *Sale) AssignCustomer(customerID *uuid.UUID, now time.Time) {
	s.customerID = customerID
	s.updatedAt = now
}

// QuantitiesByBook sums quantities per referenced book.
func (s *Sale) QuantitiesByBook() map[uuid.UUID]int64 {
	return QuantitiesByBook(s.items)
}

func QuantitiesByBook(items []LineItem) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(items))
	for _, it := range items {
		out[it.bookID] += int64(it.quantity)
	}
	return out
}

func sumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.subtotal)
	}
	return total
}
