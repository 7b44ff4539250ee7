package commands

import (
	"context"
	"slices"
	"time"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/domain/sale"
	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/patch"
	"bookstore-backoffice/internal/pkg/tracing"
	"bookstore-backoffice/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type LineItemInput struct {
	BookID   uuid.UUID
	Quantity int32
	// UnitPrice pins the price; nil means the book's current price.
	UnitPrice *decimal.Decimal
}

type CreateSaleInput struct {
	CustomerID *uuid.UUID
	Items      []LineItemInput
}

// UpdateSalePatch changes a sale in place. BookID and Quantity apply to
// single-item sales only. ClearCustomer detaches the customer and wins over
// CustomerID.
type UpdateSalePatch struct {
	BookID        *uuid.UUID
	Quantity      *int32
	CustomerID    *uuid.UUID
	ClearCustomer bool
}

func (p UpdateSalePatch) IsEmpty() bool {
	return p.BookID == nil && p.Quantity == nil && p.CustomerID == nil && !p.ClearCustomer
}

type SaleCommands interface {
	CreateSale(ctx context.Context, in CreateSaleInput) (*sale.Sale, error)
	UpdateSale(ctx context.Context, saleID uuid.UUID, p UpdateSalePatch) (*sale.Sale, error)
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
}

type saleCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher shared.StockAlertPublisher
	clock     clock.Clock
	threshold int32
}

func NewSaleCommands(uow shared.UnitOfWork, publisher shared.StockAlertPublisher, clk clock.Clock, cfg config.Config) SaleCommands {
	return &saleCommandsImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		threshold: cfg.Broker.LowStockThreshold,
	}
}

func (c *saleCommandsImpl) CreateSale(ctx context.Context, in CreateSaleInput) (_ *sale.Sale, err error) {
	ctx, span := tracing.Start(ctx, "SaleCommands.CreateSale", attribute.Int("sale.items", len(in.Items)))
	defer func() { tracing.End(span, err) }()

	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	var created *sale.Sale
	alerts := newAlertSet(c.threshold, shared.AlertSourceSale)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		requested, order := aggregate(in.Items)

		books, err := tx.Stock().LockBooks(ctx, sortedIDs(order))
		if err != nil {
			return err
		}
		for _, id := range order {
			b, ok := books[id]
			if !ok {
				return errs.Wrapf(book.ErrBookNotFound, "book %s", id)
			}
			if err := b.EnsureAvailable(requested[id]); err != nil {
				return err
			}
		}

		if in.CustomerID != nil {
			if _, err := tx.Reads().CustomerByID(ctx, *in.CustomerID); err != nil {
				return err
			}
		}

		items := make([]sale.LineItem, 0, len(in.Items))
		for _, it := range in.Items {
			price := patch.Coalesce(it.UnitPrice, books[it.BookID].Price())
			item, err := sale.NewLineItem(it.BookID, it.Quantity, price)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		s, err := sale.NewSale(in.CustomerID, items, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Sales().Create(ctx, s); err != nil {
			return err
		}

		for _, item := range s.Items() {
			next, err := tx.Stock().Adjust(ctx, item.BookID(), -item.Quantity())
			if err != nil {
				return err
			}
			alerts.observe(item.BookID(), next)
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("sale.id", created.ID().String()))
	alerts.publish(ctx, c.publisher, created.ID())
	return created, nil
}

func (c *saleCommandsImpl) UpdateSale(ctx context.Context, saleID uuid.UUID, p UpdateSalePatch) (_ *sale.Sale, err error) {
	ctx, span := tracing.Start(ctx, "SaleCommands.UpdateSale", attribute.String("sale.id", saleID.String()))
	defer func() { tracing.End(span, err) }()

	var updated *sale.Sale
	alerts := newAlertSet(c.threshold, shared.AlertSourceSale)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sales().GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		updated = s
		if p.IsEmpty() {
			return nil
		}

		now := c.clock.Now()
		changed := false

		switch {
		case p.ClearCustomer:
			if s.CustomerID() != nil {
				s.AssignCustomer(nil, now)
				changed = true
			}
		case p.CustomerID != nil:
			if _, err := tx.Reads().CustomerByID(ctx, *p.CustomerID); err != nil {
				return err
			}
			if s.CustomerID() == nil || *s.CustomerID() != *p.CustomerID {
				id := *p.CustomerID
				s.AssignCustomer(&id, now)
				changed = true
			}
		}

		if p.BookID != nil || p.Quantity != nil {
			itemChanged, err := c.replaceItem(ctx, tx, s, p, now, alerts)
			if err != nil {
				return err
			}
			changed = changed || itemChanged
		}

		if !changed {
			return nil
		}
		return tx.Sales().Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	alerts.publish(ctx, c.publisher, saleID)
	return updated, nil
}

// replaceItem moves stock for a change of book or quantity on a simple sale
// and swaps the line item. It reports whether anything changed.
func (c *saleCommandsImpl) replaceItem(
	ctx context.Context,
	tx shared.Tx,
	s *sale.Sale,
	p UpdateSalePatch,
	now time.Time,
	alerts *alertSet,
) (bool, error) {
	old, err := s.SimpleItem()
	if err != nil {
		return false, err
	}

	newBookID := patch.Coalesce(p.BookID, old.BookID())
	newQty := patch.Coalesce(p.Quantity, old.Quantity())
	if newBookID == uuid.Nil {
		return false, sale.ErrMissingBook
	}
	if err := sale.ValidateQuantity(int64(newQty)); err != nil {
		return false, err
	}

	if newBookID == old.BookID() {
		if !patch.Changed(&newQty, old.Quantity()) {
			return false, nil
		}
		return true, c.resize(ctx, tx, s, old, newQty, now, alerts)
	}
	return true, c.swapBook(ctx, tx, s, old, newBookID, newQty, now, alerts)
}

// resize keeps the pinned unit price and moves only the difference.
func (c *saleCommandsImpl) resize(
	ctx context.Context,
	tx shared.Tx,
	s *sale.Sale,
	old sale.LineItem,
	newQty int32,
	now time.Time,
	alerts *alertSet,
) error {
	diff := newQty - old.Quantity()

	books, err := tx.Stock().LockBooks(ctx, []uuid.UUID{old.BookID()})
	if err != nil {
		return err
	}
	b, ok := books[old.BookID()]
	if !ok {
		return errs.Wrapf(book.ErrBookNotFound, "book %s", old.BookID())
	}
	if diff > 0 {
		if err := b.EnsureAvailable(int64(diff)); err != nil {
			return err
		}
	}

	next, err := tx.Stock().Adjust(ctx, old.BookID(), -diff)
	if err != nil {
		return err
	}
	alerts.observe(old.BookID(), next)

	item, err := sale.NewLineItem(old.BookID(), newQty, old.UnitPrice())
	if err != nil {
		return err
	}
	return s.ReplaceSimpleItem(item, now)
}

// swapBook returns the old quantity to the old book and takes newQty from the
// new one, priced at the new book's current price.
func (c *saleCommandsImpl) swapBook(
	ctx context.Context,
	tx shared.Tx,
	s *sale.Sale,
	old sale.LineItem,
	newBookID uuid.UUID,
	newQty int32,
	now time.Time,
	alerts *alertSet,
) error {
	books, err := tx.Stock().LockBooks(ctx, sortedIDs([]uuid.UUID{old.BookID(), newBookID}))
	if err != nil {
		return err
	}
	nb, ok := books[newBookID]
	if !ok {
		return errs.Wrapf(book.ErrBookNotFound, "book %s", newBookID)
	}
	if err := nb.EnsureAvailable(int64(newQty)); err != nil {
		return err
	}

	if _, err := tx.Stock().Adjust(ctx, old.BookID(), old.Quantity()); err != nil {
		return err
	}
	next, err := tx.Stock().Adjust(ctx, newBookID, -newQty)
	if err != nil {
		return err
	}
	alerts.observe(newBookID, next)

	item, err := sale.NewLineItem(newBookID, newQty, nb.Price())
	if err != nil {
		return err
	}
	return s.ReplaceSimpleItem(item, now)
}

func (c *saleCommandsImpl) DeleteSale(ctx context.Context, saleID uuid.UUID) (err error) {
	ctx, span := tracing.Start(ctx, "SaleCommands.DeleteSale", attribute.String("sale.id", saleID.String()))
	defer func() { tracing.End(span, err) }()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sales().GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		quantities := s.QuantitiesByBook()
		ids := make([]uuid.UUID, 0, len(quantities))
		for id := range quantities {
			ids = append(ids, id)
		}
		ids = sortedIDs(ids)

		if _, err := tx.Stock().LockBooks(ctx, ids); err != nil {
			return err
		}
		for _, id := range ids {
			q := quantities[id]
			if q > book.MaxStock {
				return errs.Wrapf(book.ErrStockOverflow, "book %s returns %d", id, q)
			}
			if _, err := tx.Stock().Adjust(ctx, id, int32(q)); err != nil {
				return err
			}
		}

		return tx.Sales().Delete(ctx, saleID)
	})
}

func validateItems(items []LineItemInput) error {
	if len(items) == 0 {
		return sale.ErrEmptySale
	}
	for _, it := range items {
		if it.BookID == uuid.Nil {
			return sale.ErrMissingBook
		}
		if err := sale.ValidateQuantity(int64(it.Quantity)); err != nil {
			return err
		}
		if it.UnitPrice != nil {
			if err := sale.ValidateUnitPrice(*it.UnitPrice); err != nil {
				return err
			}
		}
	}
	totals, order := aggregate(items)
	for _, id := range order {
		if err := sale.ValidateQuantity(totals[id]); err != nil {
			return errs.Wrapf(err, "book %s", id)
		}
	}
	return nil
}

// aggregate sums quantities per book and keeps first-seen order.
func aggregate(items []LineItemInput) (map[uuid.UUID]int64, []uuid.UUID) {
	totals := make(map[uuid.UUID]int64, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if _, seen := totals[it.BookID]; !seen {
			order = append(order, it.BookID)
		}
		totals[it.BookID] += int64(it.Quantity)
	}
	return totals, order
}

// sortedIDs returns a sorted, de-duplicated copy. Locks are always taken in
// this order.
func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}
