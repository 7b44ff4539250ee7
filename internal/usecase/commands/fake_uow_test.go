//go:build unit

package commands_test

import (
	"context"
	"maps"
	"sync"
	"time"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/domain/customer"
	"bookstore-backoffice/internal/domain/sale"
	"bookstore-backoffice/internal/domain/user"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeBook struct {
	title string
	price decimal.Decimal
	stock int32
}

type fakeState struct {
	books     map[uuid.UUID]fakeBook
	sales     map[uuid.UUID]*sale.Sale
	customers map[uuid.UUID]string
	lastLogin map[uuid.UUID]time.Time
	users     map[string]*user.User
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		books:     maps.Clone(s.books),
		sales:     make(map[uuid.UUID]*sale.Sale, len(s.sales)),
		customers: maps.Clone(s.customers),
		lastLogin: maps.Clone(s.lastLogin),
		users:     maps.Clone(s.users),
	}
	for id, sl := range s.sales {
		out.sales[id] = copySale(sl)
	}
	return out
}

func copySale(s *sale.Sale) *sale.Sale {
	return sale.ReconstructSale(s.ID(), s.CustomerID(), s.Items(), s.Total(), s.CreatedAt(), s.UpdatedAt())
}

// fakeUoW keeps everything in memory. A failed unit of work restores the
// snapshot taken when it began, so rollbacks are observable.
type fakeUoW struct {
	mu        sync.Mutex
	state     fakeState
	lockOrder [][]uuid.UUID
	commits   int
	rollbacks int
	// failUpdateLastLogin makes UpdateLastLogin fail.
	failUpdateLastLogin bool
	// failAdjustOn fails Adjust for that book.
	failAdjustOn uuid.UUID
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: fakeState{
		books:     map[uuid.UUID]fakeBook{},
		sales:     map[uuid.UUID]*sale.Sale{},
		customers: map[uuid.UUID]string{},
		lastLogin: map[uuid.UUID]time.Time{},
		users:     map[string]*user.User{},
	}}
}

func (u *fakeUoW) addBook(title, price string, stock int32) uuid.UUID {
	id := uuid.New()
	u.state.books[id] = fakeBook{title: title, price: decimal.RequireFromString(price), stock: stock}
	return id
}

func (u *fakeUoW) addCustomer(name string) uuid.UUID {
	id := uuid.New()
	u.state.customers[id] = name
	return id
}

func (u *fakeUoW) stock(id uuid.UUID) int32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.books[id].stock
}

func (u *fakeUoW) sale(id uuid.UUID) (*sale.Sale, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.state.sales[id]
	return s, ok
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snapshot := u.state.clone()
	if err := fn(ctx, &fakeTx{uow: u}); err != nil {
		u.state = snapshot
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return fakeReads{uow: u}
}

type fakeTx struct {
	uow *fakeUoW
}

func (t *fakeTx) Stock() shared.StockLedger    { return fakeLedger{uow: t.uow} }
func (t *fakeTx) Sales() shared.SaleRepository { return fakeSales{uow: t.uow} }
func (t *fakeTx) Users() shared.UserRepository { return fakeUsers{uow: t.uow} }
func (t *fakeTx) Reads() shared.CommandReads   { return fakeReads{uow: t.uow} }
func (t *fakeTx) DB() sqlc.DBTX                { return nil }

type fakeLedger struct{ uow *fakeUoW }

func (l fakeLedger) LockBooks(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*book.Book, error) {
	l.uow.lockOrder = append(l.uow.lockOrder, append([]uuid.UUID(nil), ids...))
	out := make(map[uuid.UUID]*book.Book, len(ids))
	for _, id := range ids {
		if b, ok := l.uow.state.books[id]; ok {
			out[id] = book.ReconstructBook(id, b.title, b.price, b.stock)
		}
	}
	return out, nil
}

func (l fakeLedger) Adjust(_ context.Context, bookID uuid.UUID, delta int32) (int32, error) {
	if bookID == l.uow.failAdjustOn {
		return 0, errs.Mark(errs.New("connection reset"), errs.ErrStorage)
	}
	b, ok := l.uow.state.books[bookID]
	if !ok {
		return 0, errs.Wrapf(book.ErrBookNotFound, "book %s", bookID)
	}
	next, _, err := book.ApplyStockDelta(b.stock, delta)
	if err != nil {
		return 0, err
	}
	b.stock = next
	l.uow.state.books[bookID] = b
	return b.stock, nil
}

type fakeSales struct{ uow *fakeUoW }

func (r fakeSales) Create(_ context.Context, s *sale.Sale) error {
	r.uow.state.sales[s.ID()] = copySale(s)
	return nil
}

func (r fakeSales) GetForUpdate(_ context.Context, id uuid.UUID) (*sale.Sale, error) {
	s, ok := r.uow.state.sales[id]
	if !ok {
		return nil, errs.Wrapf(sale.ErrSaleNotFound, "sale %s", id)
	}
	return copySale(s), nil
}

func (r fakeSales) Update(_ context.Context, s *sale.Sale) error {
	if _, ok := r.uow.state.sales[s.ID()]; !ok {
		return sale.ErrSaleNotFound
	}
	r.uow.state.sales[s.ID()] = copySale(s)
	return nil
}

func (r fakeSales) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.uow.state.sales[id]; !ok {
		return sale.ErrSaleNotFound
	}
	delete(r.uow.state.sales, id)
	return nil
}

type fakeUsers struct{ uow *fakeUoW }

func (r fakeUsers) Create(_ context.Context, u *user.User) error {
	if _, taken := r.uow.state.users[u.Email().Value()]; taken {
		return errs.Wrap(user.ErrEmailTaken, u.Email().Value())
	}
	r.uow.state.users[u.Email().Value()] = u
	return nil
}

func (r fakeUsers) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	if r.uow.failUpdateLastLogin {
		return errs.Mark(errs.New("read only transaction"), errs.ErrStorage)
	}
	r.uow.state.lastLogin[userID] = at
	return nil
}

type fakeReads struct{ uow *fakeUoW }

func (r fakeReads) CustomerByID(_ context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	name, ok := r.uow.state.customers[id]
	if !ok {
		return nil, errs.Wrap(customer.ErrCustomerNotFound, id.String())
	}
	return &shared.CustomerSnapshot{ID: id, Name: name}, nil
}

// recordingPublisher captures every published batch.
type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]shared.LowStockAlert
	err     error
}

func (p *recordingPublisher) PublishLowStock(_ context.Context, alerts []shared.LowStockAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, alerts)
	return p.err
}

func (p *recordingPublisher) all() []shared.LowStockAlert {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.LowStockAlert
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}
