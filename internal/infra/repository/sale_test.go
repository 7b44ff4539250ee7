//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"bookstore-backoffice/internal/domain/sale"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSaleWriteQueries struct {
	mock.Mock
}

func (m *MockSaleWriteQueries) CreateSale(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateSaleParams) error {
	return m.Called(ctx, db, arg).Error(0)
}

func (m *MockSaleWriteQueries) CreateSaleItem(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateSaleItemParams) error {
	return m.Called(ctx, db, arg).Error(0)
}

func (m *MockSaleWriteQueries) GetSaleForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Sales, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Sales), args.Error(1)
}

func (m *MockSaleWriteQueries) ListSaleItemsBySale(ctx context.Context, db sqlc.DBTX, saleID uuid.UUID) ([]sqlc.SaleItems, error) {
	args := m.Called(ctx, db, saleID)
	return args.Get(0).([]sqlc.SaleItems), args.Error(1)
}

func (m *MockSaleWriteQueries) UpdateSale(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateSaleParams) error {
	return m.Called(ctx, db, arg).Error(0)
}

func (m *MockSaleWriteQueries) DeleteSaleItemsBySale(ctx context.Context, db sqlc.DBTX, saleID uuid.UUID) error {
	return m.Called(ctx, db, saleID).Error(0)
}

func (m *MockSaleWriteQueries) DeleteSale(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(int64), args.Error(1)
}

func newTestSale(t *testing.T) *sale.Sale {
	t.Helper()
	first, err := sale.NewLineItem(uuid.New(), 2, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	second, err := sale.NewLineItem(uuid.New(), 1, decimal.RequireFromString("4.50"))
	require.NoError(t, err)
	s, err := sale.NewSale(nil, []sale.LineItem{first, second}, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

func TestSaleRepositoryCreate(t *testing.T) {
	s := newTestSale(t)
	q := new(MockSaleWriteQueries)
	q.On("CreateSale", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.CreateSaleParams) bool {
		return p.ID == s.ID() && !p.CustomerID.Valid && p.TotalAmount.Equal(decimal.RequireFromString("24.50"))
	})).Return(nil)
	for i, it := range s.Items() {
		q.On("CreateSaleItem", mock.Anything, mock.Anything, sqlc.CreateSaleItemParams{
			SaleID:    s.ID(),
			BookID:    it.BookID(),
			Position:  int32(i),
			Quantity:  it.Quantity(),
			UnitPrice: it.UnitPrice(),
			Subtotal:  it.Subtotal(),
		}).Return(nil)
	}

	err := NewSaleRepository(q, nil).Create(context.Background(), s)
	require.NoError(t, err)
	q.AssertExpectations(t)
}

func TestSaleRepositoryGetForUpdate(t *testing.T) {
	saleID := uuid.New()
	customerID := uuid.New()
	bookID := uuid.New()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		q := new(MockSaleWriteQueries)
		q.On("GetSaleForUpdate", mock.Anything, mock.Anything, saleID).Return(sqlc.Sales{
			ID:          saleID,
			CustomerID:  pgconv.UUIDPtrToPgtype(&customerID),
			TotalAmount: decimal.RequireFromString("30.00"),
			CreatedAt:   pgconv.TimeToPgtype(created),
			UpdatedAt:   pgconv.TimeToPgtype(created),
		}, nil)
		q.On("ListSaleItemsBySale", mock.Anything, mock.Anything, saleID).Return([]sqlc.SaleItems{
			{SaleID: saleID, BookID: bookID, Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), Subtotal: decimal.RequireFromString("30.00")},
		}, nil)

		got, err := NewSaleRepository(q, nil).GetForUpdate(context.Background(), saleID)
		require.NoError(t, err)

		assert.Equal(t, saleID, got.ID())
		require.NotNil(t, got.CustomerID())
		assert.Equal(t, customerID, *got.CustomerID())
		assert.True(t, got.IsSimple())
		item, err := got.SimpleItem()
		require.NoError(t, err)
		assert.Equal(t, bookID, item.BookID())
		assert.Equal(t, int32(3), item.Quantity())
	})

	t.Run("not found", func(t *testing.T) {
		q := new(MockSaleWriteQueries)
		q.On("GetSaleForUpdate", mock.Anything, mock.Anything, saleID).Return(sqlc.Sales{}, pgx.ErrNoRows)

		_, err := NewSaleRepository(q, nil).GetForUpdate(context.Background(), saleID)
		assert.True(t, errs.Is(err, sale.ErrSaleNotFound))
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestSaleRepositoryDelete(t *testing.T) {
	saleID := uuid.New()

	tests := []struct {
		name     string
		affected int64
		dbErr    error
		wantKind errs.Kind
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantKind: errs.KindNotFound},
		{name: "db failure", dbErr: assert.AnError, wantKind: errs.KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockSaleWriteQueries)
			q.On("DeleteSale", mock.Anything, mock.Anything, saleID).Return(tt.affected, tt.dbErr)

			err := NewSaleRepository(q, nil).Delete(context.Background(), saleID)
			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
			}
		})
	}
}
