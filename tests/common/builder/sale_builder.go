//go:build unit || e2e

package builder

import (
	"time"

	"bookstore-backoffice/internal/domain/sale"
	reqdto "bookstore-backoffice/internal/handler/dto/request"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleBuilder struct {
	ID         uuid.UUID
	CustomerID *uuid.UUID
	BookID     uuid.UUID
	BookTitle  string
	Quantity   int32
	UnitPrice  decimal.Decimal
	CreatedAt  time.Time
}

func NewSaleBuilder() *SaleBuilder {
	return &SaleBuilder{
		ID:        uuid.New(),
		BookID:    uuid.New(),
		BookTitle: "The Go Programming Language",
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func (b *SaleBuilder) With(mutate func(*SaleBuilder)) *SaleBuilder {
	mutate(b)
	return b
}

func (b *SaleBuilder) WithBook(bookID uuid.UUID) *SaleBuilder {
	b.BookID = bookID
	return b
}

func (b *SaleBuilder) WithQuantity(q int32) *SaleBuilder {
	b.Quantity = q
	return b
}

func (b *SaleBuilder) WithCustomer(id uuid.UUID) *SaleBuilder {
	b.CustomerID = &id
	return b
}

func (b *SaleBuilder) subtotal() decimal.Decimal {
	return b.UnitPrice.Mul(decimal.NewFromInt32(b.Quantity))
}

func (b *SaleBuilder) BuildDomain() *sale.Sale {
	item := sale.ReconstructLineItem(b.BookID, b.Quantity, b.UnitPrice, b.subtotal())
	return sale.ReconstructSale(b.ID, b.CustomerID, []sale.LineItem{item}, b.subtotal(), b.CreatedAt, b.CreatedAt)
}

func (b *SaleBuilder) BuildReadModel() *queries.SaleView {
	return &queries.SaleView{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		TotalAmount: b.subtotal(),
		Items: []queries.SaleItemView{{
			BookID:    b.BookID,
			BookTitle: b.BookTitle,
			Quantity:  b.Quantity,
			UnitPrice: b.UnitPrice,
			Subtotal:  b.subtotal(),
		}},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

func (b *SaleBuilder) BuildDTO() reqdto.CreateSaleRequest {
	return reqdto.CreateSaleRequest{
		CustomerID: b.CustomerID,
		Items: []reqdto.SaleItemRequest{{
			BookID:   b.BookID,
			Quantity: b.Quantity,
		}},
	}
}
