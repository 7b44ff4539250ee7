//go:build unit || e2e

package builder

import (
	"time"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookBuilder struct {
	ID     uuid.UUID
	Title  string
	Author string
	Price  decimal.Decimal
	Stock  int32
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		ID:     uuid.New(),
		Title:  "Concurrency in Go",
		Author: "Katherine Cox-Buday",
		Price:  decimal.RequireFromString("34.50"),
		Stock:  10,
	}
}

func (b *BookBuilder) WithStock(stock int32) *BookBuilder {
	b.Stock = stock
	return b
}

func (b *BookBuilder) WithPrice(price string) *BookBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

func (b *BookBuilder) BuildDomain() *book.Book {
	return book.ReconstructBook(b.ID, b.Title, b.Price, b.Stock)
}

func (b *BookBuilder) BuildReadModel() *queries.BookView {
	now := time.Now().UTC()
	return &queries.BookView{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		Stock:     b.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
