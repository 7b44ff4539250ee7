package book

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is the write-side view of a catalog entry: what the sale engine needs
// to price a line and check availability.
type Book struct {
	id    uuid.UUID
	title string
	price decimal.Decimal
	stock int32
}

func ReconstructBook(id uuid.UUID, title string, price decimal.Decimal, stock int32) *Book {
	return &Book{id: id, title: title, price: price, stock: stock}
}

func (b *Book) ID() uuid.UUID          { return b.id }
func (b *Book) Title() string          { return b.title }
func (b *Book) Price() decimal.Decimal { return b.price }
func (b *Book) Stock() int32           { return b.stock }

func (b *Book) EnsureAvailable(requested int64) error {
	return EnsureAvailable(b.id, b.stock, requested)
}
