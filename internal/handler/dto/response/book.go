package response

import (
	"time"

	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        *string         `json:"isbn,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	Description *string         `json:"description,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type StockResponse struct {
	BookID uuid.UUID `json:"book_id"`
	Stock  int32     `json:"stock"`
}

func FromBookView(v *queries.BookView) (*BookResponse, error) {
	var out BookResponse
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromBookViews(views []*queries.BookView) ([]*BookResponse, error) {
	out := make([]*BookResponse, 0, len(views))
	for _, v := range views {
		r, err := FromBookView(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
