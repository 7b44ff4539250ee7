package response

import (
	"time"

	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleItemResponse struct {
	BookID    uuid.UUID       `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID           uuid.UUID          `json:"id"`
	CustomerID   *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName *string            `json:"customer_name,omitempty"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type SaleListResponse struct {
	Sales      []*SaleResponse `json:"sales"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func FromSaleView(v *queries.SaleView) (*SaleResponse, error) {
	out := SaleResponse{Items: []SaleItemResponse{}}
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromSaleViews(views []*queries.SaleView, next *queries.Cursor) (*SaleListResponse, error) {
	out := &SaleListResponse{Sales: make([]*SaleResponse, 0, len(views))}
	for _, v := range views {
		r, err := FromSaleView(v)
		if err != nil {
			return nil, err
		}
		out.Sales = append(out.Sales, r)
	}
	if next != nil {
		out.NextCursor = &next.After
	}
	return out, nil
}
