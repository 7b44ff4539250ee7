package request

import (
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleItemRequest struct {
	BookID    uuid.UUID        `json:"book_id" binding:"required"`
	Quantity  int32            `json:"quantity" binding:"required,min=1,max=1000000"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type CreateSaleRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id,omitempty"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateSaleRequest) ToInput() commands.CreateSaleInput {
	items := make([]commands.LineItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, commands.LineItemInput{
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return commands.CreateSaleInput{CustomerID: r.CustomerID, Items: items}
}

// UpdateSaleRequest: a null customer_id detaches the customer, an absent one
// leaves it alone.
type UpdateSaleRequest struct {
	BookID     *uuid.UUID   `json:"book_id,omitempty"`
	Quantity   *int32       `json:"quantity,omitempty" binding:"omitempty,min=1,max=1000000"`
	CustomerID NullableUUID `json:"customer_id"`
}

func (r UpdateSaleRequest) ToPatch() commands.UpdateSalePatch {
	p := commands.UpdateSalePatch{
		BookID:   r.BookID,
		Quantity: r.Quantity,
	}
	if r.CustomerID.Set {
		if r.CustomerID.Value == nil {
			p.ClearCustomer = true
		} else {
			p.CustomerID = r.CustomerID.Value
		}
	}
	return p
}

var ErrInvalidFilterID = errs.Validation("customer_id and book_id must be UUIDs")

type ListSalesQuery struct {
	CustomerID string `form:"customer_id"`
	BookID     string `form:"book_id"`
	Cursor     string `form:"cursor"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

func (q ListSalesQuery) Filter() (queries.SaleFilter, error) {
	var f queries.SaleFilter
	var err error
	if f.CustomerID, err = optionalUUID(q.CustomerID); err != nil {
		return queries.SaleFilter{}, err
	}
	if f.BookID, err = optionalUUID(q.BookID); err != nil {
		return queries.SaleFilter{}, err
	}
	return f, nil
}

func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidFilterID, s)
	}
	return &id, nil
}

func (q ListSalesQuery) PageCursor() *queries.Cursor {
	if q.Cursor == "" {
		return nil
	}
	return &queries.Cursor{After: q.Cursor}
}
