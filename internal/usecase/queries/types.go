package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookView struct {
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

type CustomerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

type SaleItemView struct {
	BookID    uuid.UUID       `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleView struct {
	ID           uuid.UUID       `json:"id"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName *string         `json:"customer_name,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []SaleItemView  `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type AuthorizedUserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// SalesSummary covers sales created on days in [PeriodStart, PeriodEnd].
type SalesSummary struct {
	PeriodStart    *time.Time      `json:"period_start,omitempty"`
	PeriodEnd      *time.Time      `json:"period_end,omitempty"`
	TotalSales     int64           `json:"total_sales"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalBooksSold int64           `json:"total_books_sold"`
	AverageSale    decimal.Decimal `json:"average_sale"`
}

type DailySales struct {
	Date           time.Time       `json:"date"`
	TotalSales     int64           `json:"total_sales"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalBooksSold int64           `json:"total_books_sold"`
}

type TopBook struct {
	BookID       uuid.UUID       `json:"book_id"`
	Title        string          `json:"title"`
	Author       string          `json:"author"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
