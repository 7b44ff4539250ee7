package response

import (
	"bookstore-backoffice/internal/usecase/queries"
)

type DailySalesResponse struct {
	Days []*queries.DailySales `json:"days"`
}

type TopBooksResponse struct {
	Books []*queries.TopBook `json:"books"`
}

func FromDailySales(rows []*queries.DailySales) *DailySalesResponse {
	if rows == nil {
		rows = []*queries.DailySales{}
	}
	return &DailySalesResponse{Days: rows}
}

func FromTopBooks(rows []*queries.TopBook) *TopBooksResponse {
	if rows == nil {
		rows = []*queries.TopBook{}
	}
	return &TopBooksResponse{Books: rows}
}
