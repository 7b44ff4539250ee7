//go:build e2e

package sales_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/handler/dto/request"
	"bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/tests/common/authtest"
	"bookstore-backoffice/tests/common/dbtest"
	"bookstore-backoffice/tests/common/httptest"
	"bookstore-backoffice/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const salesURL = "/api/sales"

type salesSuite struct {
	e2e.SharedSuite

	adminToken string
	staffToken string
}

func TestSalesSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(salesSuite))
}

func (s *salesSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.adminToken = authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
	s.staffToken = authtest.CreateAndLogin(t, s.DB, s.Router, "clerk@example.com", string(user.RoleStaff))
}

func (s *salesSuite) createSale(token string, req request.CreateSaleRequest) *response.SaleResponse {
	t := s.T()
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, req, token)
	var resp response.SaleResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &resp)
	require.NotEqual(t, uuid.Nil, resp.ID, w.Body.String())
	return &resp
}

func saleURL(id uuid.UUID) string {
	return salesURL + "/" + id.String()
}

func item(bookID uuid.UUID, qty int32) request.SaleItemRequest {
	return request.SaleItemRequest{BookID: bookID, Quantity: qty}
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *salesSuite) TestSaleLifecycle() {
	s.Run("stock follows create, update and delete", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "The Go Programming Language", "19.99", 10)

		created := s.createSale(s.staffToken, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(bookID, 3)},
		})
		assertAmount(t, "59.97", created.TotalAmount)
		require.Len(t, created.Items, 1)
		assert.Equal(t, "The Go Programming Language", created.Items[0].BookTitle)
		assertAmount(t, "19.99", created.Items[0].UnitPrice)
		assert.Equal(t, int32(7), dbtest.BookStock(t, s.DB, bookID))

		qty := int32(5)
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, saleURL(created.ID),
			request.UpdateSaleRequest{Quantity: &qty}, s.staffToken)
		var updated response.SaleResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		assertAmount(t, "99.95", updated.TotalAmount)
		assert.Equal(t, int32(5), dbtest.BookStock(t, s.DB, bookID))

		qty = 1
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, saleURL(created.ID),
			request.UpdateSaleRequest{Quantity: &qty}, s.staffToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		assert.Equal(t, int32(9), dbtest.BookStock(t, s.DB, bookID))

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, saleURL(created.ID), nil, s.staffToken)
		assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		assert.Equal(t, int32(10), dbtest.BookStock(t, s.DB, bookID))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, saleURL(created.ID), nil, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusNotFound, errs.KindNotFound)
	})

	s.Run("explicit unit price is kept", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Discounted", "30.00", 4)
		price := decimal.RequireFromString("25.50")

		created := s.createSale(s.staffToken, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{{BookID: bookID, Quantity: 2, UnitPrice: &price}},
		})
		assertAmount(t, "51", created.TotalAmount)
		assert.Equal(t, int32(2), dbtest.BookStock(t, s.DB, bookID))
	})

	s.Run("changing the book moves stock between books", func() {
		t := s.T()
		first := dbtest.CreateTestBook(t, s.DB, "First", "10.00", 5)
		second := dbtest.CreateTestBook(t, s.DB, "Second", "12.00", 5)

		created := s.createSale(s.staffToken, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(first, 2)},
		})

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, saleURL(created.ID),
			request.UpdateSaleRequest{BookID: &second}, s.staffToken)
		var updated response.SaleResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		require.Len(t, updated.Items, 1)
		assert.Equal(t, second, updated.Items[0].BookID)

		assert.Equal(t, int32(5), dbtest.BookStock(t, s.DB, first))
		assert.Equal(t, int32(3), dbtest.BookStock(t, s.DB, second))
	})
}

func (s *salesSuite) TestStockIsNeverOversold() {
	s.Run("insufficient stock is rejected without side effects", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Scarce", "15.00", 2)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(bookID, 3)},
		}, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusConflict, errs.KindInsufficientStock)

		assert.Equal(t, int32(2), dbtest.BookStock(t, s.DB, bookID))
		assert.Equal(t, 0, dbtest.CountSales(t, s.DB))
	})

	s.Run("a failing item rolls back the whole sale", func() {
		t := s.T()
		plenty := dbtest.CreateTestBook(t, s.DB, "Plenty", "10.00", 10)
		scarce := dbtest.CreateTestBook(t, s.DB, "Scarce", "10.00", 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(plenty, 2), item(scarce, 5)},
		}, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusConflict, errs.KindInsufficientStock)

		assert.Equal(t, int32(10), dbtest.BookStock(t, s.DB, plenty))
		assert.Equal(t, int32(1), dbtest.BookStock(t, s.DB, scarce))
		assert.Equal(t, 0, dbtest.CountSales(t, s.DB))
	})

	s.Run("growing a sale past the stock is rejected", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Limited", "10.00", 4)
		created := s.createSale(s.staffToken, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(bookID, 2)},
		})

		qty := int32(7)
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, saleURL(created.ID),
			request.UpdateSaleRequest{Quantity: &qty}, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusConflict, errs.KindInsufficientStock)
		assert.Equal(t, int32(2), dbtest.BookStock(t, s.DB, bookID))
	})

	s.Run("concurrent sales never oversell", func() {
		t := s.T()
		const (
			stock   = 5
			buyers  = 12
			perSale = 1
		)
		bookID := dbtest.CreateTestBook(t, s.DB, "Bestseller", "9.99", stock)

		codes := make([]int, buyers)
		var wg sync.WaitGroup
		for i := range buyers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{
					Items: []request.SaleItemRequest{item(bookID, perSale)},
				}, s.staffToken)
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		var created, conflicts int
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		assert.Equal(t, stock, created)
		assert.Equal(t, buyers-stock, conflicts)
		assert.Equal(t, int32(0), dbtest.BookStock(t, s.DB, bookID))
		assert.Equal(t, stock, dbtest.CountSales(t, s.DB))
	})
}

func (s *salesSuite) TestReferences() {
	s.Run("unknown book", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{
			Items: []request.SaleItemRequest{item(uuid.New(), 1)},
		}, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusNotFound, errs.KindNotFound)
	})

	s.Run("unknown customer", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)
		missing := uuid.New()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{
			CustomerID: &missing,
			Items:      []request.SaleItemRequest{item(bookID, 1)},
		}, s.staffToken)
		httptest.AssertErrorKind(t, w, http.StatusNotFound, errs.KindNotFound)
		assert.Equal(t, int32(3), dbtest.BookStock(t, s.DB, bookID))
	})

	s.Run("customer can be attached and detached", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)
		customerID := dbtest.CreateTestCustomer(t, s.DB, "Ada Lovelace")

		created := s.createSale(s.staffToken, request.CreateSaleRequest{
			CustomerID: &customerID,
			Items:      []request.SaleItemRequest{item(bookID, 1)},
		})
		require.NotNil(t, created.CustomerID)
		assert.Equal(t, customerID, *created.CustomerID)
		require.NotNil(t, created.CustomerName)
		assert.Equal(t, "Ada Lovelace", *created.CustomerName)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, saleURL(created.ID),
			map[string]any{"customer_id": nil}, s.staffToken)
		var updated response.SaleResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		assert.Nil(t, updated.CustomerID)
		assert.Equal(t, int32(2), dbtest.BookStock(t, s.DB, bookID))
	})

	s.Run("invalid payloads", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)

		for name, body := range map[string]any{
			"no items":      request.CreateSaleRequest{},
			"zero quantity": map[string]any{"items": []map[string]any{{"book_id": bookID, "quantity": 0}}},
			"bad book id":   map[string]any{"items": []map[string]any{{"book_id": "nope", "quantity": 1}}},
		} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, salesURL, body, s.staffToken)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%s: %s", name, w.Body.String())
		}
		assert.Equal(t, int32(3), dbtest.BookStock(t, s.DB, bookID))
	})
}

func (s *salesSuite) TestListSales() {
	s.Run("cursor pagination walks every sale once", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Paged", "5.00", 10)
		for range 3 {
			s.createSale(s.staffToken, request.CreateSaleRequest{
				Items: []request.SaleItemRequest{item(bookID, 1)},
			})
		}

		seen := map[uuid.UUID]bool{}
		url := salesURL + "?limit=2"
		for page := 0; page < 3; page++ {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, s.adminToken)
			var resp response.SaleListResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &resp)
			for _, sale := range resp.Sales {
				assert.False(t, seen[sale.ID], "sale %s listed twice", sale.ID)
				seen[sale.ID] = true
			}
			if resp.NextCursor == nil {
				break
			}
			url = fmt.Sprintf("%s?limit=2&cursor=%s", salesURL, *resp.NextCursor)
		}
		assert.Len(t, seen, 3)
	})

	s.Run("filter by book", func() {
		t := s.T()
		first := dbtest.CreateTestBook(t, s.DB, "First", "5.00", 10)
		second := dbtest.CreateTestBook(t, s.DB, "Second", "5.00", 10)
		s.createSale(s.staffToken, request.CreateSaleRequest{Items: []request.SaleItemRequest{item(first, 1)}})
		want := s.createSale(s.staffToken, request.CreateSaleRequest{Items: []request.SaleItemRequest{item(second, 1)}})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, salesURL+"?book_id="+second.String(), nil, s.adminToken)
		var resp response.SaleListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &resp)
		require.Len(t, resp.Sales, 1)
		assert.Equal(t, want.ID, resp.Sales[0].ID)
	})
}

func (s *salesSuite) TestInventory() {
	s.Run("adjust stock and list low stock", func() {
		t := s.T()
		low := dbtest.CreateTestBook(t, s.DB, "Running out", "10.00", 2)
		dbtest.CreateTestBook(t, s.DB, "Well stocked", "10.00", 40)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/books/low-stock", nil, s.adminToken)
		var books []*response.BookResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &books)
		require.Len(t, books, 1)
		assert.Equal(t, low, books[0].ID)

		change := int32(8)
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/books/"+low.String()+"/stock",
			request.AdjustStockRequest{Change: &change}, s.adminToken)
		var stock response.StockResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &stock)
		assert.Equal(t, int32(10), stock.Stock)

		change = -100
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/books/"+low.String()+"/stock",
			request.AdjustStockRequest{Change: &change}, s.adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &stock)
		assert.Equal(t, int32(0), stock.Stock)
		assert.Equal(t, int32(0), dbtest.BookStock(t, s.DB, low))
	})

	s.Run("zero change is rejected", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)
		change := int32(0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/books/"+bookID.String()+"/stock",
			request.AdjustStockRequest{Change: &change}, s.adminToken)
		httptest.AssertErrorKind(t, w, http.StatusBadRequest, errs.KindValidation)
	})
}

func (s *salesSuite) TestReports() {
	s.Run("today and top books reflect committed sales", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Popular", "19.99", 10)
		s.createSale(s.staffToken, request.CreateSaleRequest{Items: []request.SaleItemRequest{item(bookID, 3)}})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/reports/today", nil, s.adminToken)
		var summary struct {
			TotalSales     int64           `json:"total_sales"`
			TotalRevenue   decimal.Decimal `json:"total_revenue"`
			TotalBooksSold int64           `json:"total_books_sold"`
		}
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &summary)
		assert.Equal(t, int64(1), summary.TotalSales)
		assert.Equal(t, int64(3), summary.TotalBooksSold)
		assertAmount(t, "59.97", summary.TotalRevenue)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/reports/top-books?days=1", nil, s.adminToken)
		var top struct {
			Books []struct {
				BookID       uuid.UUID `json:"book_id"`
				QuantitySold int64     `json:"quantity_sold"`
			} `json:"books"`
		}
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &top)
		require.Len(t, top.Books, 1)
		assert.Equal(t, bookID, top.Books[0].BookID)
		assert.Equal(t, int64(3), top.Books[0].QuantitySold)
	})

	s.Run("inverted period", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/reports/summary?start=2026-03-02&end=2026-03-01", nil, s.adminToken)
		httptest.AssertErrorKind(s.T(), w, http.StatusBadRequest, errs.KindValidation)
	})
}

func (s *salesSuite) TestPermissions() {
	s.Run("staff cannot reach elevated endpoints", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)
		change := int32(1)

		cases := []struct {
			method string
			path   string
			body   any
		}{
			{http.MethodGet, salesURL, nil},
			{http.MethodGet, "/api/books/low-stock", nil},
			{http.MethodPut, "/api/books/" + bookID.String() + "/stock", request.AdjustStockRequest{Change: &change}},
			{http.MethodGet, "/api/reports/summary", nil},
			{http.MethodGet, "/api/reports/daily", nil},
			{http.MethodGet, "/api/reports/top-books", nil},
			{http.MethodGet, "/api/reports/today", nil},
		}
		for _, tc := range cases {
			w := httptest.PerformRequest(t, s.Router, tc.method, tc.path, tc.body, s.staffToken)
			httptest.AssertErrorKind(t, w, http.StatusForbidden, errs.KindForbidden)
		}
		assert.Equal(t, int32(3), dbtest.BookStock(t, s.DB, bookID))
	})

	s.Run("staff can read a single sale", func() {
		t := s.T()
		bookID := dbtest.CreateTestBook(t, s.DB, "Any", "10.00", 3)
		created := s.createSale(s.adminToken, request.CreateSaleRequest{Items: []request.SaleItemRequest{item(bookID, 1)}})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, saleURL(created.ID), nil, s.staffToken)
		var got response.SaleResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.Equal(t, created.ID, got.ID)
	})

	s.Run("anonymous requests are rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, salesURL, request.CreateSaleRequest{}, "")
		httptest.AssertErrorKind(s.T(), w, http.StatusUnauthorized, errs.KindUnauthorized)
	})
}
