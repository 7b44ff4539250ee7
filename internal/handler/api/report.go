package api

import (
	"net/http"

	reqdto "bookstore-backoffice/internal/handler/dto/request"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	q queries.ReportQueries
}

func NewReportHandler(q queries.ReportQueries) *ReportHandler {
	return &ReportHandler{q: q}
}

// @Summary Sales summary
// @Description Totals over whole UTC days. Both bounds are optional and inclusive.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start query string false "First day (YYYY-MM-DD)"
// @Param end query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} queries.SalesSummary
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	var query reqdto.SummaryQuery
	if !bindQuery(c, &query) {
		return
	}
	start, end, err := query.Period()
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	summary, err := h.q.Summary(c.Request.Context(), start, end)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Daily sales
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days back (default 7, max 365)"
// @Success 200 {object} resdto.DailySalesResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	var query reqdto.DailyQuery
	if !bindQuery(c, &query) {
		return
	}
	rows, err := h.q.Daily(c.Request.Context(), query.Days)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDailySales(rows))
}

// @Summary Top selling books
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days back (default 30)"
// @Param limit query int false "Books (default 10, max 100)"
// @Success 200 {object} resdto.TopBooksResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reports/top-books [get]
func (h *ReportHandler) TopBooks(c *gin.Context) {
	var query reqdto.TopBooksQuery
	if !bindQuery(c, &query) {
		return
	}
	rows, err := h.q.TopBooks(c.Request.Context(), query.Days, query.Limit)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTopBooks(rows))
}

// @Summary Today's sales
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.SalesSummary
// @Failure 403 {object} httperr.Response
// @Router /reports/today [get]
func (h *ReportHandler) Today(c *gin.Context) {
	summary, err := h.q.Today(c.Request.Context())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
