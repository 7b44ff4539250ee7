package api

import (
	"net/http"

	reqdto "bookstore-backoffice/internal/handler/dto/request"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	cmds commands.InventoryCommands
	q    queries.BookQueries
}

func NewBookHandler(cmds commands.InventoryCommands, q queries.BookQueries) *BookHandler {
	return &BookHandler{cmds: cmds, q: q}
}

// @Summary Get book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	res, err := resdto.FromBookView(view)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Low stock books
// @Description Books at or below threshold, lowest stock first.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Stock threshold"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /books/low-stock [get]
func (h *BookHandler) LowStock(c *gin.Context) {
	var query reqdto.LowStockQuery
	if !bindQuery(c, &query) {
		return
	}
	views, err := h.q.ListLowStock(c.Request.Context(), query.Threshold, query.Limit, query.Offset)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	res, err := resdto.FromBookViews(views)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Adjust stock
// @Description Add or remove copies. Stock never goes below zero.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.AdjustStockRequest true "Change"
// @Success 200 {object} resdto.StockResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id}/stock [put]
func (h *BookHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	stock, err := h.cmds.AdjustStock(c.Request.Context(), id, *req.Change)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.StockResponse{BookID: id, Stock: stock})
}
