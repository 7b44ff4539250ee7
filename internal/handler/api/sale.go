package api

import (
	"net/http"

	reqdto "bookstore-backoffice/internal/handler/dto/request"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	cmds commands.SaleCommands
	q    queries.SaleQueries
}

func NewSaleHandler(cmds commands.SaleCommands, q queries.SaleQueries) *SaleHandler {
	return &SaleHandler{cmds: cmds, q: q}
}

// @Summary Create sale
// @Description Record a sale and take its quantities out of stock in one transaction.
// @Description Unit prices default to each book's current price.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSaleRequest true "Sale"
// @Success 201 {object} resdto.SaleResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response "insufficient stock"
// @Router /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req reqdto.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.cmds.CreateSale(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	h.respond(c, http.StatusCreated, created.ID())
}

// @Summary Get sale
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} resdto.SaleResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary List sales
// @Description Newest first. Pass next_cursor back as cursor to continue.
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param customer_id query string false "Customer filter"
// @Param book_id query string false "Book filter"
// @Param cursor query string false "Page cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.SaleListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var query reqdto.ListSalesQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.Filter()
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	views, next, err := h.q.List(c.Request.Context(), filter, query.PageCursor(), query.Limit)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	res, err := resdto.FromSaleViews(views, next)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Update sale
// @Description Change the customer of any sale, or the book and quantity of a single-item sale.
// @Description Stock moves by the difference. An empty body returns the sale unchanged.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Param request body reqdto.UpdateSaleRequest true "Patch"
// @Success 200 {object} resdto.SaleResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response "insufficient stock"
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.cmds.UpdateSale(c.Request.Context(), id, req.ToPatch()); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	h.respond(c, http.StatusOK, id)
}

// @Summary Delete sale
// @Description Delete a sale and return its quantities to stock.
// @Tags sales
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.DeleteSale(c.Request.Context(), id); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SaleHandler) respond(c *gin.Context, status int, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	res, err := resdto.FromSaleView(view)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(status, res)
}
