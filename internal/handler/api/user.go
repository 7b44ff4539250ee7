package api

import (
	"net/http"

	"bookstore-backoffice/internal/domain/authz"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/handler/middleware"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	q    queries.UserQueries
	gate *authz.Gate
}

func NewUserHandler(q queries.UserQueries, gate *authz.Gate) *UserHandler {
	return &UserHandler{q: q, gate: gate}
}

// @Summary Get user
// @Description Staff may read their own account; admins may read any.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.gate.Check(middleware.GetActor(c), authz.ViewAccount, &authz.Target{OwnerID: id}); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	res, err := resdto.FromUserView(view)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
