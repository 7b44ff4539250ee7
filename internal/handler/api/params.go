package api

import (
	"net/http"

	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/handler/middleware"
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrInvalidID = errs.Validation("id must be a UUID")

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(ErrInvalidID, c.Param(name)), ErrInvalidID.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "invalid request body", err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "invalid query parameters", err.Error())
		return false
	}
	return true
}

// currentUserID is only absent when a route is missing RequireAuth.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithKind(c, errs.New("user id missing from authenticated context"))
		return uuid.Nil, false
	}
	return id, true
}
