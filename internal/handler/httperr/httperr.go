package httperr

import (
	"net/http"

	"bookstore-backoffice/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Kind    errs.Kind `json:"kind"`
		Message string    `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:        http.StatusBadRequest,
	errs.KindNotFound:          http.StatusNotFound,
	errs.KindForbidden:         http.StatusForbidden,
	errs.KindUnauthorized:      http.StatusUnauthorized,
	errs.KindInsufficientStock: http.StatusConflict,
	errs.KindRateLimited:       http.StatusTooManyRequests,
	errs.KindStorage:           http.StatusServiceUnavailable,
	errs.KindInternal:          http.StatusInternalServerError,
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind errs.Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AbortWithError writes the envelope with an explicit status. The original
// error is kept on the gin context for logging.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}
	abort(c, status, errs.KindOf(err), err, msg, detail)
}

// AbortWithKind classifies err and derives the status from its kind.
// Internal errors never leak their message.
func AbortWithKind(c *gin.Context, err error) {
	if err == nil {
		panic("AbortWithKind: err cannot be nil")
	}
	kind := errs.KindOf(err)
	msg := publicMessage(kind, err)
	abort(c, StatusOf(kind), kind, err, msg, nil)
}

func abort(c *gin.Context, status int, kind errs.Kind, err error, msg string, detail any) {
	resp := Response{Status: status}
	resp.Error.Kind = kind
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func publicMessage(kind errs.Kind, err error) string {
	switch kind {
	case errs.KindInternal:
		return "internal server error"
	case errs.KindStorage:
		return "storage unavailable"
	default:
		return err.Error()
	}
}
