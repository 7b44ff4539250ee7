package middleware

import (
	"log/slog"
	"net/http"

	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			kind := errs.KindOf(e.Err)
			if kind == errs.KindInternal || kind == errs.KindStorage {
				slog.ErrorContext(c.Request.Context(), "request failed",
					slog.String("path", c.FullPath()),
					slog.String("kind", string(kind)),
					slog.String("error", e.Err.Error()),
					slog.Any("stack", errs.ExtractStackLines(e.Err, 12)))
			}
		}

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if len(c.Errors) == 0 {
			return
		}

		resp := httperr.Response{Status: http.StatusInternalServerError}
		resp.Error.Kind = errs.KindInternal
		resp.Error.Message = "internal server error"
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(c.Request.Context(), "recovered from panic",
					slog.Any("error", rec),
					slog.String("path", c.Request.URL.Path))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Kind = errs.KindInternal
				resp.Error.Message = "internal server error"

				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
