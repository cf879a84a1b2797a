package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/pkg"
)

// Recovery turns a panicking handler into a logged 500 response with the
// standard envelope. A panic with http.ErrAbortHandler is re-raised so the
// server aborts the connection as net/http intends.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			attrs := []any{
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			}
			if p, ok := CurrentPrincipal(c); ok {
				attrs = append(attrs, slog.Uint64("user_id", uint64(p.UserID)))
			}
			logger.ErrorContext(c.Request.Context(), "panic recovered", attrs...)

			// Headers already sent; the client sees a truncated body.
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			})
		}()
		c.Next()
	}
}
