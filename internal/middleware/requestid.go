package middleware

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/quizhub/internal/pkg"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// RequestIDConfig controls where request ids come from.
type RequestIDConfig struct {
	// TrustUpstream reuses a well-formed X-Request-ID set by a proxy in
	// front of the service instead of minting a new one.
	TrustUpstream bool
	// Generate mints new ids. Defaults to random UUIDs.
	Generate func() string
}

// RequestID tags every request with a fresh id.
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig tags every request with an id that is echoed in the
// X-Request-ID response header, attached to every log line written with the
// request context and carried on events published while serving it.
func RequestIDWithConfig(cfg RequestIDConfig) gin.HandlerFunc {
	generate := cfg.Generate
	if generate == nil {
		generate = uuid.NewString
	}

	return func(c *gin.Context) {
		id := ""
		if cfg.TrustUpstream && requestIDPattern.MatchString(c.GetHeader(requestIDHeader)) {
			id = c.GetHeader(requestIDHeader)
		}
		if id == "" {
			id = generate()
		}

		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)

		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(pkg.WithRequestID(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the id assigned to the request, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
