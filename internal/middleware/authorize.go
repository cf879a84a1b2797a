package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// Authorize returns a middleware that lets the request through only when the
// authenticated caller's role is permitted to perform op under policy.
// It must run after Authenticate.
func Authorize(policy domain.Policy, op domain.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok || !policy.Allows(op, p.Role) {
			slog.WarnContext(c.Request.Context(), "operation denied",
				slog.String("operation", string(op)),
				slog.String("role", string(p.Role)),
			)
			pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "access denied", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
