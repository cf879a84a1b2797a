package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

const principalContextKey = "principal"

// TokenVerifier resolves a bearer token to the id of the user it was issued to.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// UserLookup loads the user behind a verified token.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// AuthConfig configures the Authenticate middleware.
type AuthConfig struct {
	Tokens TokenVerifier
	Users  UserLookup
	// PublicPaths bypass authentication. An entry ending in "/" matches every
	// path under it; any other entry must match the request path exactly.
	PublicPaths []string
	Logger      *slog.Logger
}

// Authenticate returns the access-control gate. Requests to public paths pass
// through untouched. Every other request needs an "Authorization: Bearer"
// header carrying a valid token for an existing, non-banned user; otherwise
// the request is rejected with 403 before any handler runs.
//
// On success the caller's domain.Principal is stored in the gin context and
// user_id is attached to the request context for structured logging.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Tokens == nil || cfg.Users == nil {
		panic("middleware.Authenticate: token verifier and user lookup must not be nil")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	public := append([]string(nil), cfg.PublicPaths...)

	return func(c *gin.Context) {
		if isPublicPath(public, c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		deny := func(reason string, attrs ...any) {
			log.WarnContext(ctx, "access denied",
				append([]any{slog.String("reason", reason), slog.String("path", c.Request.URL.Path)}, attrs...)...)
			pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "access denied", nil))
			c.Abort()
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			deny("missing bearer token")
			return
		}

		userID, err := cfg.Tokens.Verify(token)
		if err != nil {
			deny("invalid token", slog.Any("error", err))
			return
		}

		user, err := cfg.Users.GetByID(ctx, userID)
		if err != nil {
			deny("unknown subject", slog.Uint64("user_id", uint64(userID)), slog.Any("error", err))
			return
		}
		if user.IsBanned || user.Role == domain.RoleBanned {
			deny("banned user", slog.Uint64("user_id", uint64(userID)))
			return
		}

		SetPrincipal(c, domain.Principal{UserID: user.ID, Nickname: user.Nickname, Role: user.Role})
		c.Request = c.Request.WithContext(logger.WithContextAttrs(ctx, slog.Uint64("user_id", uint64(user.ID))))

		c.Next()
	}
}

// SetPrincipal stores the authenticated caller in the gin context.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalContextKey, p)
}

// CurrentPrincipal returns the authenticated caller stored by Authenticate.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalContextKey)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isPublicPath(public []string, path string) bool {
	for _, p := range public {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
