package auth

import "github.com/gin-gonic/gin"

// AuthModule mounts /auth, the prefix the gate always lets through.
type AuthModule struct {
	handler *AuthHandler
}

// NewModule panics if h is nil.
func NewModule(h *AuthHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h}
}

func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/auth")
	g.POST("/register", m.handler.Register)
	g.POST("/login", m.handler.Login)
}
