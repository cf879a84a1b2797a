package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
)

// UserModule implements the app.Module interface for the user directory.
type UserModule struct {
	handler *UserHandler
	policy  domain.Policy
}

// NewModule creates a new UserModule. Role-restricted routes are guarded by
// policy. Panics if h is nil.
func NewModule(h *UserHandler, policy domain.Policy) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h, policy: policy}
}

// RegisterRoutes registers the user directory routes.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.GET("", m.handler.Search)
	users.GET("/:userId/profile", m.handler.Profile)
	users.PUT("/:userId/ban", middleware.Authorize(m.policy, domain.OpBanUser), m.handler.Ban)
	users.PUT("/:userId/unban", middleware.Authorize(m.policy, domain.OpUnbanUser), m.handler.Unban)
	users.PUT("/:userId/promote-to-admin", middleware.Authorize(m.policy, domain.OpPromoteToAdmin), m.handler.PromoteToAdmin)
	users.PUT("/:userId/promote-to-chief", middleware.Authorize(m.policy, domain.OpPromoteToChief), m.handler.PromoteToChief)
	users.PUT("/:userId/demote-to-user", middleware.Authorize(m.policy, domain.OpDemoteAdminToUser), m.handler.DemoteToUser)
}
