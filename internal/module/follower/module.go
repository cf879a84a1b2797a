package follower

import "github.com/gin-gonic/gin"

// FollowerModule implements the app.Module interface for the follower graph.
type FollowerModule struct {
	handler *FollowerHandler
}

// NewModule creates a new FollowerModule with the given handler.
// Panics if h is nil.
func NewModule(h *FollowerHandler) *FollowerModule {
	if h == nil {
		panic("follower.NewModule: handler must not be nil")
	}
	return &FollowerModule{handler: h}
}

// RegisterRoutes registers the follower graph routes.
func (m *FollowerModule) RegisterRoutes(api *gin.RouterGroup) {
	followers := api.Group("/followers")
	followers.GET("/users/:userId/followers", m.handler.Followers)
	followers.GET("/users/:userId/followings", m.handler.Followings)
	followers.POST("/follow/:idUserFollowed", m.handler.Follow)
	followers.DELETE("/unfollow/:idUserFollowed", m.handler.Unfollow)
}
