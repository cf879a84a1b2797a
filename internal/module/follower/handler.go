package follower

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// FollowerHandler handles REST API requests for the follower graph.
type FollowerHandler struct {
	svc domain.FollowService
}

// NewFollowerHandler creates a new FollowerHandler with the given service.
func NewFollowerHandler(svc domain.FollowService) *FollowerHandler {
	return &FollowerHandler{svc: svc}
}

// Followers handles GET /api/v1/followers/users/:userId/followers.
func (h *FollowerHandler) Followers(c *gin.Context) {
	h.list(c, h.svc.GetFollowers)
}

// Followings handles GET /api/v1/followers/users/:userId/followings.
func (h *FollowerHandler) Followings(c *gin.Context) {
	h.list(c, h.svc.GetFollowings)
}

func (h *FollowerHandler) list(c *gin.Context, fetch func(ctx context.Context, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error)) {
	userID, err := pkg.ParseID(c, "userId")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	page, err := fetch(c.Request.Context(), userID, pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, pkg.MapPage(page, toFollowUserResponse))
}

// Follow handles POST /api/v1/followers/follow/:idUserFollowed.
func (h *FollowerHandler) Follow(c *gin.Context) {
	caller, followedID, ok := h.edge(c)
	if !ok {
		return
	}
	if err := h.svc.Follow(c.Request.Context(), caller.UserID, followedID); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, nil)
}

// Unfollow handles DELETE /api/v1/followers/unfollow/:idUserFollowed.
func (h *FollowerHandler) Unfollow(c *gin.Context) {
	caller, followedID, ok := h.edge(c)
	if !ok {
		return
	}
	if err := h.svc.Unfollow(c.Request.Context(), caller.UserID, followedID); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.NoContent(c)
}

func (h *FollowerHandler) edge(c *gin.Context) (domain.Principal, uint, bool) {
	caller, ok := middleware.CurrentPrincipal(c)
	if !ok {
		pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "access denied", nil))
		return domain.Principal{}, 0, false
	}
	followedID, err := pkg.ParseID(c, "idUserFollowed")
	if err != nil {
		pkg.Error(c, err)
		return domain.Principal{}, 0, false
	}
	return caller, followedID, true
}
