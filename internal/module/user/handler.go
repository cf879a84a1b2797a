package user

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// UserHandler handles REST API requests for the user directory.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile handles GET /api/v1/users/:userId/profile.
func (h *UserHandler) Profile(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	userID, err := pkg.ParseID(c, "userId")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	profile, err := h.svc.GetUserProfile(c.Request.Context(), caller.UserID, userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, profile)
}

// Search handles GET /api/v1/users?nickname=&page=&size=.
func (h *UserHandler) Search(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.SearchUsers(c.Request.Context(), c.Query("nickname"), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, pkg.MapPage(result, toUserResponse))
}

// Ban handles PUT /api/v1/users/:userId/ban.
func (h *UserHandler) Ban(c *gin.Context) {
	h.withActor(c, "user banned successfully", h.svc.BanUser)
}

// Unban handles PUT /api/v1/users/:userId/unban.
func (h *UserHandler) Unban(c *gin.Context) {
	h.withActor(c, "user unbanned successfully", h.svc.UnbanUser)
}

// PromoteToAdmin handles PUT /api/v1/users/:userId/promote-to-admin.
func (h *UserHandler) PromoteToAdmin(c *gin.Context) {
	h.roleChange(c, "user promoted to admin successfully", h.svc.PromoteUserToAdmin)
}

// PromoteToChief handles PUT /api/v1/users/:userId/promote-to-chief.
func (h *UserHandler) PromoteToChief(c *gin.Context) {
	h.roleChange(c, "admin promoted to chief successfully", h.svc.PromoteAdminToChief)
}

// DemoteToUser handles PUT /api/v1/users/:userId/demote-to-user.
func (h *UserHandler) DemoteToUser(c *gin.Context) {
	h.roleChange(c, "admin demoted to user successfully", h.svc.DemoteAdminToUser)
}

type actorOp func(ctx context.Context, actor domain.Principal, userID uint) (*domain.User, error)

func (h *UserHandler) withActor(c *gin.Context, msg string, op actorOp) {
	actor, ok := principal(c)
	if !ok {
		return
	}
	h.roleChange(c, msg, func(ctx context.Context, userID uint) (*domain.User, error) {
		return op(ctx, actor, userID)
	})
}

func (h *UserHandler) roleChange(c *gin.Context, msg string, op func(context.Context, uint) (*domain.User, error)) {
	userID, err := pkg.ParseID(c, "userId")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	user, err := op(c.Request.Context(), userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Message(c, msg, toUserResponse(*user))
}

// principal returns the authenticated caller, answering 403 when the gate
// did not run.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "access denied", nil))
		c.Abort()
	}
	return p, ok
}
