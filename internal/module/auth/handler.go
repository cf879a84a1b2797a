package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/pkg"
)

// AuthHandler serves the public account endpoints.
type AuthHandler struct {
	svc Service
}

// NewHandler creates an AuthHandler.
func NewHandler(svc Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, token)
}

// Register opens a new account with the user role. It does not log the
// caller in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Nickname, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, newAccountResponse(user))
}
