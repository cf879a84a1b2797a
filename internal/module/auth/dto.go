package auth

import (
	"time"

	"github.com/simp-lee/quizhub/internal/domain"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Nickname string `json:"nickname" form:"nickname" binding:"required,min=1,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// AccountResponse is the caller's own account as seen right after
// registering or logging in.
type AccountResponse struct {
	ID        uint      `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newAccountResponse(u *domain.User) AccountResponse {
	return AccountResponse{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse carries a bearer token for the Authorization header.
type TokenResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt int64           `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}
