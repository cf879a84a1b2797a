package user

import (
	"time"

	"github.com/simp-lee/quizhub/internal/domain"
)

// UserResponse is the public view of a user in search results and role
// changes. Email and credentials are never exposed here.
type UserResponse struct {
	ID        uint        `json:"id"`
	Nickname  string      `json:"nickname"`
	Role      domain.Role `json:"role"`
	IsBanned  bool        `json:"is_banned"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Role:      u.Role,
		IsBanned:  u.IsBanned,
		CreatedAt: u.CreatedAt,
	}
}
