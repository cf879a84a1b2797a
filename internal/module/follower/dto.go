package follower

import "github.com/simp-lee/quizhub/internal/domain"

// FollowUserResponse is one entry of a followers or followings page.
type FollowUserResponse struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

func toFollowUserResponse(u domain.User) FollowUserResponse {
	return FollowUserResponse{ID: u.ID, Nickname: u.Nickname}
}
