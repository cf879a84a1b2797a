package domain

import (
	"context"
	"time"
)

// Follow is a directed edge from a follower to the user they follow.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowRepository defines the data access interface for the follower graph.
type FollowRepository interface {
	Create(ctx context.Context, follow *Follow) error
	Delete(ctx context.Context, followerID, followedID uint) error
	ListFollowers(ctx context.Context, userID uint, req PageRequest) (*Page[User], error)
	ListFollowings(ctx context.Context, userID uint, req PageRequest) (*Page[User], error)
}

// FollowService defines the business logic interface for the follower graph.
type FollowService interface {
	GetFollowers(ctx context.Context, userID uint, req PageRequest) (*Page[User], error)
	GetFollowings(ctx context.Context, userID uint, req PageRequest) (*Page[User], error)
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
}
