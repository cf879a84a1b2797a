package follower

import (
	"context"
	"log/slog"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/platform/events"
)

// UserGetter is the subset of domain.UserRepository the follower graph needs.
type UserGetter interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

type followService struct {
	repo   domain.FollowRepository
	users  UserGetter
	events events.Publisher
}

// NewFollowService creates a FollowService. pub may be events.Nop{}.
func NewFollowService(repo domain.FollowRepository, users UserGetter, pub events.Publisher) domain.FollowService {
	return &followService{repo: repo, users: users, events: pub}
}

// GetFollowers returns a page of users following userID.
func (s *followService) GetFollowers(ctx context.Context, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListFollowers(ctx, userID, req)
}

// GetFollowings returns a page of users that userID follows.
func (s *followService) GetFollowings(ctx context.Context, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListFollowings(ctx, userID, req)
}

// Follow creates the edge followerID -> followedID. Following oneself is a
// validation error and following twice is AlreadyExists.
func (s *followService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return domain.NewAppError(domain.CodeValidation, "cannot follow yourself", nil)
	}
	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		if domain.IsNotFound(err) {
			slog.WarnContext(ctx, "follow target not found", slog.Uint64("followed_id", uint64(followedID)))
		}
		return err
	}

	if err := s.repo.Create(ctx, &domain.Follow{FollowerID: followerID, FollowedID: followedID}); err != nil {
		if domain.IsAlreadyExists(err) {
			return domain.NewAppError(domain.CodeAlreadyExists, "already following this user", nil)
		}
		return err
	}

	slog.InfoContext(ctx, "user followed", slog.Uint64("followed_id", uint64(followedID)))
	events.Emit(ctx, s.events, events.Event{
		Type:    events.UserFollowed,
		Payload: events.UserFollowedPayload{FollowerID: followerID, FollowedID: followedID},
	})
	return nil
}

// Unfollow removes the edge followerID -> followedID. A missing edge is NotFound.
func (s *followService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.repo.Delete(ctx, followerID, followedID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewAppError(domain.CodeNotFound, "not following this user", nil)
		}
		return err
	}
	slog.InfoContext(ctx, "user unfollowed", slog.Uint64("followed_id", uint64(followedID)))
	return nil
}
