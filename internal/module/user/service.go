package user

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/quizhub/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo  domain.UserRepository
	stats ProfileStats
}

// NewUserService creates a new UserService.
func NewUserService(repo domain.UserRepository, stats ProfileStats) domain.UserService {
	return &userService{repo: repo, stats: stats}
}

// GetUserProfile loads userID and its profile counters. IsFollowing reports
// whether callerID follows userID.
func (s *userService) GetUserProfile(ctx context.Context, callerID, userID uint) (*domain.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			slog.WarnContext(ctx, "profile requested for unknown user", slog.Uint64("target_id", uint64(userID)))
		}
		return nil, err
	}

	profile := &domain.UserProfile{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile.FollowersCount, err = s.stats.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		profile.FollowingCount, err = s.stats.CountFollowings(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		profile.CreatedQuizzesCount, err = s.stats.CountVisibleQuizzes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		profile.LikedQuizzesCount, err = s.stats.CountLikedQuizzes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		profile.IsFollowing, err = s.stats.IsFollowing(gctx, callerID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchUsers returns a page of users whose nickname contains nickname.
func (s *userService) SearchUsers(ctx context.Context, nickname string, req domain.PageRequest) (*domain.Page[domain.User], error) {
	return s.repo.SearchByNickname(ctx, nickname, req)
}

// BanUser moves userID to the banned role, remembering its current role.
// Callers cannot ban themselves and only a chief may ban a chief.
func (s *userService) BanUser(ctx context.Context, actor domain.Principal, userID uint) (*domain.User, error) {
	if actor.UserID == userID {
		return nil, domain.NewAppError(domain.CodeValidation, "cannot ban yourself", nil)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned || user.Role == domain.RoleBanned {
		return nil, domain.NewAppError(domain.CodeConflict, "user is already banned", nil)
	}
	if user.Role == domain.RoleChief && !actor.HasRole(domain.RoleChief) {
		return nil, domain.NewAppError(domain.CodeForbidden, "only a chief may ban a chief", nil)
	}

	user.PreviousRole = user.Role
	user.Role = domain.RoleBanned
	user.IsBanned = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user banned",
		slog.Uint64("target_id", uint64(userID)),
		slog.String("previous_role", string(user.PreviousRole)),
	)
	return user, nil
}

// UnbanUser restores the role userID held before it was banned.
func (s *userService) UnbanUser(ctx context.Context, actor domain.Principal, userID uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsBanned && user.Role != domain.RoleBanned {
		return nil, domain.NewAppError(domain.CodeConflict, "user is not banned", nil)
	}

	restored := user.PreviousRole
	if !restored.Valid() || restored == domain.RoleBanned {
		restored = domain.RoleUser
	}
	user.Role = restored
	user.PreviousRole = ""
	user.IsBanned = false
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user unbanned",
		slog.Uint64("target_id", uint64(userID)),
		slog.Uint64("actor_id", uint64(actor.UserID)),
		slog.String("role", string(restored)),
	)
	return user, nil
}

// PromoteUserToAdmin moves a user to admin.
func (s *userService) PromoteUserToAdmin(ctx context.Context, userID uint) (*domain.User, error) {
	return s.changeRole(ctx, userID, domain.RoleUser, domain.RoleAdmin)
}

// PromoteAdminToChief moves an admin to chief.
func (s *userService) PromoteAdminToChief(ctx context.Context, userID uint) (*domain.User, error) {
	return s.changeRole(ctx, userID, domain.RoleAdmin, domain.RoleChief)
}

// DemoteAdminToUser moves an admin back to user.
func (s *userService) DemoteAdminToUser(ctx context.Context, userID uint) (*domain.User, error) {
	return s.changeRole(ctx, userID, domain.RoleAdmin, domain.RoleUser)
}

// changeRole applies one step of the role ladder. The target must currently
// hold from; anything else is a Conflict.
func (s *userService) changeRole(ctx context.Context, userID uint, from, to domain.Role) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != from {
		return nil, domain.NewAppError(domain.CodeConflict,
			"user role is "+string(user.Role)+", expected "+string(from), nil)
	}

	user.Role = to
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user role changed",
		slog.Uint64("target_id", uint64(userID)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return user, nil
}
