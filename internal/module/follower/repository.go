package follower

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a FollowRepository backed by the given GORM database.
func NewFollowRepository(db *gorm.DB) domain.FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a follow edge. An existing edge is reported as AlreadyExists.
func (r *followRepository) Create(ctx context.Context, follow *domain.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return pkg.MapDBError(err, "follow")
	}
	return nil
}

// Delete removes a follow edge. A missing edge is reported as NotFound.
func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return pkg.MapDBError(result.Error, "follow")
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "follow not found", nil)
	}
	return nil
}

// ListFollowers returns the users following userID, most recent first.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error) {
	return r.list(ctx, "follows.follower_id", "follows.followed_id", userID, req)
}

// ListFollowings returns the users userID follows, most recent first.
func (r *followRepository) ListFollowings(ctx context.Context, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error) {
	return r.list(ctx, "follows.followed_id", "follows.follower_id", userID, req)
}

// list joins users on joinCol and filters edges by matchCol = userID.
func (r *followRepository) list(ctx context.Context, joinCol, matchCol string, userID uint, req domain.PageRequest) (*domain.Page[domain.User], error) {
	base := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(matchCol+" = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err, "follow")
	}

	var users []domain.User
	if err := base.Scopes(pkg.Paginate(req)).
		Order("follows.created_at DESC").Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, pkg.MapDBError(err, "follow")
	}
	return pkg.NewPage(users, total, req), nil
}
