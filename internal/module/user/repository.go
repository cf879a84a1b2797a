package user

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return pkg.MapDBError(err, "user")
	}
	return nil
}

// GetByID retrieves a user by its primary key.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return &user, nil
}

// SearchByNickname returns users whose nickname contains nickname, ignoring
// case, ordered by nickname then id so pages are stable.
func (r *userRepository) SearchByNickname(ctx context.Context, nickname string, req domain.PageRequest) (*domain.Page[domain.User], error) {
	base := r.db.WithContext(ctx).Model(&domain.User{})
	if nickname = strings.TrimSpace(nickname); nickname != "" {
		base = base.Where("LOWER(nickname) LIKE ? "+pkg.LikeEscape, pkg.ContainsPattern(nickname))
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}

	var users []domain.User
	if err := base.Scopes(pkg.Paginate(req)).Order("nickname ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return pkg.NewPage(users, total, req), nil
}

// Update saves changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return pkg.MapDBError(err, "user")
	}
	return nil
}

// ProfileStats reads the counters shown on a user profile.
type ProfileStats interface {
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowings(ctx context.Context, userID uint) (int64, error)
	CountVisibleQuizzes(ctx context.Context, creatorID uint) (int64, error)
	CountLikedQuizzes(ctx context.Context, userID uint) (int64, error)
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
}

type profileStats struct {
	db *gorm.DB
}

// NewProfileStats creates a ProfileStats backed by the given GORM database.
func NewProfileStats(db *gorm.DB) ProfileStats {
	return &profileStats{db: db}
}

func (s *profileStats) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, pkg.MapDBError(err, "profile")
	}
	return n, nil
}

func (s *profileStats) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.count(ctx, &domain.Follow{}, "followed_id = ?", userID)
}

func (s *profileStats) CountFollowings(ctx context.Context, userID uint) (int64, error) {
	return s.count(ctx, &domain.Follow{}, "follower_id = ?", userID)
}

// CountVisibleQuizzes counts the creator's quizzes that are not hidden.
func (s *profileStats) CountVisibleQuizzes(ctx context.Context, creatorID uint) (int64, error) {
	return s.count(ctx, &domain.Quiz{}, "creator_id = ? AND is_visible = ?", creatorID, true)
}

// CountLikedQuizzes counts the visible quizzes the user has liked.
func (s *profileStats) CountLikedQuizzes(ctx context.Context, userID uint) (int64, error) {
	visible := s.db.Model(&domain.Quiz{}).Select("id").Where("is_visible = ?", true)
	return s.count(ctx, &domain.Like{}, "user_id = ? AND quiz_id IN (?)", userID, visible)
}

func (s *profileStats) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	n, err := s.count(ctx, &domain.Follow{}, "follower_id = ? AND followed_id = ?", followerID, followedID)
	return n > 0, err
}
