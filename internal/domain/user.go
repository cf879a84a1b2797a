package domain

import "context"

// User represents a registered member of the platform.
type User struct {
	BaseModel
	Nickname     string `gorm:"size:50;uniqueIndex;not null" json:"nickname"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         Role   `gorm:"size:20;not null;default:user" json:"role"`
	PreviousRole Role   `gorm:"size:20" json:"-"`
	IsBanned     bool   `gorm:"not null;default:false" json:"is_banned"`
}

// UserProfile is the public profile of a user as seen by the caller.
type UserProfile struct {
	UserID              uint   `json:"user_id"`
	Nickname            string `json:"nickname"`
	Email               string `json:"email"`
	FollowersCount      int64  `json:"followers_count"`
	FollowingCount      int64  `json:"following_count"`
	CreatedQuizzesCount int64  `json:"created_quizzes_count"`
	LikedQuizzesCount   int64  `json:"liked_quizzes_count"`
	IsFollowing         bool   `json:"is_following"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SearchByNickname(ctx context.Context, nickname string, req PageRequest) (*Page[User], error)
	Update(ctx context.Context, user *User) error
}

// UserService defines the business logic interface for the user directory.
type UserService interface {
	GetUserProfile(ctx context.Context, callerID, userID uint) (*UserProfile, error)
	SearchUsers(ctx context.Context, nickname string, req PageRequest) (*Page[User], error)
	BanUser(ctx context.Context, actor Principal, userID uint) (*User, error)
	UnbanUser(ctx context.Context, actor Principal, userID uint) (*User, error)
	PromoteUserToAdmin(ctx context.Context, userID uint) (*User, error)
	PromoteAdminToChief(ctx context.Context, userID uint) (*User, error)
	DemoteAdminToUser(ctx context.Context, userID uint) (*User, error)
}
