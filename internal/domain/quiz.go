package domain

import (
	"context"
	"io"
	"time"
)

// Category classifies quizzes by subject.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"size:100;uniqueIndex;not null" json:"label"`
}

// TableName overrides the default table name.
func (Category) TableName() string { return "quiz_categories" }

// Level classifies quizzes by difficulty.
type Level struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"size:100;uniqueIndex;not null" json:"label"`
}

// TableName overrides the default table name.
func (Level) TableName() string { return "quiz_levels" }

// Quiz is the root of the quiz aggregate. IsVisible is the only soft-delete
// mechanism: hidden quizzes stay in storage but never appear in discovery.
type Quiz struct {
	BaseModel
	Title      string     `gorm:"size:255;not null;index"`
	CreatorID  uint       `gorm:"not null;index"`
	Creator    User       `gorm:"foreignKey:CreatorID"`
	CategoryID uint       `gorm:"not null;index"`
	Category   Category   `gorm:"foreignKey:CategoryID"`
	LevelID    uint       `gorm:"not null;index"`
	Level      Level      `gorm:"foreignKey:LevelID"`
	IsVisible  bool       `gorm:"not null;default:true;index"`
	Img        string     `gorm:"size:512"`
	Questions  []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

// Question belongs to exactly one quiz. NumQuestion orders questions within the quiz.
type Question struct {
	ID          uint     `gorm:"primaryKey"`
	QuizID      uint     `gorm:"not null;uniqueIndex:idx_quiz_question_num"`
	NumQuestion int      `gorm:"not null;uniqueIndex:idx_quiz_question_num"`
	Text        string   `gorm:"type:text;not null"`
	Answers     []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default table name.
func (Question) TableName() string { return "quiz_questions" }

// Answer belongs to exactly one question. NumAnswer orders answers within the question.
type Answer struct {
	ID         uint   `gorm:"primaryKey"`
	QuestionID uint   `gorm:"not null;uniqueIndex:idx_question_answer_num"`
	NumAnswer  int    `gorm:"not null;uniqueIndex:idx_question_answer_num"`
	Text       string `gorm:"type:text;not null"`
	IsCorrect  bool   `gorm:"not null"`
}

// TableName overrides the default table name.
func (Answer) TableName() string { return "quiz_answers" }

// Like records that a user likes a quiz.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	QuizID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// TableName overrides the default table name.
func (Like) TableName() string { return "quiz_likes" }

// Favourite records that a user has favourited a quiz.
type Favourite struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	QuizID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// TableName overrides the default table name.
func (Favourite) TableName() string { return "quiz_favourites" }

// Reaction selects one of the user-to-quiz membership relations.
type Reaction string

const (
	ReactionLike      Reaction = "like"
	ReactionFavourite Reaction = "favourite"
)

// QuizFilter describes a discovery query. Blank strings and nil pointers
// mean "no constraint". Visibility is not part of the filter: discovery
// queries always exclude hidden quizzes.
type QuizFilter struct {
	Title        string
	Nickname     string
	CategoryID   *uint
	LevelID      *uint
	LikedBy      *uint
	FavouritedBy *uint
}

// QuizRepository defines the data access interface for the quiz catalog.
type QuizRepository interface {
	// Create writes the quiz together with its questions and answers
	// atomically.
	Create(ctx context.Context, quiz *Quiz) error
	GetByID(ctx context.Context, id uint) (*Quiz, error)
	GetWithDetails(ctx context.Context, id uint) (*Quiz, error)
	SetVisibility(ctx context.Context, id uint, visible bool) error
	List(ctx context.Context, filter QuizFilter, req PageRequest) (*Page[Quiz], error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	GetLevel(ctx context.Context, id uint) (*Level, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListLevels(ctx context.Context) ([]Level, error)
}

// ReactionRepository defines the data access interface for likes and favourites.
type ReactionRepository interface {
	Add(ctx context.Context, kind Reaction, userID, quizID uint) error
	Remove(ctx context.Context, kind Reaction, userID, quizID uint) error
	// Marked returns the subset of quizIDs the user has reacted to with kind.
	Marked(ctx context.Context, kind Reaction, userID uint, quizIDs []uint) (map[uint]bool, error)
}

// QuizListItem is a discovery result annotated with the caller's reactions.
type QuizListItem struct {
	Quiz      Quiz
	Liked     bool
	Favourite bool
}

// QuizService defines the business logic interface for the quiz catalog.
type QuizService interface {
	GetQuizWithDetails(ctx context.Context, quizID uint) (*Quiz, error)
	// HideQuiz marks a quiz hidden. The actor must be its creator or hold a
	// role allowed to moderate quizzes.
	HideQuiz(ctx context.Context, actor Principal, quizID uint) error
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	// ListQuizzes returns visible quizzes matching filter, newest first,
	// annotated with callerID's likes and favourites.
	ListQuizzes(ctx context.Context, callerID uint, filter QuizFilter, req PageRequest) (*Page[QuizListItem], error)
	React(ctx context.Context, kind Reaction, userID, quizID uint) error
	Unreact(ctx context.Context, kind Reaction, userID, quizID uint) error
	ListCategories(ctx context.Context) ([]Category, error)
	ListLevels(ctx context.Context) ([]Level, error)
	// UploadImage stores a quiz image and returns the key to use as Quiz.Img.
	UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
}
