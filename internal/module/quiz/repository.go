package quiz

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// quizRepository implements domain.QuizRepository using GORM.
type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository creates a QuizRepository backed by the given GORM database.
func NewQuizRepository(db *gorm.DB) domain.QuizRepository {
	return &quizRepository{db: db}
}

// Create writes the quiz, its questions and their answers in one transaction.
// Referenced creator, category and level rows are never written.
func (r *quizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Omit("Creator", "Category", "Level").Create(quiz).Error
	})
	return pkg.MapDBError(err, "quiz")
}

// GetByID loads the quiz row without associations.
func (r *quizRepository) GetByID(ctx context.Context, id uint) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "quiz")
	}
	return &quiz, nil
}

// GetWithDetails loads the whole aggregate with questions ordered by
// NumQuestion and answers ordered by NumAnswer.
func (r *quizRepository) GetWithDetails(ctx context.Context, id uint) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Category").
		Preload("Level").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("num_question ASC").Order("id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("num_answer ASC").Order("id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "quiz")
	}
	return &quiz, nil
}

// SetVisibility updates the visibility flag of a quiz.
func (r *quizRepository) SetVisibility(ctx context.Context, id uint, visible bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Quiz{}).Where("id = ?", id).Update("is_visible", visible)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, "quiz")
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "quiz not found", nil)
	}
	return nil
}

// List returns the visible quizzes matching filter, newest first.
func (r *quizRepository) List(ctx context.Context, filter domain.QuizFilter, req domain.PageRequest) (*domain.Page[domain.Quiz], error) {
	base := r.filtered(r.db.WithContext(ctx).Model(&domain.Quiz{}), filter).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err, "quiz")
	}

	var quizzes []domain.Quiz
	err := base.
		Preload("Creator").
		Preload("Category").
		Preload("Level").
		Scopes(pkg.Paginate(req)).
		Order("quizzes.created_at DESC").
		Order("quizzes.id DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "quiz")
	}
	return pkg.NewPage(quizzes, total, req), nil
}

// filtered applies filter to q. Title and nickname are OR-ed when both are
// set; every other criterion is AND-ed. Hidden quizzes are always excluded.
func (r *quizRepository) filtered(q *gorm.DB, f domain.QuizFilter) *gorm.DB {
	q = q.Where("quizzes.is_visible = ?", true)

	var text *gorm.DB
	if f.Title != "" {
		text = r.db.Where("LOWER(quizzes.title) LIKE ? "+pkg.LikeEscape, pkg.ContainsPattern(f.Title))
	}
	if f.Nickname != "" {
		creators := r.db.Model(&domain.User{}).Select("id").
			Where("LOWER(nickname) LIKE ? "+pkg.LikeEscape, pkg.ContainsPattern(f.Nickname))
		if text == nil {
			text = r.db.Where("quizzes.creator_id IN (?)", creators)
		} else {
			text = text.Or("quizzes.creator_id IN (?)", creators)
		}
	}
	if text != nil {
		q = q.Where(text)
	}

	if f.CategoryID != nil {
		q = q.Where("quizzes.category_id = ?", *f.CategoryID)
	}
	if f.LevelID != nil {
		q = q.Where("quizzes.level_id = ?", *f.LevelID)
	}
	if f.LikedBy != nil {
		q = q.Where("EXISTS (SELECT 1 FROM quiz_likes WHERE quiz_likes.quiz_id = quizzes.id AND quiz_likes.user_id = ?)", *f.LikedBy)
	}
	if f.FavouritedBy != nil {
		q = q.Where("EXISTS (SELECT 1 FROM quiz_favourites WHERE quiz_favourites.quiz_id = quizzes.id AND quiz_favourites.user_id = ?)", *f.FavouritedBy)
	}
	return q
}

// GetCategory retrieves a category by id.
func (r *quizRepository) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "category")
	}
	return &c, nil
}

// GetLevel retrieves a level by id.
func (r *quizRepository) GetLevel(ctx context.Context, id uint) (*domain.Level, error) {
	var l domain.Level
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "level")
	}
	return &l, nil
}

// ListCategories returns all categories ordered by id.
func (r *quizRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, pkg.MapDBError(err, "category")
	}
	return categories, nil
}

// ListLevels returns all levels ordered by id.
func (r *quizRepository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	levels := []domain.Level{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&levels).Error; err != nil {
		return nil, pkg.MapDBError(err, "level")
	}
	return levels, nil
}
