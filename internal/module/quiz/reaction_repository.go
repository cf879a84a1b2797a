package quiz

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/pkg"
)

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a ReactionRepository backed by the given GORM database.
func NewReactionRepository(db *gorm.DB) domain.ReactionRepository {
	return &reactionRepository{db: db}
}

// row returns a row of the table backing kind.
func row(kind domain.Reaction, userID, quizID uint) (any, error) {
	switch kind {
	case domain.ReactionLike:
		return &domain.Like{UserID: userID, QuizID: quizID}, nil
	case domain.ReactionFavourite:
		return &domain.Favourite{UserID: userID, QuizID: quizID}, nil
	default:
		return nil, domain.NewAppError(domain.CodeValidation, "unknown reaction "+string(kind), nil)
	}
}

// Add records the (userID, quizID) pair. An existing pair is AlreadyExists.
func (r *reactionRepository) Add(ctx context.Context, kind domain.Reaction, userID, quizID uint) error {
	rec, err := row(kind, userID, quizID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return pkg.MapDBError(err, string(kind))
	}
	return nil
}

// Remove deletes the (userID, quizID) pair. A missing pair is NotFound.
func (r *reactionRepository) Remove(ctx context.Context, kind domain.Reaction, userID, quizID uint) error {
	m, err := row(kind, 0, 0)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(m)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, string(kind))
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, string(kind)+" not found", nil)
	}
	return nil
}

// Marked returns the subset of quizIDs userID has reacted to with kind.
func (r *reactionRepository) Marked(ctx context.Context, kind domain.Reaction, userID uint, quizIDs []uint) (map[uint]bool, error) {
	marked := make(map[uint]bool, len(quizIDs))
	if len(quizIDs) == 0 {
		return marked, nil
	}
	m, err := row(kind, 0, 0)
	if err != nil {
		return nil, err
	}

	var ids []uint
	err = r.db.WithContext(ctx).Model(m).
		Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, pkg.MapDBError(err, string(kind))
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
