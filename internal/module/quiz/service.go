package quiz

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/platform/cache"
	"github.com/simp-lee/quizhub/internal/platform/events"
	"github.com/simp-lee/quizhub/internal/platform/storage"
)

// UserGetter is the subset of domain.UserRepository the catalog needs.
type UserGetter interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// Deps groups the collaborators of the quiz service. Cache, Events and
// Images are optional; nil values fall back to no-ops, and a nil Images makes
// UploadImage fail.
type Deps struct {
	Quizzes   domain.QuizRepository
	Reactions domain.ReactionRepository
	Users     UserGetter
	Policy    domain.Policy
	Cache     cache.Store
	CacheTTL  time.Duration
	Events    events.Publisher
	Images    storage.ImageStore
}

type quizService struct {
	quizzes   domain.QuizRepository
	reactions domain.ReactionRepository
	users     UserGetter
	policy    domain.Policy
	cache     cache.Store
	cacheTTL  time.Duration
	events    events.Publisher
	images    storage.ImageStore
}

// NewQuizService creates a QuizService from d.
func NewQuizService(d Deps) domain.QuizService {
	s := &quizService{
		quizzes:   d.Quizzes,
		reactions: d.Reactions,
		users:     d.Users,
		policy:    d.Policy,
		cache:     d.Cache,
		cacheTTL:  d.CacheTTL,
		events:    d.Events,
		images:    d.Images,
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	return s
}

func detailsKey(id uint) string {
	return "quiz:details:" + strconv.FormatUint(uint64(id), 10)
}

// GetQuizWithDetails returns the quiz aggregate, served from the cache when
// possible. Cache failures fall back to the database.
func (s *quizService) GetQuizWithDetails(ctx context.Context, quizID uint) (*domain.Quiz, error) {
	key := detailsKey(quizID)

	var cached domain.Quiz
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "quiz cache read failed", slog.Uint64("quiz_id", uint64(quizID)), slog.Any("error", err))
	}
	if hit {
		return &cached, nil
	}

	quiz, err := s.quizzes.GetWithDetails(ctx, quizID)
	if err != nil {
		if domain.IsNotFound(err) {
			slog.WarnContext(ctx, "quiz not found", slog.Uint64("quiz_id", uint64(quizID)))
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, quiz, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "quiz cache write failed", slog.Uint64("quiz_id", uint64(quizID)), slog.Any("error", err))
		return quiz, nil
	}
	if quiz.IsVisible {
		s.evictIfHidden(ctx, quizID)
	}
	return quiz, nil
}

// evictIfHidden drops the cached details when the quiz was hidden between
// the load and the cache write. HideQuiz evicts after updating the row, so
// either its eviction or this one runs after the stale write.
func (s *quizService) evictIfHidden(ctx context.Context, quizID uint) {
	current, err := s.quizzes.GetByID(ctx, quizID)
	if err == nil && current.IsVisible {
		return
	}
	if err := s.cache.Delete(ctx, detailsKey(quizID)); err != nil {
		slog.WarnContext(ctx, "quiz cache evict failed", slog.Uint64("quiz_id", uint64(quizID)), slog.Any("error", err))
	}
}

// HideQuiz marks the quiz hidden. Hiding a hidden quiz is not an error.
func (s *quizService) HideQuiz(ctx context.Context, actor domain.Principal, quizID uint) error {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if domain.IsNotFound(err) {
			slog.WarnContext(ctx, "quiz not found", slog.Uint64("quiz_id", uint64(quizID)))
		}
		return err
	}
	if quiz.CreatorID != actor.UserID && !s.policy.Allows(domain.OpModerateQuiz, actor.Role) {
		return domain.NewAppError(domain.CodeForbidden, "only the creator or a moderator may hide this quiz", nil)
	}

	if quiz.IsVisible {
		if err := s.quizzes.SetVisibility(ctx, quizID, false); err != nil {
			return err
		}
	}
	if err := s.cache.Delete(ctx, detailsKey(quizID)); err != nil {
		slog.WarnContext(ctx, "quiz cache evict failed", slog.Uint64("quiz_id", uint64(quizID)), slog.Any("error", err))
	}

	slog.InfoContext(ctx, "quiz hidden", slog.Uint64("quiz_id", uint64(quizID)))
	return nil
}

// CreateQuiz validates and persists the aggregate. quiz.CreatorID must be set
// to the caller. Creator, category and level must exist.
func (s *quizService) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if err := validateQuiz(quiz); err != nil {
		return err
	}

	creator, err := s.users.GetByID(ctx, quiz.CreatorID)
	if err != nil {
		return err
	}
	category, err := s.quizzes.GetCategory(ctx, quiz.CategoryID)
	if err != nil {
		return err
	}
	level, err := s.quizzes.GetLevel(ctx, quiz.LevelID)
	if err != nil {
		return err
	}

	quiz.ID = 0
	quiz.IsVisible = true
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return err
	}
	quiz.Creator = *creator
	quiz.Category = *category
	quiz.Level = *level

	slog.InfoContext(ctx, "quiz created",
		slog.Uint64("quiz_id", uint64(quiz.ID)),
		slog.Int("questions", len(quiz.Questions)),
	)
	events.Emit(ctx, s.events, events.Event{
		Type:    events.QuizCreated,
		Payload: events.QuizCreatedPayload{QuizID: quiz.ID, CreatorID: quiz.CreatorID, Title: quiz.Title},
	})
	return nil
}

// validateQuiz checks the aggregate shape. Ordinals must be positive and
// unique within their parent; gaps are allowed.
func validateQuiz(q *domain.Quiz) error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if len(q.Questions) == 0 {
		return domain.NewAppError(domain.CodeValidation, "a quiz needs at least one question", nil)
	}

	seenQuestions := make(map[int]bool, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.NumQuestion < 1 {
			return domain.NewAppError(domain.CodeValidation, "question numbers must be positive", nil)
		}
		if seenQuestions[question.NumQuestion] {
			return domain.NewAppError(domain.CodeValidation,
				"duplicate question number "+strconv.Itoa(question.NumQuestion), nil)
		}
		seenQuestions[question.NumQuestion] = true
		if strings.TrimSpace(question.Text) == "" {
			return domain.NewAppError(domain.CodeValidation, "question text is required", nil)
		}
		if len(question.Answers) == 0 {
			return domain.NewAppError(domain.CodeValidation,
				"question "+strconv.Itoa(question.NumQuestion)+" needs at least one answer", nil)
		}

		seenAnswers := make(map[int]bool, len(question.Answers))
		for _, a := range question.Answers {
			if a.NumAnswer < 1 {
				return domain.NewAppError(domain.CodeValidation, "answer numbers must be positive", nil)
			}
			if seenAnswers[a.NumAnswer] {
				return domain.NewAppError(domain.CodeValidation,
					"duplicate answer number "+strconv.Itoa(a.NumAnswer)+" in question "+strconv.Itoa(question.NumQuestion), nil)
			}
			seenAnswers[a.NumAnswer] = true
			if strings.TrimSpace(a.Text) == "" {
				return domain.NewAppError(domain.CodeValidation, "answer text is required", nil)
			}
		}
	}
	return nil
}

// ListQuizzes returns a page of visible quizzes annotated with the caller's
// likes and favourites.
func (s *quizService) ListQuizzes(ctx context.Context, callerID uint, filter domain.QuizFilter, req domain.PageRequest) (*domain.Page[domain.QuizListItem], error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Nickname = strings.TrimSpace(filter.Nickname)

	page, err := s.quizzes.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(page.Items))
	for _, q := range page.Items {
		ids = append(ids, q.ID)
	}
	liked, err := s.reactions.Marked(ctx, domain.ReactionLike, callerID, ids)
	if err != nil {
		return nil, err
	}
	favourite, err := s.reactions.Marked(ctx, domain.ReactionFavourite, callerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.QuizListItem, 0, len(page.Items))
	for _, q := range page.Items {
		items = append(items, domain.QuizListItem{Quiz: q, Liked: liked[q.ID], Favourite: favourite[q.ID]})
	}
	return &domain.Page[domain.QuizListItem]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	}, nil
}

// React records a like or favourite on a visible quiz.
func (s *quizService) React(ctx context.Context, kind domain.Reaction, userID, quizID uint) error {
	if err := s.requireVisible(ctx, quizID); err != nil {
		return err
	}
	if err := s.reactions.Add(ctx, kind, userID, quizID); err != nil {
		if domain.IsAlreadyExists(err) {
			return domain.NewAppError(domain.CodeConflict, "quiz already marked as "+string(kind), nil)
		}
		return err
	}
	slog.InfoContext(ctx, "quiz reaction added", slog.String("kind", string(kind)), slog.Uint64("quiz_id", uint64(quizID)))
	return nil
}

// Unreact removes a like or favourite. A missing pair is NotFound.
func (s *quizService) Unreact(ctx context.Context, kind domain.Reaction, userID, quizID uint) error {
	if err := s.requireVisible(ctx, quizID); err != nil {
		return err
	}
	if err := s.reactions.Remove(ctx, kind, userID, quizID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "quiz reaction removed", slog.String("kind", string(kind)), slog.Uint64("quiz_id", uint64(quizID)))
	return nil
}

func (s *quizService) requireVisible(ctx context.Context, quizID uint) error {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return err
	}
	if !quiz.IsVisible {
		return domain.NewAppError(domain.CodeNotFound, "quiz not found", nil)
	}
	return nil
}

func (s *quizService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.quizzes.ListCategories(ctx)
}

func (s *quizService) ListLevels(ctx context.Context) ([]domain.Level, error) {
	return s.quizzes.ListLevels(ctx)
}

// UploadImage stores an image under a fresh key. Only image/* content is
// accepted.
func (s *quizService) UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.images == nil {
		return "", domain.NewAppError(domain.CodeInternal, "image storage is not configured", nil)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.NewAppError(domain.CodeValidation, "only image uploads are accepted", nil)
	}

	key := storage.ImageKey(filename)
	if err := s.images.Put(ctx, key, r, size, contentType); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to store image", err)
	}
	slog.InfoContext(ctx, "quiz image stored", slog.String("key", key), slog.Int64("size", size))
	return key, nil
}
