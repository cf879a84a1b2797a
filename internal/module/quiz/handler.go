package quiz

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
	"github.com/simp-lee/quizhub/internal/pkg"
)

// QuizHandler handles REST API requests for the quiz catalog.
type QuizHandler struct {
	svc         domain.QuizService
	maxImageLen int64
}

// NewQuizHandler creates a new QuizHandler. maxImageBytes bounds image uploads.
func NewQuizHandler(svc domain.QuizService, maxImageBytes int64) *QuizHandler {
	return &QuizHandler{svc: svc, maxImageLen: maxImageBytes}
}

// List handles GET /api/v1/quizzes?page&size&title&nickname&categoryId&levelId.
func (h *QuizHandler) List(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	filter := commonFilter(c)
	filter.Nickname = c.Query("nickname")
	h.list(c, caller, filter)
}

// Liked handles GET /api/v1/quizzes/users/:userId/liked.
func (h *QuizHandler) Liked(c *gin.Context) {
	h.membership(c, func(f *domain.QuizFilter, userID uint) { f.LikedBy = &userID })
}

// Favourites handles GET /api/v1/quizzes/users/:userId/favourites.
func (h *QuizHandler) Favourites(c *gin.Context) {
	h.membership(c, func(f *domain.QuizFilter, userID uint) { f.FavouritedBy = &userID })
}

func (h *QuizHandler) membership(c *gin.Context, apply func(*domain.QuizFilter, uint)) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	userID, err := pkg.ParseID(c, "userId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	filter := commonFilter(c)
	apply(&filter, userID)
	h.list(c, caller, filter)
}

func (h *QuizHandler) list(c *gin.Context, caller domain.Principal, filter domain.QuizFilter) {
	page, err := h.svc.ListQuizzes(c.Request.Context(), caller.UserID, filter, pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, pkg.MapPage(page, toQuizListItemResponse))
}

// commonFilter reads the title, categoryId and levelId query parameters.
func commonFilter(c *gin.Context) domain.QuizFilter {
	return domain.QuizFilter{
		Title:      c.Query("title"),
		CategoryID: pkg.OptionalID(c, "categoryId"),
		LevelID:    pkg.OptionalID(c, "levelId"),
	}
}

// Create handles POST /api/v1/quizzes.
func (h *QuizHandler) Create(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	var req CreateQuizRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	quiz := req.toDomain(caller.UserID)
	if err := h.svc.CreateQuiz(c.Request.Context(), quiz); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, toQuizResponse(*quiz))
}

// Get handles GET /api/v1/quizzes/:quizzId.
func (h *QuizHandler) Get(c *gin.Context) {
	quizID, err := pkg.ParseID(c, "quizzId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	quiz, err := h.svc.GetQuizWithDetails(c.Request.Context(), quizID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, toQuizDetailsResponse(quiz))
}

// Hide handles PUT /api/v1/quizzes/:quizzId/hide.
func (h *QuizHandler) Hide(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	quizID, err := pkg.ParseID(c, "quizzId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.HideQuiz(c.Request.Context(), caller, quizID); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.NoContent(c)
}

// React returns the handler that adds (add=true) or removes a reaction of kind.
func (h *QuizHandler) React(kind domain.Reaction, add bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := principal(c)
		if !ok {
			return
		}
		quizID, err := pkg.ParseID(c, "quizzId")
		if err != nil {
			pkg.Error(c, err)
			return
		}

		if add {
			err = h.svc.React(c.Request.Context(), kind, caller.UserID, quizID)
		} else {
			err = h.svc.Unreact(c.Request.Context(), kind, caller.UserID, quizID)
		}
		if err != nil {
			pkg.Error(c, err)
			return
		}
		if add {
			pkg.Created(c, nil)
			return
		}
		pkg.NoContent(c)
	}
}

// Categories handles GET /api/v1/quizzes/categories.
func (h *QuizHandler) Categories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, categories)
}

// Levels handles GET /api/v1/quizzes/levels.
func (h *QuizHandler) Levels(c *gin.Context) {
	levels, err := h.svc.ListLevels(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, levels)
}

// UploadImage handles POST /api/v1/quizzes/images (multipart field "image").
func (h *QuizHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "image file is required", err))
		return
	}
	if h.maxImageLen > 0 && fh.Size > h.maxImageLen {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation,
			"image exceeds "+strconv.FormatInt(h.maxImageLen, 10)+" bytes", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "cannot read image", err))
		return
	}
	defer f.Close()

	key, err := h.svc.UploadImage(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, ImageResponse{Img: key})
}

func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "access denied", nil))
		c.Abort()
	}
	return p, ok
}
