package quiz

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
)

// QuizModule implements the app.Module interface for the quiz catalog.
type QuizModule struct {
	handler *QuizHandler
	uploads bool
}

// NewModule creates a new QuizModule. uploads registers the image upload
// route; it is off when no image storage is configured. Panics if h is nil.
func NewModule(h *QuizHandler, uploads bool) *QuizModule {
	if h == nil {
		panic("quiz.NewModule: handler must not be nil")
	}
	return &QuizModule{handler: h, uploads: uploads}
}

// RegisterRoutes registers the quiz catalog routes.
func (m *QuizModule) RegisterRoutes(api *gin.RouterGroup) {
	quizzes := api.Group("/quizzes")
	quizzes.GET("", m.handler.List)
	quizzes.POST("", m.handler.Create)
	quizzes.GET("/categories", m.handler.Categories)
	quizzes.GET("/levels", m.handler.Levels)
	quizzes.GET("/users/:userId/liked", m.handler.Liked)
	quizzes.GET("/users/:userId/favourites", m.handler.Favourites)
	quizzes.GET("/:quizzId", m.handler.Get)
	quizzes.PUT("/:quizzId/hide", m.handler.Hide)
	quizzes.POST("/:quizzId/like", m.handler.React(domain.ReactionLike, true))
	quizzes.DELETE("/:quizzId/like", m.handler.React(domain.ReactionLike, false))
	quizzes.POST("/:quizzId/favourite", m.handler.React(domain.ReactionFavourite, true))
	quizzes.DELETE("/:quizzId/favourite", m.handler.React(domain.ReactionFavourite, false))
	if m.uploads {
		quizzes.POST("/images", m.handler.UploadImage)
	}
}
