package quiz

import (
	"time"

	"github.com/simp-lee/quizhub/internal/domain"
)

// CreateQuizRequest is the body of POST /api/v1/quizzes.
type CreateQuizRequest struct {
	Title      string                  `json:"title" binding:"required,max=255"`
	CategoryID uint                    `json:"category_id" binding:"required"`
	LevelID    uint                    `json:"level_id" binding:"required"`
	Img        string                  `json:"img" binding:"max=512"`
	Questions  []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuestionRequest is one question of a CreateQuizRequest.
type CreateQuestionRequest struct {
	NumQuestion int                   `json:"num_question" binding:"gte=1"`
	Question    string                `json:"question" binding:"required"`
	Answers     []CreateAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// CreateAnswerRequest is one answer of a CreateQuestionRequest.
type CreateAnswerRequest struct {
	NumAnswer int    `json:"num_answer" binding:"gte=1"`
	Answer    string `json:"answer" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// toDomain builds the aggregate owned by creatorID.
func (r CreateQuizRequest) toDomain(creatorID uint) *domain.Quiz {
	q := &domain.Quiz{
		Title:      r.Title,
		CreatorID:  creatorID,
		CategoryID: r.CategoryID,
		LevelID:    r.LevelID,
		Img:        r.Img,
		Questions:  make([]domain.Question, 0, len(r.Questions)),
	}
	for _, qr := range r.Questions {
		question := domain.Question{
			NumQuestion: qr.NumQuestion,
			Text:        qr.Question,
			Answers:     make([]domain.Answer, 0, len(qr.Answers)),
		}
		for _, ar := range qr.Answers {
			question.Answers = append(question.Answers, domain.Answer{
				NumAnswer: ar.NumAnswer,
				Text:      ar.Answer,
				IsCorrect: ar.IsCorrect,
			})
		}
		q.Questions = append(q.Questions, question)
	}
	return q
}

// QuizResponse is the summary view of a quiz.
type QuizResponse struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Category        domain.Category `json:"category"`
	Level           domain.Level    `json:"level"`
	CreatorID       uint            `json:"creator_id"`
	CreatorNickname string          `json:"creator_nickname"`
	Img             string          `json:"img,omitempty"`
	IsVisible       bool            `json:"is_visible"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toQuizResponse(q domain.Quiz) QuizResponse {
	return QuizResponse{
		ID:              q.ID,
		Title:           q.Title,
		Category:        q.Category,
		Level:           q.Level,
		CreatorID:       q.CreatorID,
		CreatorNickname: q.Creator.Nickname,
		Img:             q.Img,
		IsVisible:       q.IsVisible,
		CreatedAt:       q.CreatedAt,
	}
}

// QuizListItemResponse is a discovery result with the caller's reactions.
type QuizListItemResponse struct {
	QuizResponse
	IsLiked     bool `json:"is_liked"`
	IsFavourite bool `json:"is_favourite"`
}

func toQuizListItemResponse(it domain.QuizListItem) QuizListItemResponse {
	return QuizListItemResponse{
		QuizResponse: toQuizResponse(it.Quiz),
		IsLiked:      it.Liked,
		IsFavourite:  it.Favourite,
	}
}

// AnswerResponse is one answer in a quiz detail view.
type AnswerResponse struct {
	ID        uint   `json:"id"`
	NumAnswer int    `json:"num_answer"`
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse is one question in a quiz detail view.
type QuestionResponse struct {
	ID          uint             `json:"id"`
	NumQuestion int              `json:"num_question"`
	Question    string           `json:"question"`
	Answers     []AnswerResponse `json:"answers"`
}

// QuizDetailsResponse is the full quiz aggregate.
type QuizDetailsResponse struct {
	Quiz      QuizResponse       `json:"quiz"`
	Questions []QuestionResponse `json:"questions"`
}

func toQuizDetailsResponse(q *domain.Quiz) QuizDetailsResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions))
	for _, qu := range q.Questions {
		answers := make([]AnswerResponse, 0, len(qu.Answers))
		for _, a := range qu.Answers {
			answers = append(answers, AnswerResponse{ID: a.ID, NumAnswer: a.NumAnswer, Answer: a.Text, IsCorrect: a.IsCorrect})
		}
		questions = append(questions, QuestionResponse{
			ID:          qu.ID,
			NumQuestion: qu.NumQuestion,
			Question:    qu.Text,
			Answers:     answers,
		})
	}
	return QuizDetailsResponse{Quiz: toQuizResponse(*q), Questions: questions}
}

// ImageResponse carries the key of an uploaded image.
type ImageResponse struct {
	Img string `json:"img"`
}
