package quiz

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
	"github.com/simp-lee/quizhub/internal/middleware"
	"github.com/simp-lee/quizhub/internal/pkg"
)

func setupRouter(h *harness, caller *domain.Principal, maxImage int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			middleware.SetPrincipal(c, *caller)
		}
		c.Next()
	})
	NewModule(NewQuizHandler(h.svc, maxImage), true).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) pkg.Response {
	t.Helper()
	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return resp
}

var alice = &domain.Principal{UserID: 1, Role: domain.RoleUser}

const createBody = `{
	"title": "Capitals",
	"category_id": 1,
	"level_id": 1,
	"questions": [
		{"num_question": 2, "question": "Capital of Italy?", "answers": [
			{"num_answer": 1, "answer": "Rome", "is_correct": true}
		]},
		{"num_question": 1, "question": "Capital of France?", "answers": [
			{"num_answer": 1, "answer": "Paris", "is_correct": true},
			{"num_answer": 2, "answer": "Lyon"}
		]}
	]
}`

func TestQuizHandler_Create(t *testing.T) {
	h := newHarness(nil)
	r := setupRouter(h, alice, 0)

	w := do(r, http.MethodPost, "/api/v1/quizzes", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := decode(t, w).Data.(map[string]any)
	if data["title"] != "Capitals" || data["creator_nickname"] != "alice" || data["is_visible"] != true {
		t.Errorf("response = %v", data)
	}
	stored := h.quizzes.quizzes[1]
	if stored == nil || stored.CreatorID != 1 || len(stored.Questions) != 2 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestQuizHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{"title":`, http.StatusBadRequest},
		{"missing title", `{"category_id":1,"level_id":1,"questions":[{"num_question":1,"question":"q","answers":[{"num_answer":1,"answer":"a"}]}]}`, http.StatusBadRequest},
		{"no questions", `{"title":"t","category_id":1,"level_id":1,"questions":[]}`, http.StatusBadRequest},
		{"question without answers", `{"title":"t","category_id":1,"level_id":1,"questions":[{"num_question":1,"question":"q","answers":[]}]}`, http.StatusBadRequest},
		{"zero ordinal", `{"title":"t","category_id":1,"level_id":1,"questions":[{"num_question":0,"question":"q","answers":[{"num_answer":1,"answer":"a"}]}]}`, http.StatusBadRequest},
		{"duplicate ordinal", `{"title":"t","category_id":1,"level_id":1,"questions":[{"num_question":1,"question":"q","answers":[{"num_answer":1,"answer":"a"},{"num_answer":1,"answer":"b"}]}]}`, http.StatusBadRequest},
		{"unknown category", `{"title":"t","category_id":9,"level_id":1,"questions":[{"num_question":1,"question":"q","answers":[{"num_answer":1,"answer":"a"}]}]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil)
			w := do(setupRouter(h, alice, 0), http.MethodPost, "/api/v1/quizzes", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if len(h.quizzes.quizzes) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestQuizHandler_GetDetails(t *testing.T) {
	h := newHarness(nil)
	h.quizzes.add(domain.Quiz{
		Title: "Capitals", CreatorID: 1, IsVisible: true,
		Questions: []domain.Question{{ID: 4, NumQuestion: 1, Text: "Capital of France?", Answers: []domain.Answer{
			{ID: 8, NumAnswer: 1, Text: "Paris", IsCorrect: true},
		}}},
	})
	r := setupRouter(h, alice, 0)

	w := do(r, http.MethodGet, "/api/v1/quizzes/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := decode(t, w).Data.(map[string]any)
	questions := data["questions"].([]any)
	q := questions[0].(map[string]any)
	a := q["answers"].([]any)[0].(map[string]any)
	if q["question"] != "Capital of France?" || a["answer"] != "Paris" || a["is_correct"] != true {
		t.Errorf("details = %v", data)
	}

	for path, want := range map[string]int{
		"/api/v1/quizzes/99":  http.StatusNotFound,
		"/api/v1/quizzes/abc": http.StatusBadRequest,
	} {
		if w := do(r, http.MethodGet, path, ""); w.Code != want {
			t.Errorf("%s: status = %d, want %d", path, w.Code, want)
		}
	}
}

func TestQuizHandler_Hide(t *testing.T) {
	tests := []struct {
		name       string
		caller     *domain.Principal
		wantStatus int
	}{
		{"creator", alice, http.StatusNoContent},
		{"admin", &domain.Principal{UserID: 9, Role: domain.RoleAdmin}, http.StatusNoContent},
		{"other user", &domain.Principal{UserID: 2, Role: domain.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil)
			h.quizzes.add(domain.Quiz{Title: "q", CreatorID: 1, IsVisible: true})
			w := do(setupRouter(h, tt.caller, 0), http.MethodPut, "/api/v1/quizzes/1/hide", "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestQuizHandler_List(t *testing.T) {
	h := newHarness(nil)
	h.quizzes.add(domain.Quiz{Title: "one", CreatorID: 1, IsVisible: true})
	h.quizzes.add(domain.Quiz{Title: "two", CreatorID: 1, IsVisible: true})
	h.reactions.marks[domain.ReactionLike][[2]uint{1, 2}] = true
	r := setupRouter(h, alice, 0)

	w := do(r, http.MethodGet, "/api/v1/quizzes?title=on&nickname=al&categoryId=3&levelId=-1&size=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	f := h.quizzes.lastFilter
	if f.Title != "on" || f.Nickname != "al" || f.CategoryID == nil || *f.CategoryID != 3 || f.LevelID != nil {
		t.Errorf("filter = %+v", f)
	}

	data := decode(t, w).Data.(map[string]any)
	if data["size"] != float64(5) || data["total"] != float64(2) {
		t.Errorf("page meta = %v", data)
	}
	items := data["items"].([]any)
	if items[0].(map[string]any)["is_liked"] != false || items[1].(map[string]any)["is_liked"] != true {
		t.Errorf("items = %v", items)
	}
}

func TestQuizHandler_MembershipLists(t *testing.T) {
	h := newHarness(nil)
	r := setupRouter(h, alice, 0)

	w := do(r, http.MethodGet, "/api/v1/quizzes/users/7/liked?title=x&levelId=2&nickname=ignored", "")
	if w.Code != http.StatusOK {
		t.Fatalf("liked: status = %d", w.Code)
	}
	f := h.quizzes.lastFilter
	if f.LikedBy == nil || *f.LikedBy != 7 || f.FavouritedBy != nil || f.Title != "x" || f.LevelID == nil || *f.LevelID != 2 || f.Nickname != "" {
		t.Errorf("liked filter = %+v", f)
	}

	w = do(r, http.MethodGet, "/api/v1/quizzes/users/7/favourites", "")
	if w.Code != http.StatusOK {
		t.Fatalf("favourites: status = %d", w.Code)
	}
	f = h.quizzes.lastFilter
	if f.FavouritedBy == nil || *f.FavouritedBy != 7 || f.LikedBy != nil || f.CategoryID != nil {
		t.Errorf("favourites filter = %+v", f)
	}

	if w := do(r, http.MethodGet, "/api/v1/quizzes/users/0/liked", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad user id: status = %d", w.Code)
	}
}

func TestQuizHandler_Reactions(t *testing.T) {
	h := newHarness(nil)
	h.quizzes.add(domain.Quiz{Title: "q", IsVisible: true})
	r := setupRouter(h, alice, 0)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodPost, "/api/v1/quizzes/1/like", http.StatusCreated},
		{http.MethodPost, "/api/v1/quizzes/1/like", http.StatusConflict},
		{http.MethodPost, "/api/v1/quizzes/1/favourite", http.StatusCreated},
		{http.MethodPost, "/api/v1/quizzes/2/like", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/quizzes/1/like", http.StatusNoContent},
		{http.MethodDelete, "/api/v1/quizzes/1/like", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/quizzes/1/favourite", http.StatusNoContent},
	}
	for _, tt := range tests {
		if w := do(r, tt.method, tt.path, ""); w.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
		}
	}
}

func TestQuizHandler_ReferenceData(t *testing.T) {
	r := setupRouter(newHarness(nil), alice, 0)
	for path, label := range map[string]string{
		"/api/v1/quizzes/categories": "Science",
		"/api/v1/quizzes/levels":     "Easy",
	} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, w.Code)
		}
		items := decode(t, w).Data.([]any)
		if len(items) != 1 || items[0].(map[string]any)["label"] != label {
			t.Errorf("%s: %v", path, items)
		}
	}
}

func multipartImage(t *testing.T, field, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="cover.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestQuizHandler_UploadImage(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		contentType string
		content     []byte
		wantStatus  int
	}{
		{"png", "image", "image/png", []byte("png-bytes"), http.StatusCreated},
		{"wrong field", "file", "image/png", []byte("png-bytes"), http.StatusBadRequest},
		{"not an image", "image", "text/plain", []byte("hello"), http.StatusBadRequest},
		{"too large", "image", "image/png", bytes.Repeat([]byte("x"), 64), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil)
			r := setupRouter(h, alice, 32)
			body, ct := multipartImage(t, tt.field, tt.contentType, tt.content)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes/images", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				data := decode(t, w).Data.(map[string]any)
				if data["img"] == "" || data["img"] != h.images.key || string(h.images.body) != "png-bytes" {
					t.Errorf("img = %v, stored %q under %q", data["img"], h.images.body, h.images.key)
				}
			}
		})
	}
}
