package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
)

type fakeVerifier map[string]uint

func (f fakeVerifier) Verify(token string) (uint, error) {
	id, ok := f[token]
	if !ok {
		return 0, errors.New("bad token")
	}
	return id, nil
}

type fakeUsers map[uint]*domain.User

func (f fakeUsers) GetByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	}
	return u, nil
}

func setupAuthRouter(t *testing.T, logBuf *bytes.Buffer) *gin.Engine {
	t.Helper()
	users := fakeUsers{
		1: {BaseModel: domain.BaseModel{ID: 1}, Nickname: "alice", Role: domain.RoleUser},
		2: {BaseModel: domain.BaseModel{ID: 2}, Nickname: "bob", Role: domain.RoleChief},
		3: {BaseModel: domain.BaseModel{ID: 3}, Nickname: "mallory", Role: domain.RoleBanned, IsBanned: true},
	}
	tokens := fakeVerifier{"tok-alice": 1, "tok-bob": 2, "tok-mallory": 3, "tok-ghost": 99}

	r := gin.New()
	r.Use(Authenticate(AuthConfig{
		Tokens:      tokens,
		Users:       users,
		PublicPaths: []string{"/api/v1/auth/", "/health"},
		Logger:      newTestLogger(logBuf),
	}))
	whoami := func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.Nickname+":"+string(p.Role))
	}
	r.GET("/api/v1/auth/login", whoami)
	r.GET("/api/v1/auth", whoami)
	r.GET("/health", whoami)
	r.GET("/health/deep", whoami)
	r.GET("/api/v1/users", whoami)
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"public prefix", "/api/v1/auth/login", "", http.StatusOK, "anonymous"},
		{"public prefix root", "/api/v1/auth", "", http.StatusOK, "anonymous"},
		{"public exact", "/health", "", http.StatusOK, "anonymous"},
		{"exact entry is not a prefix", "/health/deep", "", http.StatusForbidden, ""},
		{"missing header", "/api/v1/users", "", http.StatusForbidden, ""},
		{"wrong scheme", "/api/v1/users", "Basic tok-alice", http.StatusForbidden, ""},
		{"empty token", "/api/v1/users", "Bearer ", http.StatusForbidden, ""},
		{"invalid token", "/api/v1/users", "Bearer nope", http.StatusForbidden, ""},
		{"unknown subject", "/api/v1/users", "Bearer tok-ghost", http.StatusForbidden, ""},
		{"banned user", "/api/v1/users", "Bearer tok-mallory", http.StatusForbidden, ""},
		{"valid user", "/api/v1/users", "Bearer tok-alice", http.StatusOK, "alice:user"},
		{"case-insensitive scheme", "/api/v1/users", "bearer tok-bob", http.StatusOK, "bob:chief"},
		{"token on public path ignored", "/health", "Bearer nope", http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			r := setupAuthRouter(t, &logBuf)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden {
				var body map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("expected JSON body: %v", err)
				}
				if body["message"] != "access denied" {
					t.Errorf("message = %v, want access denied", body["message"])
				}
				if !strings.Contains(logBuf.String(), "access denied") {
					t.Errorf("expected denial to be logged, got:\n%s", logBuf.String())
				}
				return
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthenticate_PanicsOnNilDependencies(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Authenticate(AuthConfig{})
}

func TestCurrentPrincipal_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := CurrentPrincipal(c); ok {
		t.Fatal("expected no principal")
	}
	SetPrincipal(c, domain.Principal{UserID: 7, Role: domain.RoleAdmin})
	p, ok := CurrentPrincipal(c)
	if !ok || p.UserID != 7 || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestIsPublicPath(t *testing.T) {
	public := []string{"/api/v1/auth/", "/metrics"}
	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/auth/register", true},
		{"/api/v1/auth", true},
		{"/api/v1/authx", false},
		{"/metrics", true},
		{"/metrics/x", false},
		{"/api/v1/users", false},
	}
	for _, tt := range tests {
		if got := isPublicPath(public, tt.path); got != tt.want {
			t.Errorf("isPublicPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
