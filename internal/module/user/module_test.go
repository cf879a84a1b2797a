package user

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
)

func TestUserModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	NewModule(&UserHandler{}, domain.DefaultPolicy()).RegisterRoutes(r.Group("/api/v1"))

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/:userId/profile"},
		{http.MethodPut, "/api/v1/users/:userId/ban"},
		{http.MethodPut, "/api/v1/users/:userId/unban"},
		{http.MethodPut, "/api/v1/users/:userId/promote-to-admin"},
		{http.MethodPut, "/api/v1/users/:userId/promote-to-chief"},
		{http.MethodPut, "/api/v1/users/:userId/demote-to-user"},
	}

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}
	for _, exp := range expected {
		if !registered[exp.method+":"+exp.path] {
			t.Errorf("expected route %s %s to be registered", exp.method, exp.path)
		}
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewModule() expected panic for nil handler, got none")
		}
	}()

	_ = NewModule(nil, domain.DefaultPolicy())
}
