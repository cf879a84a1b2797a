package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/quizhub/internal/domain"
)

func TestAuthorize(t *testing.T) {
	policy := domain.DefaultPolicy()

	tests := []struct {
		name       string
		principal  *domain.Principal
		op         domain.Operation
		wantStatus int
	}{
		{"no principal", nil, domain.OpBanUser, http.StatusForbidden},
		{"user cannot ban", &domain.Principal{UserID: 1, Role: domain.RoleUser}, domain.OpBanUser, http.StatusForbidden},
		{"admin can ban", &domain.Principal{UserID: 1, Role: domain.RoleAdmin}, domain.OpBanUser, http.StatusOK},
		{"chief can ban", &domain.Principal{UserID: 1, Role: domain.RoleChief}, domain.OpBanUser, http.StatusOK},
		{"admin cannot promote", &domain.Principal{UserID: 1, Role: domain.RoleAdmin}, domain.OpPromoteToAdmin, http.StatusForbidden},
		{"chief can promote", &domain.Principal{UserID: 1, Role: domain.RoleChief}, domain.OpPromoteToChief, http.StatusOK},
		{"unknown operation denied", &domain.Principal{UserID: 1, Role: domain.RoleChief}, domain.Operation("nope"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.principal != nil {
					SetPrincipal(c, *tt.principal)
				}
				c.Next()
			})
			reached := false
			r.PUT("/x", Authorize(policy, tt.op), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/x", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if reached != (tt.wantStatus == http.StatusOK) {
				t.Errorf("handler reached = %v", reached)
			}
		})
	}
}
