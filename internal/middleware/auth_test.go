package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/token"
)

func authRouter(tokens *token.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuth(tokens)
	r := gin.New()
	r.GET("/me", auth.RequireAuth, func(c *gin.Context) {
		id, _ := Identity(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email, "role": id.Role})
	})
	r.GET("/admin", auth.RequireAuth, RequireRole(model.RoleSuperadmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewService("test-secret")
	r := authRouter(tokens)

	if w := get(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a header, got %d", w.Code)
	}
	if w := get(r, "/me", "bogus"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", w.Code)
	}

	tok, err := tokens.Issue("user@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	w := get(r, "/me", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"email":"user@example.com","role":"user"}` {
		t.Fatalf("unexpected identity payload %s", body)
	}
}

func TestRequireAuthRejectsNonBearerScheme(t *testing.T) {
	tokens := token.NewService("test-secret")
	r := authRouter(tokens)
	tok, err := tokens.Issue("user@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a non-bearer scheme, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := token.NewService("test-secret")
	r := authRouter(tokens)

	for role, want := range map[model.Role]int{
		model.RoleUser:       http.StatusForbidden,
		model.RoleAdmin:      http.StatusForbidden,
		model.RoleSuperadmin: http.StatusOK,
	} {
		tok, err := tokens.Issue("someone@example.com", role)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		if w := get(r, "/admin", tok); w.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, w.Code)
		}
	}
}
