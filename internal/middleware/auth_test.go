package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"renthome/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(t *testing.T, jwtService *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/owner-only", Auth(jwtService), RequireRole("owner"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMissingHeader(t *testing.T) {
	r := newAuthRouter(t, jwt.New("test-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	r := newAuthRouter(t, jwt.New("test-secret", time.Hour))

	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	r := newAuthRouter(t, jwt.New("test-secret", time.Hour))

	other := jwt.New("other-secret", time.Hour)
	token, err := other.GenerateToken(1, "tenant")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign signature, got %d", w.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	svc := jwt.New("test-secret", -time.Minute)
	r := newAuthRouter(t, jwt.New("test-secret", time.Hour))

	token, err := svc.GenerateToken(1, "tenant")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	svc := jwt.New("test-secret", time.Hour)
	r := newAuthRouter(t, svc)

	token, err := svc.GenerateToken(17, "tenant")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	svc := jwt.New("test-secret", time.Hour)
	r := newAuthRouter(t, svc)

	tenantToken, err := svc.GenerateToken(17, "tenant")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	ownerToken, err := svc.GenerateToken(18, "owner")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+tenantToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("tenant on owner route: expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/owner-only", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("owner on owner route: expected 200, got %d", w.Code)
	}
}
