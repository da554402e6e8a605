package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

func newAuthTestRouter(validate SessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(validate), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id": AdminID(c),
			"token":    SessionToken(c),
		})
	})
	return r
}

func TestRequireSession_MissingToken(t *testing.T) {
	r := newAuthTestRouter(func(ctx context.Context, token string) (*domain.Session, error) {
		t.Fatalf("validator must not be called without a token")
		return nil, nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireSession_InvalidToken(t *testing.T) {
	r := newAuthTestRouter(func(ctx context.Context, token string) (*domain.Session, error) {
		return nil, errors.New("no session")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireSession_ValidToken_SetsContext(t *testing.T) {
	sess := &domain.Session{Token: "tok-1", AdminID: "admin-1", Email: "a@example.com"}
	r := newAuthTestRouter(func(ctx context.Context, token string) (*domain.Session, error) {
		if token != "tok-1" {
			t.Fatalf("validator got token %q", token)
		}
		return sess, nil
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	// Scheme is case-insensitive per RFC 7235.
	req.Header.Set("Authorization", "bEaReR tok-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "admin-1") || !strings.Contains(body, "tok-1") {
		t.Fatalf("context values missing: %s", body)
	}
}

func TestBearerToken_RejectsOtherSchemes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Basic dXNlcjpwdw==")

	if tok := bearerToken(c); tok != "" {
		t.Fatalf("non-bearer scheme must yield no token, got %q", tok)
	}
}
