package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cctfd/internal/session"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Session(testSecret))
	all := append(handlers, func(c *gin.Context) {
		sc := SessionFrom(c)
		c.JSON(http.StatusOK, gin.H{"team": sc.TeamID, "admin": sc.Admin})
	})
	r.Any("/t", all...)
	return r
}

func token(t *testing.T, secret string, sc session.Context) string {
	t.Helper()
	tok, err := NewToken(secret, sc, time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	return tok
}

func TestSessionFromCookie(t *testing.T) {
	r := newRouter(RequireAuth())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token(t, testSecret, session.Context{TeamID: 7})})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"team":7`) {
		t.Fatalf("body = %s, want team 7", w.Body.String())
	}
}

func TestSessionFromBearer(t *testing.T) {
	r := newRouter(RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, testSecret, session.Context{TeamID: 1, Admin: true}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	r := newRouter(RequireAuth())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestTokenWithWrongSecretIsAnonymous(t *testing.T) {
	r := newRouter(RequireAuth())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token(t, "other-secret", session.Context{TeamID: 7})})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRequireAdminRejectsTeams(t *testing.T) {
	r := newRouter(RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token(t, testSecret, session.Context{TeamID: 7})})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRequireNonce(t *testing.T) {
	r := newRouter(RequireNonce())
	tok := token(t, testSecret, session.Context{TeamID: 7, Nonce: "n0nce"})

	tests := []struct {
		name  string
		nonce string
		want  int
	}{
		{"matching", "n0nce", http.StatusOK},
		{"mismatch", "other", http.StatusForbidden},
		{"missing", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.nonce != "" {
				form.Set("nonce", tt.nonce)
			}
			req := httptest.NewRequest(http.MethodPost, "/t", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequireNonceIgnoresGet(t *testing.T) {
	r := newRouter(RequireNonce())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
