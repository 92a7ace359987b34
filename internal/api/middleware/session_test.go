package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/core/domain"
)

type stubSessions struct {
	verifyFn func(token string) (string, error)
}

func (s *stubSessions) Issue(string) (string, error) { return "", nil }
func (s *stubSessions) TTL() time.Duration           { return time.Hour }
func (s *stubSessions) Verify(token string) (string, error) {
	return s.verifyFn(token)
}

type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newSessionContext(cookie string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func validSessions() *stubSessions {
	return &stubSessions{verifyFn: func(token string) (string, error) {
		if token != "good" {
			return "", errors.New("bad token")
		}
		return "u1", nil
	}}
}

func TestSession_ValidCookie(t *testing.T) {
	alice := &domain.User{ID: "u1", Username: "alice"}
	c, rec := newSessionContext("good")

	called := false
	h := Session(validSessions(), &stubUsers{users: map[string]*domain.User{"u1": alice}})(func(c echo.Context) error {
		called = true
		user, ok := CurrentUser(c)
		if !ok || user.Username != "alice" {
			t.Fatalf("user not stored in context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		users   map[string]*domain.User
		code    int
		message string
	}{
		{"missing cookie", "", nil, http.StatusUnauthorized, "Unauthorized access, please login"},
		{"invalid token", "forged", nil, http.StatusUnauthorized, "Unauthorized access, invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newSessionContext(tt.cookie)
			h := Session(validSessions(), &stubUsers{users: tt.users})(func(echo.Context) error {
				t.Fatalf("next should not be called")
				return nil
			})

			err := h(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != tt.code || he.Message != tt.message {
				t.Fatalf("unexpected error: %d %v", he.Code, he.Message)
			}
		})
	}
}

func TestSession_UserGone(t *testing.T) {
	c, _ := newSessionContext("good")
	h := Session(validSessions(), &stubUsers{})(func(echo.Context) error {
		t.Fatalf("next should not be called")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	c, _ := newSessionContext("")
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("expected no user")
	}
}
