package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chirp/social-api/internal/api/middleware"
	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (string, *domain.User, error)
	loginFn  func(ctx context.Context, username, password string) (string, *domain.User, error)
	meFn     func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubSessions struct {
	ttl time.Duration
}

func (s stubSessions) Issue(userID string) (string, error) { return "token-" + userID, nil }
func (s stubSessions) Verify(token string) (string, error) { return strings.TrimPrefix(token, "token-"), nil }
func (s stubSessions) TTL() time.Duration                  { return s.ttl }

type stubUserService struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	toggleFollowFn  func(ctx context.Context, actorID, targetID string) (*ports.FollowResult, error)
	suggestedFn     func(ctx context.Context, userID string) ([]*domain.User, error)
	updateFn        func(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubUserService) SetFollowState(ctx context.Context, actorID, targetID string, follow bool) (*ports.FollowResult, error) {
	return &ports.FollowResult{Following: follow}, nil
}

func (s *stubUserService) ToggleFollow(ctx context.Context, actorID, targetID string) (*ports.FollowResult, error) {
	return s.toggleFollowFn(ctx, actorID, targetID)
}

func (s *stubUserService) Suggested(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.suggestedFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

type stubPostService struct {
	createFn     func(ctx context.Context, in ports.CreatePostInput) (*ports.PostDetail, error)
	getFn        func(ctx context.Context, postID string) (*ports.PostDetail, error)
	deleteFn     func(ctx context.Context, postID, requesterID string) error
	toggleLikeFn func(ctx context.Context, postID, userID string) ([]string, error)
	commentFn    func(ctx context.Context, postID, userID, text string) (*ports.PostDetail, error)
	feedFn       func(ctx context.Context, q ports.FeedQuery) ([]ports.PostDetail, error)
}

func (s *stubPostService) Create(ctx context.Context, in ports.CreatePostInput) (*ports.PostDetail, error) {
	return s.createFn(ctx, in)
}

func (s *stubPostService) Get(ctx context.Context, postID string) (*ports.PostDetail, error) {
	return s.getFn(ctx, postID)
}

func (s *stubPostService) Delete(ctx context.Context, postID, requesterID string) error {
	return s.deleteFn(ctx, postID, requesterID)
}

func (s *stubPostService) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}

func (s *stubPostService) AddComment(ctx context.Context, postID, userID, text string) (*ports.PostDetail, error) {
	return s.commentFn(ctx, postID, userID, text)
}

func (s *stubPostService) Feed(ctx context.Context, q ports.FeedQuery) ([]ports.PostDetail, error) {
	return s.feedFn(ctx, q)
}

type stubNotificationService struct {
	listFn      func(ctx context.Context, userID string) ([]ports.NotificationDetail, error)
	deleteAllFn func(ctx context.Context, userID string) error
}

func (s *stubNotificationService) Emit(ctx context.Context, n domain.Notification) error {
	return nil
}

func (s *stubNotificationService) List(ctx context.Context, userID string) ([]ports.NotificationDetail, error) {
	return s.listFn(ctx, userID)
}

func (s *stubNotificationService) DeleteAll(ctx context.Context, userID string) error {
	return s.deleteAllFn(ctx, userID)
}

// newContext builds an echo context for a JSON request. A non-nil user is
// stored the way the Session middleware does.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return c, rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

var alice = &domain.User{ID: "u1", Username: "alice", FullName: "Alice", Email: "alice@example.com"}
