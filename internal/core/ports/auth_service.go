package ports

import (
	"context"
	"time"

	"github.com/chirp/social-api/internal/core/domain"
)

// SignupInput carries the fields accepted on account creation.
type SignupInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

// AuthService creates accounts, verifies credentials and issues session tokens.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// SessionIssuer signs and verifies stateless session tokens.
type SessionIssuer interface {
	Issue(userID string) (string, error)
	// Verify returns the subject of a valid, unexpired token.
	Verify(token string) (string, error)
	TTL() time.Duration
}
