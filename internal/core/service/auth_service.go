package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements signup, login and session issuance.
type AuthService struct {
	repo     ports.UserRepository
	sessions ports.SessionIssuer
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sessions ports.SessionIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, log: log}
}

// Signup validates the input, stores the account with a bcrypt hash of the
// password and returns a session token for it.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)

	if !validEmail(email) {
		return "", nil, domain.ErrInvalidEmail
	}
	if username == "" {
		return "", nil, domain.Validation("Username is required")
	}
	if fullName == "" {
		return "", nil, domain.Validation("Full name is required")
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return "", nil, err
	}

	if len(in.Password) < domain.MinPasswordLength {
		return "", nil, domain.ErrPasswordTooShort
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Followers:    []string{},
		Following:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessions.Issue(created.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	return token, created, nil
}

// Login verifies username and password. Unknown users and wrong passwords
// yield the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// ensureAvailable rejects a username or email that already belongs to an account.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func hashPassword(password string) (string, error) {
	if len(password) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
