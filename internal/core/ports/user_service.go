package ports

import (
	"context"

	"github.com/chirp/social-api/internal/core/domain"
)

// UpdateProfileInput carries a profile edit. Empty fields are left unchanged.
// CurrentPassword and NewPassword must be supplied together. ProfileImg and
// CoverImg are base64 data URLs of replacement images.
type UpdateProfileInput struct {
	FullName        string
	Username        string
	Email           string
	Bio             string
	Link            string
	CurrentPassword string
	NewPassword     string
	ProfileImg      string
	CoverImg        string
}

// FollowResult describes the relationship after a follow state change.
type FollowResult struct {
	Following bool
	// Changed is false when the requested state was already in place.
	Changed bool
}

// UserService exposes profile lookups and the follow graph.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetFollowState(ctx context.Context, actorID, targetID string, follow bool) (*FollowResult, error)
	// ToggleFollow follows target when actor does not follow it yet, and unfollows otherwise.
	ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error)
	Suggested(ctx context.Context, userID string) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
}
