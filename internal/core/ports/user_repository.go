package ports

import (
	"context"

	"github.com/chirp/social-api/internal/core/domain"
)

// UserRepository persists user accounts and their relationship lists.
// Every method touches a single document; callers compose multi-document
// changes themselves.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindManyByIDs returns the users that exist among ids, in no particular order.
	FindManyByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// Sample returns up to size random users whose ids are not in exclude.
	Sample(ctx context.Context, exclude []string, size int) ([]*domain.User, error)
	// Update overwrites the profile fields and password hash of user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)

	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	AddFollowing(ctx context.Context, userID, followingID string) error
	RemoveFollowing(ctx context.Context, userID, followingID string) error
}
