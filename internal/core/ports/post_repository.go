package ports

import (
	"context"

	"github.com/chirp/social-api/internal/core/domain"
)

// PostFilter narrows a post listing. Zero values do not filter.
type PostFilter struct {
	OwnerIDs []string // nil = any owner
	LikedBy  string
}

// PostRepository persists posts with their likes and comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// AddLike and RemoveLike return the liker set after the change.
	AddLike(ctx context.Context, postID, userID string) ([]string, error)
	RemoveLike(ctx context.Context, postID, userID string) ([]string, error)
	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)
	// List returns matching posts, newest first.
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
}
