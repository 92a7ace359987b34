package ports

import (
	"context"
	"time"

	"github.com/chirp/social-api/internal/core/domain"
)

// CreatePostInput carries a new post. Img is a base64 data URL.
type CreatePostInput struct {
	OwnerID string
	Text    string
	Img     string
}

// FeedQuery selects a feed. ViewerID is the authenticated caller; Username
// applies to FeedByUser and UserID to FeedLikedBy.
type FeedQuery struct {
	Kind     domain.FeedKind
	ViewerID string
	Username string
	UserID   string
}

// CommentDetail is a comment with its author resolved.
type CommentDetail struct {
	ID        string
	Text      string
	User      *domain.UserSummary
	CreatedAt time.Time
}

// PostDetail is a post with its owner and comment authors resolved.
type PostDetail struct {
	ID        string
	User      *domain.User
	Text      string
	Img       string
	Likes     []string
	Comments  []CommentDetail
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostService defines use-case operations for posts and feeds.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*PostDetail, error)
	Get(ctx context.Context, postID string) (*PostDetail, error)
	Delete(ctx context.Context, postID, requesterID string) error
	// ToggleLike likes the post when userID has not liked it yet and unlikes
	// it otherwise, returning the resulting liker set.
	ToggleLike(ctx context.Context, postID, userID string) ([]string, error)
	AddComment(ctx context.Context, postID, userID, text string) (*PostDetail, error)
	Feed(ctx context.Context, query FeedQuery) ([]PostDetail, error)
}
