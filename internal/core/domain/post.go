package domain

import (
	"slices"
	"time"
)

// Comment is a single entry in a post's comment thread.
type Comment struct {
	ID        string
	Text      string
	UserID    string
	CreatedAt time.Time
}

// Post is a piece of user content. Text and Img are never both empty.
type Post struct {
	ID        string
	OwnerID   string
	Text      string
	Img       string
	Likes     []string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikedBy reports whether userID is in the post's liker set.
func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// FeedKind selects which posts a feed lists.
type FeedKind string

const (
	FeedAll       FeedKind = "all"
	FeedFollowing FeedKind = "following"
	FeedByUser    FeedKind = "byUser"
	FeedLikedBy   FeedKind = "likedBy"
)
