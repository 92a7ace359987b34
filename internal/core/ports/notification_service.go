package ports

import (
	"context"
	"time"

	"github.com/chirp/social-api/internal/core/domain"
)

// NotificationEmitter accepts notification events produced by follows and likes.
type NotificationEmitter interface {
	Emit(ctx context.Context, n domain.Notification) error
}

// NotificationDetail is a notification with its sender resolved.
type NotificationDetail struct {
	ID        string
	From      *domain.UserSummary
	To        string
	Kind      domain.NotificationKind
	PostID    string
	Read      bool
	CreatedAt time.Time
}

// NotificationService lists and clears a recipient's notifications.
type NotificationService interface {
	NotificationEmitter
	// List returns the recipient's notifications and marks them all read.
	List(ctx context.Context, userID string) ([]NotificationDetail, error)
	DeleteAll(ctx context.Context, userID string) error
}
