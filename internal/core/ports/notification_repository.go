package ports

import (
	"context"

	"github.com/chirp/social-api/internal/core/domain"
)

// NotificationRepository persists notifications per recipient.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, to string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, to string) error
	DeleteAllForRecipient(ctx context.Context, to string) (int64, error)
}
