package domain

import "time"

// NotificationKind is the action that produced a notification.
type NotificationKind string

const (
	NotificationFollow NotificationKind = "follow"
	NotificationLike   NotificationKind = "like"
)

// Notification tells To that From followed them or liked one of their posts.
type Notification struct {
	ID        string
	From      string
	To        string
	Kind      NotificationKind
	PostID    string // like only
	Read      bool
	CreatedAt time.Time
}
