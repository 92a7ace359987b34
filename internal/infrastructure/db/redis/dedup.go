package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chirp/social-api/internal/api/metrics"
	"github.com/chirp/social-api/internal/core/domain"
)

const keyPrefix = "notify"

// NotificationDeduper suppresses repeated notifications inside a time window.
// Key format: notify:<kind>:<from>:<to>[:<post_id>]
type NotificationDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewNotificationDeduper creates a NotificationDeduper wrapping the given Redis client.
func NewNotificationDeduper(client *redis.Client, window time.Duration) *NotificationDeduper {
	return &NotificationDeduper{client: client, window: window}
}

// Claim atomically marks n as seen and reports whether it was the first
// occurrence inside the window.
func (d *NotificationDeduper) Claim(ctx context.Context, n domain.Notification) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	first, err := d.client.SetNX(ctx, d.key(n), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}

	if first {
		metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
	}
	return first, nil
}

// Forget drops the claim on n, used when the notification could not be stored.
func (d *NotificationDeduper) Forget(ctx context.Context, n domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := d.client.Del(ctx, d.key(n)).Err(); err != nil {
		return fmt.Errorf("dedup forget: %w", err)
	}
	return nil
}

func (d *NotificationDeduper) key(n domain.Notification) string {
	parts := []string{keyPrefix, string(n.Kind), n.From, n.To}
	if n.PostID != "" {
		parts = append(parts, n.PostID)
	}
	return strings.Join(parts, ":")
}
