package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/chirp/social-api/internal/core/domain"
)

func newTestDeduper(t *testing.T, window time.Duration) (*NotificationDeduper, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewNotificationDeduper(client, window), s
}

func TestNotificationDeduper_Claim(t *testing.T) {
	d, _ := newTestDeduper(t, time.Minute)
	ctx := context.Background()
	n := domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationLike, PostID: "p1"}

	first, err := d.Claim(ctx, n)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !first {
		t.Fatalf("expected first claim to win")
	}

	again, err := d.Claim(ctx, n)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if again {
		t.Fatalf("expected repeated claim to be a duplicate")
	}

	other := n
	other.PostID = "p2"
	if ok, _ := d.Claim(ctx, other); !ok {
		t.Fatalf("a different post should not collide")
	}
}

func TestNotificationDeduper_Forget(t *testing.T) {
	d, s := newTestDeduper(t, time.Minute)
	ctx := context.Background()
	n := domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationLike, PostID: "p1"}

	if ok, _ := d.Claim(ctx, n); !ok {
		t.Fatalf("expected first claim to win")
	}
	if err := d.Forget(ctx, n); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if s.Exists("notify:like:u1:u2:p1") {
		t.Fatalf("expected key to be removed")
	}
	if ok, _ := d.Claim(ctx, n); !ok {
		t.Fatalf("expected claim to win again after forget")
	}

	if err := d.Forget(ctx, domain.Notification{From: "u3", To: "u4", Kind: domain.NotificationFollow}); err != nil {
		t.Fatalf("forgetting an unclaimed notification should not fail: %v", err)
	}
}

func TestNotificationDeduper_WindowExpires(t *testing.T) {
	d, s := newTestDeduper(t, time.Minute)
	ctx := context.Background()
	n := domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationFollow}

	if ok, _ := d.Claim(ctx, n); !ok {
		t.Fatalf("expected first claim to win")
	}
	s.FastForward(2 * time.Minute)
	if ok, _ := d.Claim(ctx, n); !ok {
		t.Fatalf("expected claim to win again after the window")
	}
}

func TestNotificationDeduper_Key(t *testing.T) {
	d, s := newTestDeduper(t, time.Minute)

	if _, err := d.Claim(context.Background(), domain.Notification{From: "a", To: "b", Kind: domain.NotificationFollow}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !s.Exists("notify:follow:a:b") {
		t.Fatalf("expected key notify:follow:a:b, have %v", s.Keys())
	}
	if ttl := s.TTL("notify:follow:a:b"); ttl != time.Minute {
		t.Fatalf("expected TTL of 1m, got %s", ttl)
	}
}

func TestNotificationDeduper_Unavailable(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()
	d := NewNotificationDeduper(client, time.Minute)

	if _, err := d.Claim(context.Background(), domain.Notification{From: "a", To: "b", Kind: domain.NotificationFollow}); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
