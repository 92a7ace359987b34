package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chirp/social-api/internal/core/domain"
)

type stubDeduper struct {
	seen map[string]bool
	err  error
}

func (d *stubDeduper) Claim(_ context.Context, n domain.Notification) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	key := string(n.Kind) + n.From + n.To + n.PostID
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func (d *stubDeduper) Forget(_ context.Context, n domain.Notification) error {
	delete(d.seen, string(n.Kind)+n.From+n.To+n.PostID)
	return nil
}

func TestNotificationService_Emit_StoreFailureReleasesDedupClaim(t *testing.T) {
	repo := &stubNotificationRepo{insertErr: errors.New("write failed")}
	dedup := &stubDeduper{seen: map[string]bool{}}
	svc := NewNotificationService(repo, newStubUserRepo(), dedup, NotificationOptions{}, zerolog.Nop())
	n := domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationLike, PostID: "p1"}

	if err := svc.Emit(context.Background(), n); err == nil {
		t.Fatalf("expected store error")
	}

	repo.insertErr = nil
	if err := svc.Emit(context.Background(), n); err != nil {
		t.Fatalf("emit after recovery: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected the retried notification to be stored, got %d", len(repo.items))
	}

	if err := svc.Emit(context.Background(), n); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected the repeat to be deduplicated, got %d", len(repo.items))
	}
}

func TestNotificationService_Emit(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, newStubUserRepo(), nil, NotificationOptions{}, zerolog.Nop())

	if err := svc.Emit(context.Background(), domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationFollow, Read: true}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.items))
	}
	n := repo.items[0]
	if n.Read || n.CreatedAt.IsZero() {
		t.Fatalf("expected unread notification with timestamp, got %+v", n)
	}
}

func TestNotificationService_Emit_Self(t *testing.T) {
	self := domain.Notification{From: "u1", To: "u1", Kind: domain.NotificationLike, PostID: "p1"}

	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, newStubUserRepo(), nil, NotificationOptions{SuppressSelf: true}, zerolog.Nop())
	if err := svc.Emit(context.Background(), self); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("self notification should be suppressed")
	}

	repo = &stubNotificationRepo{}
	svc = NewNotificationService(repo, newStubUserRepo(), nil, NotificationOptions{}, zerolog.Nop())
	if err := svc.Emit(context.Background(), self); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("self notification should be stored when not suppressed")
	}
}

func TestNotificationService_Emit_Dedup(t *testing.T) {
	repo := &stubNotificationRepo{}
	dedup := &stubDeduper{seen: map[string]bool{}}
	svc := NewNotificationService(repo, newStubUserRepo(), dedup, NotificationOptions{}, zerolog.Nop())
	n := domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationLike, PostID: "p1"}

	for i := 0; i < 3; i++ {
		if err := svc.Emit(context.Background(), n); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected duplicates to be dropped, got %d", len(repo.items))
	}

	dedup.err = errors.New("redis down")
	if err := svc.Emit(context.Background(), n); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(repo.items) != 2 {
		t.Fatalf("dedup failure should not drop the notification")
	}
}

func TestNotificationService_Emit_StoreError(t *testing.T) {
	repo := &stubNotificationRepo{insertErr: errors.New("write failed")}
	svc := NewNotificationService(repo, newStubUserRepo(), nil, NotificationOptions{}, zerolog.Nop())

	if err := svc.Emit(context.Background(), domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationFollow}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNotificationService_List_MarksRead(t *testing.T) {
	users := newStubUserRepo()
	alice := users.seed("alice")
	bob := users.seed("bob")
	carol := users.seed("carol")
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, users, nil, NotificationOptions{}, zerolog.Nop())
	ctx := context.Background()

	_ = svc.Emit(ctx, domain.Notification{From: bob.ID, To: alice.ID, Kind: domain.NotificationFollow})
	_ = svc.Emit(ctx, domain.Notification{From: carol.ID, To: alice.ID, Kind: domain.NotificationLike, PostID: "p1"})
	_ = svc.Emit(ctx, domain.Notification{From: alice.ID, To: bob.ID, Kind: domain.NotificationFollow})

	got, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].From == nil || got[0].From.Username != "carol" || got[0].Kind != domain.NotificationLike {
		t.Fatalf("expected newest (carol like) first, got %+v", got[0])
	}
	for _, n := range got {
		if n.Read {
			t.Fatalf("listed items should carry their unread state")
		}
	}

	again, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, n := range again {
		if !n.Read {
			t.Fatalf("second listing should show items as read")
		}
	}

	bobs, _ := repo.ListByRecipient(ctx, bob.ID)
	if len(bobs) != 1 || bobs[0].Read {
		t.Fatalf("other recipients must be untouched")
	}
}

func TestNotificationService_List_Empty(t *testing.T) {
	svc := NewNotificationService(&stubNotificationRepo{}, newStubUserRepo(), nil, NotificationOptions{}, zerolog.Nop())

	got, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil list, got %v", got)
	}
}

func TestNotificationService_DeleteAll(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, newStubUserRepo(), nil, NotificationOptions{}, zerolog.Nop())
	ctx := context.Background()

	_ = svc.Emit(ctx, domain.Notification{From: "u2", To: "u1", Kind: domain.NotificationFollow})
	_ = svc.Emit(ctx, domain.Notification{From: "u1", To: "u2", Kind: domain.NotificationFollow})

	if err := svc.DeleteAll(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.items) != 1 || repo.items[0].To != "u2" {
		t.Fatalf("only u1's notifications should be removed, left %v", repo.items)
	}
}
