package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

// NotificationDeduper abstracts the dedup window store (Redis).
type NotificationDeduper interface {
	// Claim reports whether n is the first of its kind inside the window.
	Claim(ctx context.Context, n domain.Notification) (bool, error)
	// Forget releases a claim so the same notification can be stored later.
	Forget(ctx context.Context, n domain.Notification) error
}

// NotificationOptions holds the policy knobs for emitting notifications.
type NotificationOptions struct {
	// SuppressSelf drops notifications whose sender is also the recipient,
	// e.g. a user liking their own post.
	SuppressSelf bool
}

type NotificationService struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	dedup NotificationDeduper
	opts  NotificationOptions
	log   zerolog.Logger
}

// NewNotificationService returns a NotificationService. dedup may be nil to
// disable the dedup window.
func NewNotificationService(
	repo ports.NotificationRepository,
	users ports.UserRepository,
	dedup NotificationDeduper,
	opts NotificationOptions,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{repo: repo, users: users, dedup: dedup, opts: opts, log: log}
}

// Emit stores a notification unless policy or the dedup window drops it.
func (s *NotificationService) Emit(ctx context.Context, n domain.Notification) error {
	if s.opts.SuppressSelf && n.From == n.To {
		s.log.Debug().Str("from", n.From).Str("kind", string(n.Kind)).Msg("self notification suppressed")
		return nil
	}

	claimed := false
	if s.dedup != nil {
		first, err := s.dedup.Claim(ctx, n)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("to", n.To).Msg("dedup check failed, notifying anyway")
		case !first:
			s.log.Debug().Str("from", n.From).Str("to", n.To).Str("kind", string(n.Kind)).Msg("duplicate notification skipped")
			return nil
		default:
			claimed = true
		}
	}

	n.Read = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &n); err != nil {
		if claimed {
			if ferr := s.dedup.Forget(ctx, n); ferr != nil {
				s.log.Warn().Err(ferr).Str("to", n.To).Msg("dedup release failed")
			}
		}
		return fmt.Errorf("emit notification: %w", err)
	}
	return nil
}

// List returns the notifications addressed to userID, newest first, and then
// marks all of them read. The returned items carry their pre-read state.
func (s *NotificationService) List(ctx context.Context, userID string) ([]ports.NotificationDetail, error) {
	items, err := s.repo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]ports.NotificationDetail, 0, len(items))
	if len(items) > 0 {
		senders, err := s.senders(ctx, items)
		if err != nil {
			return nil, err
		}
		for _, n := range items {
			out = append(out, ports.NotificationDetail{
				ID:        n.ID,
				From:      senders[n.From],
				To:        n.To,
				Kind:      n.Kind,
				PostID:    n.PostID,
				Read:      n.Read,
				CreatedAt: n.CreatedAt,
			})
		}
	}

	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, fmt.Errorf("mark notifications read: %w", err)
	}
	return out, nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) error {
	n, err := s.repo.DeleteAllForRecipient(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	s.log.Info().Str("user_id", userID).Int64("deleted", n).Msg("notifications deleted")
	return nil
}

func (s *NotificationService) senders(ctx context.Context, items []*domain.Notification) (map[string]*domain.UserSummary, error) {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, n := range items {
		if _, ok := seen[n.From]; !ok {
			seen[n.From] = struct{}{}
			ids = append(ids, n.From)
		}
	}

	users, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve notification senders: %w", err)
	}
	out := make(map[string]*domain.UserSummary, len(users))
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}
