package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

const (
	suggestionSampleSize = 10
	suggestionLimit      = 4
)

// UserService implements profile lookups, profile edits and the follow graph.
type UserService struct {
	repo     ports.UserRepository
	images   ports.ImageStore
	notifier ports.NotificationEmitter
	log      zerolog.Logger
}

func NewUserService(repo ports.UserRepository, images ports.ImageStore, notifier ports.NotificationEmitter, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, images: images, notifier: notifier, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// SetFollowState makes actor follow (or stop following) target. Requesting
// the state that is already in place changes nothing and emits nothing.
func (s *UserService) SetFollowState(ctx context.Context, actorID, targetID string, follow bool) (*ports.FollowResult, error) {
	if actorID == targetID {
		return nil, domain.ErrSelfFollow
	}
	actor, err := s.lookupPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	return s.applyFollow(ctx, actor, targetID, follow)
}

func (s *UserService) ToggleFollow(ctx context.Context, actorID, targetID string) (*ports.FollowResult, error) {
	if actorID == targetID {
		return nil, domain.ErrSelfFollow
	}
	actor, err := s.lookupPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	return s.applyFollow(ctx, actor, targetID, !actor.IsFollowing(targetID))
}

// lookupPair checks that both users exist and returns the actor.
func (s *UserService) lookupPair(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, actorID)
}

func (s *UserService) applyFollow(ctx context.Context, actor *domain.User, targetID string, follow bool) (*ports.FollowResult, error) {
	if actor.IsFollowing(targetID) == follow {
		return &ports.FollowResult{Following: follow}, nil
	}

	if follow {
		if err := s.follow(ctx, actor.ID, targetID); err != nil {
			return nil, err
		}
		s.log.Info().Str("actor_id", actor.ID).Str("target_id", targetID).Msg("user followed")
	} else {
		if err := s.unfollow(ctx, actor.ID, targetID); err != nil {
			return nil, err
		}
		s.log.Info().Str("actor_id", actor.ID).Str("target_id", targetID).Msg("user unfollowed")
	}
	return &ports.FollowResult{Following: follow, Changed: true}, nil
}

// follow updates target.followers then actor.following. When the second
// write fails the first one is undone so the edge never stays one-sided.
func (s *UserService) follow(ctx context.Context, actorID, targetID string) error {
	if err := s.repo.AddFollower(ctx, targetID, actorID); err != nil {
		return fmt.Errorf("follow: add follower: %w", err)
	}
	if err := s.repo.AddFollowing(ctx, actorID, targetID); err != nil {
		s.compensate(ctx, "follow", actorID, targetID, func(ctx context.Context) error {
			return s.repo.RemoveFollower(ctx, targetID, actorID)
		})
		return fmt.Errorf("follow: add following: %w", err)
	}

	n := domain.Notification{From: actorID, To: targetID, Kind: domain.NotificationFollow}
	if err := s.notifier.Emit(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("actor_id", actorID).Str("target_id", targetID).Msg("failed to emit follow notification")
	}
	return nil
}

func (s *UserService) unfollow(ctx context.Context, actorID, targetID string) error {
	if err := s.repo.RemoveFollower(ctx, targetID, actorID); err != nil {
		return fmt.Errorf("unfollow: remove follower: %w", err)
	}
	if err := s.repo.RemoveFollowing(ctx, actorID, targetID); err != nil {
		s.compensate(ctx, "unfollow", actorID, targetID, func(ctx context.Context) error {
			return s.repo.AddFollower(ctx, targetID, actorID)
		})
		return fmt.Errorf("unfollow: remove following: %w", err)
	}
	return nil
}

// compensate runs undo even when the request context is already cancelled.
func (s *UserService) compensate(ctx context.Context, op, actorID, targetID string, undo func(context.Context) error) {
	if err := undo(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).
			Str("op", op).
			Str("actor_id", actorID).
			Str("target_id", targetID).
			Msg("compensation failed, follow edge left asymmetric")
	}
}

// Suggested returns up to four random users that userID neither is nor follows.
func (s *UserService) Suggested(ctx context.Context, userID string) ([]*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exclude := append([]string{userID}, user.Following...)
	sample, err := s.repo.Sample(ctx, exclude, suggestionSampleSize)
	if err != nil {
		return nil, fmt.Errorf("suggested users: %w", err)
	}

	if len(sample) > suggestionLimit {
		sample = sample[:suggestionLimit]
	}
	return sample, nil
}

// UpdateProfile applies a profile edit. New images are uploaded before the
// record is saved; the images they replace are released only after the save
// succeeds.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if (in.CurrentPassword == "") != (in.NewPassword == "") {
		return nil, domain.ErrPasswordPair
	}
	if in.CurrentPassword != "" {
		if !checkPassword(user.PasswordHash, in.CurrentPassword) {
			return nil, domain.ErrWrongPassword
		}
		if len(in.NewPassword) < domain.MinPasswordLength {
			return nil, domain.ErrPasswordTooShort
		}
		hash, err := hashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if email := strings.TrimSpace(in.Email); email != "" && email != user.Email {
		if !validEmail(email) {
			return nil, domain.ErrInvalidEmail
		}
		if err := s.ensureUnused(ctx, s.repo.FindByEmail, email, domain.ErrEmailTaken); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if username := strings.TrimSpace(in.Username); username != "" && username != user.Username {
		if err := s.ensureUnused(ctx, s.repo.FindByUsername, username, domain.ErrUsernameTaken); err != nil {
			return nil, err
		}
		user.Username = username
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Link != "" {
		user.Link = in.Link
	}

	var uploaded, replaced []string
	for _, img := range []struct {
		dataURL string
		folder  string
		field   *string
	}{
		{in.ProfileImg, "profile", &user.ProfileImg},
		{in.CoverImg, "cover", &user.CoverImg},
	} {
		if img.dataURL == "" {
			continue
		}
		ref, err := s.images.Upload(ctx, img.dataURL, img.folder)
		if err != nil {
			s.releaseAll(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, ref)
		if *img.field != "" {
			replaced = append(replaced, *img.field)
		}
		*img.field = ref
	}

	user.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		s.releaseAll(ctx, uploaded)
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.releaseAll(ctx, replaced)
	return updated, nil
}

func (s *UserService) ensureUnused(ctx context.Context, find func(context.Context, string) (*domain.User, error), value string, taken error) error {
	_, err := find(ctx, value)
	if err == nil {
		return taken
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}

func (s *UserService) releaseAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.images.Release(context.WithoutCancel(ctx), ref); err != nil {
			s.log.Warn().Err(err).Str("ref", ref).Msg("failed to release image")
		}
	}
}
