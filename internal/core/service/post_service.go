package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

// PostService implements post creation, deletion, likes, comments and feeds.
type PostService struct {
	posts    ports.PostRepository
	users    ports.UserRepository
	images   ports.ImageStore
	notifier ports.NotificationEmitter
	log      zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	images ports.ImageStore,
	notifier ports.NotificationEmitter,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		images:   images,
		notifier: notifier,
		log:      log,
	}
}

// Create stores a post for an existing user. The image, if any, is uploaded
// first and released again when the post cannot be saved.
func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*ports.PostDetail, error) {
	owner, err := s.users.FindByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" && in.Img == "" {
		return nil, domain.ErrEmptyPost
	}

	var img string
	if in.Img != "" {
		img, err = s.images.Upload(ctx, in.Img, "posts")
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	post, err := s.posts.Create(ctx, &domain.Post{
		OwnerID:   owner.ID,
		Text:      text,
		Img:       img,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if relErr := s.images.Release(context.WithoutCancel(ctx), img); relErr != nil {
			s.log.Warn().Err(relErr).Str("ref", img).Msg("failed to release image of unsaved post")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("owner_id", owner.ID).Msg("post created")
	return &ports.PostDetail{
		ID:        post.ID,
		User:      owner,
		Text:      post.Text,
		Img:       post.Img,
		Likes:     post.Likes,
		Comments:  []ports.CommentDetail{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*ports.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	details, err := s.resolve(ctx, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Delete removes a post owned by requesterID. The stored image is released
// before the record goes away; if that fails the post is kept.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != requesterID {
		return domain.ErrNotPostOwner
	}

	if err := s.images.Release(ctx, post.Img); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info().Str("post_id", postID).Str("owner_id", requesterID).Msg("post deleted")
	return nil
}

func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(userID) {
		likes, err := s.posts.RemoveLike(ctx, postID, userID)
		if err != nil {
			return nil, fmt.Errorf("unlike post: %w", err)
		}
		return likes, nil
	}

	likes, err := s.posts.AddLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("like post: %w", err)
	}

	n := domain.Notification{From: userID, To: post.OwnerID, Kind: domain.NotificationLike, PostID: postID}
	if err := s.notifier.Emit(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("post_id", postID).Str("user_id", userID).Msg("failed to emit like notification")
	}
	return likes, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, userID, text string) (*ports.PostDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	post, err := s.posts.AddComment(ctx, postID, domain.Comment{
		Text:      text,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	details, err := s.resolve(ctx, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Feed lists posts for one of the feed kinds, newest first.
func (s *PostService) Feed(ctx context.Context, q ports.FeedQuery) ([]ports.PostDetail, error) {
	var filter ports.PostFilter

	switch q.Kind {
	case domain.FeedAll:
	case domain.FeedFollowing:
		viewer, err := s.users.FindByID(ctx, q.ViewerID)
		if err != nil {
			return nil, err
		}
		if len(viewer.Following) == 0 {
			return []ports.PostDetail{}, nil
		}
		filter.OwnerIDs = viewer.Following
	case domain.FeedByUser:
		owner, err := s.users.FindByUsername(ctx, q.Username)
		if err != nil {
			return nil, err
		}
		filter.OwnerIDs = []string{owner.ID}
	case domain.FeedLikedBy:
		liker, err := s.users.FindByID(ctx, q.UserID)
		if err != nil {
			return nil, err
		}
		filter.LikedBy = liker.ID
	default:
		return nil, domain.Validation(fmt.Sprintf("unknown feed %q", q.Kind))
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s feed: %w", q.Kind, err)
	}
	return s.resolve(ctx, posts)
}

// resolve attaches owners and comment authors to posts with a single user lookup.
func (s *PostService) resolve(ctx context.Context, posts []*domain.Post) ([]ports.PostDetail, error) {
	out := make([]ports.PostDetail, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.OwnerID)
		for _, c := range p.Comments {
			add(c.UserID)
		}
	}

	users, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve post users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, p := range posts {
		comments := make([]ports.CommentDetail, 0, len(p.Comments))
		for _, c := range p.Comments {
			cd := ports.CommentDetail{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
			if u, ok := byID[c.UserID]; ok {
				cd.User = u.Summary()
			}
			comments = append(comments, cd)
		}

		likes := p.Likes
		if likes == nil {
			likes = []string{}
		}
		out = append(out, ports.PostDetail{
			ID:        p.ID,
			User:      byID[p.OwnerID],
			Text:      p.Text,
			Img:       p.Img,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out, nil
}
