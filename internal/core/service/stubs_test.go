package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int

	addFollowingErr    error
	removeFollowingErr error
	removeFollowerErr  error
	updateErr          error
	sampleErr          error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Followers = slices.Clone(u.Followers)
	clone.Following = slices.Clone(u.Following)
	return &clone
}

// seed stores a user directly, bypassing validation.
func (r *stubUserRepo) seed(username string) *domain.User {
	r.nextID++
	u := &domain.User{
		ID:        fmt.Sprintf("u%d", r.nextID),
		Username:  username,
		FullName:  username,
		Email:     username + "@example.com",
		Followers: []string{},
		Following: []string{},
	}
	r.users[u.ID] = u
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindManyByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Sample(_ context.Context, exclude []string, size int) ([]*domain.User, error) {
	if r.sampleErr != nil {
		return nil, r.sampleErr
	}
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		if !slices.Contains(exclude, id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var out []*domain.User
	for _, id := range ids {
		if len(out) == size {
			break
		}
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) AddFollower(_ context.Context, userID, followerID string) error {
	u := r.users[userID]
	if !slices.Contains(u.Followers, followerID) {
		u.Followers = append(u.Followers, followerID)
	}
	return nil
}

func (r *stubUserRepo) RemoveFollower(_ context.Context, userID, followerID string) error {
	if r.removeFollowerErr != nil {
		return r.removeFollowerErr
	}
	u := r.users[userID]
	u.Followers = slices.DeleteFunc(u.Followers, func(id string) bool { return id == followerID })
	return nil
}

func (r *stubUserRepo) AddFollowing(_ context.Context, userID, followingID string) error {
	if r.addFollowingErr != nil {
		return r.addFollowingErr
	}
	u := r.users[userID]
	if !slices.Contains(u.Following, followingID) {
		u.Following = append(u.Following, followingID)
	}
	return nil
}

func (r *stubUserRepo) RemoveFollowing(_ context.Context, userID, followingID string) error {
	if r.removeFollowingErr != nil {
		return r.removeFollowingErr
	}
	u := r.users[userID]
	u.Following = slices.DeleteFunc(u.Following, func(id string) bool { return id == followingID })
	return nil
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	posts  map[string]*domain.Post
	order  []string
	nextID int

	createErr error
	deleteErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = slices.Clone(p.Likes)
	clone.Comments = slices.Clone(p.Comments)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	created := clonePost(p)
	created.ID = fmt.Sprintf("p%d", r.nextID)
	r.posts[created.ID] = created
	r.order = append(r.order, created.ID)
	return clonePost(created), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID, userID string) ([]string, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if !slices.Contains(p.Likes, userID) {
		p.Likes = append(p.Likes, userID)
	}
	return slices.Clone(p.Likes), nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID, userID string) ([]string, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Likes = slices.DeleteFunc(p.Likes, func(id string) bool { return id == userID })
	return slices.Clone(p.Likes), nil
}

func (r *stubPostRepo) AddComment(_ context.Context, postID string, c domain.Comment) (*domain.Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	c.ID = fmt.Sprintf("c%d", len(p.Comments)+1)
	p.Comments = append(p.Comments, c)
	return clonePost(p), nil
}

// List returns matches newest first, i.e. reverse insertion order.
func (r *stubPostRepo) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	var out []*domain.Post
	for i := len(r.order) - 1; i >= 0; i-- {
		p, ok := r.posts[r.order[i]]
		if !ok {
			continue
		}
		if f.OwnerIDs != nil && !slices.Contains(f.OwnerIDs, p.OwnerID) {
			continue
		}
		if f.LikedBy != "" && !slices.Contains(p.Likes, f.LikedBy) {
			continue
		}
		out = append(out, clonePost(p))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Notification repository, emitter, image store
// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	items     []*domain.Notification
	insertErr error
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *n
	clone.ID = fmt.Sprintf("n%d", len(r.items)+1)
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, to string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].To == to {
			clone := *r.items[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, to string) error {
	for _, n := range r.items {
		if n.To == to {
			n.Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) DeleteAllForRecipient(_ context.Context, to string) (int64, error) {
	before := len(r.items)
	r.items = slices.DeleteFunc(r.items, func(n *domain.Notification) bool { return n.To == to })
	return int64(before - len(r.items)), nil
}

type recordingEmitter struct {
	mu      sync.Mutex
	emitted []domain.Notification
	err     error
}

func (e *recordingEmitter) Emit(_ context.Context, n domain.Notification) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.emitted = append(e.emitted, n)
	return nil
}

type stubImageStore struct {
	uploaded   []string
	released   []string
	uploadErr  error
	releaseErr error
}

func (s *stubImageStore) Upload(_ context.Context, dataURL, folder string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	ref := fmt.Sprintf("https://cdn.test/%s/%d.png", folder, len(s.uploaded)+1)
	s.uploaded = append(s.uploaded, ref)
	return ref, nil
}

func (s *stubImageStore) Release(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if s.releaseErr != nil {
		return s.releaseErr
	}
	s.released = append(s.released, ref)
	return nil
}
