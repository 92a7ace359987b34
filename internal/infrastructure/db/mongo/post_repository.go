package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chirp/social-api/internal/core/domain"
	"github.com/chirp/social-api/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id"`
	Text      string             `bson:"text"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type mongoPost struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	User      primitive.ObjectID   `bson:"user"`
	Text      string               `bson:"text,omitempty"`
	Img       string               `bson:"img,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Comments  []mongoComment       `bson:"comments"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (m *mongoPost) toDomain() *domain.Post {
	comments := make([]domain.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID.Hex(),
			Text:      c.Text,
			UserID:    c.User.Hex(),
			CreatedAt: timeOrZero(c.CreatedAt),
		})
	}
	return &domain.Post{
		ID:        m.ID.Hex(),
		OwnerID:   m.User.Hex(),
		Text:      m.Text,
		Img:       m.Img,
		Likes:     hexIDs(m.Likes),
		Comments:  comments,
		CreatedAt: timeOrZero(m.CreatedAt),
		UpdatedAt: timeOrZero(m.UpdatedAt),
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	owner, err := primitive.ObjectIDFromHex(post.OwnerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPost{
		ID:        primitive.NewObjectID(),
		User:      owner,
		Text:      post.Text,
		Img:       post.Img,
		Likes:     objectIDs(post.Likes),
		Comments:  []mongoComment{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) ([]string, error) {
	return r.updateLikes(ctx, postID, "$addToSet", userID)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) ([]string, error) {
	return r.updateLikes(ctx, postID, "$pull", userID)
}

func (r *PostRepository) updateLikes(ctx context.Context, postID, op, userID string) ([]string, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	mp, err := r.findOneAndUpdate(ctx, postID, bson.M{op: bson.M{"likes": user}})
	if err != nil {
		return nil, err
	}
	return hexIDs(mp.Likes), nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	user, err := primitive.ObjectIDFromHex(comment.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	mc := mongoComment{
		ID:        primitive.NewObjectID(),
		Text:      comment.Text,
		User:      user,
		CreatedAt: comment.CreatedAt,
	}
	mp, err := r.findOneAndUpdate(ctx, postID, bson.M{"$push": bson.M{"comments": mc}})
	if err != nil {
		return nil, err
	}
	return mp.toDomain(), nil
}

// findOneAndUpdate applies update to a single post, stamps updatedAt and
// returns the document as it is after the change.
func (r *PostRepository) findOneAndUpdate(ctx context.Context, postID string, update bson.M) (*mongoPost, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update["$set"] = bson.M{"updatedAt": time.Now().UTC()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoPost
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &mp, nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := postQuery(filter)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Post{}
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func postQuery(f ports.PostFilter) bson.M {
	query := bson.M{}
	if f.OwnerIDs != nil {
		query["user"] = bson.M{"$in": objectIDs(f.OwnerIDs)}
	}
	if f.LikedBy != "" {
		// A malformed id matches nothing rather than everything.
		oid, err := primitive.ObjectIDFromHex(f.LikedBy)
		if err != nil {
			oid = primitive.NilObjectID
		}
		query["likes"] = oid
	}
	return query
}

// EnsureIndexes creates the indexes backing the feed queries.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "likes", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
