package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chirp/social-api/internal/core/domain"
)

const collectionNotifications = "notifications"

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

type mongoNotification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	From      primitive.ObjectID  `bson:"from"`
	To        primitive.ObjectID  `bson:"to"`
	Type      string              `bson:"type"`
	Post      *primitive.ObjectID `bson:"post,omitempty"`
	Read      bool                `bson:"read"`
	CreatedAt time.Time           `bson:"createdAt"`
}

func (m *mongoNotification) toDomain() *domain.Notification {
	n := &domain.Notification{
		ID:        m.ID.Hex(),
		From:      m.From.Hex(),
		To:        m.To.Hex(),
		Kind:      domain.NotificationKind(m.Type),
		Read:      m.Read,
		CreatedAt: timeOrZero(m.CreatedAt),
	}
	if m.Post != nil {
		n.PostID = m.Post.Hex()
	}
	return n
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	from, err := primitive.ObjectIDFromHex(n.From)
	if err != nil {
		return domain.ErrUserNotFound
	}
	to, err := primitive.ObjectIDFromHex(n.To)
	if err != nil {
		return domain.ErrUserNotFound
	}

	doc := mongoNotification{
		ID:        primitive.NewObjectID(),
		From:      from,
		To:        to,
		Type:      string(n.Kind),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.PostID != "" {
		post, err := primitive.ObjectIDFromHex(n.PostID)
		if err != nil {
			return domain.ErrPostNotFound
		}
		doc.Post = &post
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID = doc.ID.Hex()
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, to string) ([]*domain.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(to)
	if err != nil {
		return []*domain.Notification{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"to": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Notification{}
	for cur.Next(ctx) {
		var mn mongoNotification
		if err := cur.Decode(&mn); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, mn.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, to string) error {
	oid, err := primitive.ObjectIDFromHex(to)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateMany(ctx, bson.M{"to": oid, "read": false}, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) DeleteAllForRecipient(ctx context.Context, to string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(to)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"to": oid})
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the recipient index used by every query here.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
