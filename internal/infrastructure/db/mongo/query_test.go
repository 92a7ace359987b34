package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chirp/social-api/internal/core/ports"
)

func TestObjectIDs_DropsMalformed(t *testing.T) {
	valid := primitive.NewObjectID()

	got := objectIDs([]string{valid.Hex(), "nope", ""})
	if len(got) != 1 || got[0] != valid {
		t.Fatalf("expected only %s, got %v", valid.Hex(), got)
	}

	if got := objectIDs(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestHexIDs_RoundTrip(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	got := hexIDs(objectIDs([]string{a.Hex(), b.Hex()}))
	if len(got) != 2 || got[0] != a.Hex() || got[1] != b.Hex() {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestPostQuery(t *testing.T) {
	owner := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	tests := []struct {
		name   string
		filter ports.PostFilter
		check  func(t *testing.T, q bson.M)
	}{
		{
			name:   "no filter",
			filter: ports.PostFilter{},
			check: func(t *testing.T, q bson.M) {
				if len(q) != 0 {
					t.Fatalf("expected empty query, got %v", q)
				}
			},
		},
		{
			name:   "owners",
			filter: ports.PostFilter{OwnerIDs: []string{owner.Hex(), "bad"}},
			check: func(t *testing.T, q bson.M) {
				in, ok := q["user"].(bson.M)["$in"].([]primitive.ObjectID)
				if !ok || len(in) != 1 || in[0] != owner {
					t.Fatalf("unexpected user clause: %v", q["user"])
				}
			},
		},
		{
			name:   "empty owner list matches nothing",
			filter: ports.PostFilter{OwnerIDs: []string{}},
			check: func(t *testing.T, q bson.M) {
				in, ok := q["user"].(bson.M)["$in"].([]primitive.ObjectID)
				if !ok || len(in) != 0 {
					t.Fatalf("expected empty $in, got %v", q["user"])
				}
			},
		},
		{
			name:   "liked by",
			filter: ports.PostFilter{LikedBy: liker.Hex()},
			check: func(t *testing.T, q bson.M) {
				if q["likes"] != liker {
					t.Fatalf("unexpected likes clause: %v", q["likes"])
				}
			},
		},
		{
			name:   "liked by malformed id",
			filter: ports.PostFilter{LikedBy: "xyz"},
			check: func(t *testing.T, q bson.M) {
				if q["likes"] != primitive.NilObjectID {
					t.Fatalf("expected nil object id, got %v", q["likes"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, postQuery(tt.filter))
		})
	}
}
